package finance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
)

var hundred = decimal.NewFromInt(100)

// InvoiceSplit reparto de una factura de proveedor entre efectivo inmediato y saldo diferido.
type InvoiceSplit struct {
	CashPayment  decimal.Decimal
	BalanceDelta decimal.Decimal
}

// SplitVendorInvoice aplica la política de pago del proveedor al total de la factura.
//   - CASH: todo se paga en efectivo, el saldo no cambia.
//   - CREDIT: todo va al saldo.
//   - HYBRID_SALES_LINKED: CashPercentage% en efectivo, el resto al saldo.
func SplitVendorInvoice(v *entity.Vendor, total decimal.Decimal) InvoiceSplit {
	switch v.PaymentTerms {
	case entity.PaymentTermsCash:
		return InvoiceSplit{CashPayment: total, BalanceDelta: decimal.Zero}
	case entity.PaymentTermsHybrid:
		cash := inventory.RoundMoney(total.Mul(v.CashPercentage).Div(hundred))
		return InvoiceSplit{CashPayment: cash, BalanceDelta: total.Sub(cash)}
	default:
		return InvoiceSplit{CashPayment: decimal.Zero, BalanceDelta: total}
	}
}

// SalesLinkedCommission pago ligado a ventas de un proveedor HYBRID: unidades vendidas * comisión por unidad.
func SalesLinkedCommission(v *entity.Vendor, unitsSold int64) decimal.Decimal {
	if v.PaymentTerms != entity.PaymentTermsHybrid || v.CommissionPerUnit.IsZero() || unitsSold <= 0 {
		return decimal.Zero
	}
	return inventory.RoundMoney(v.CommissionPerUnit.Mul(decimal.NewFromInt(unitsSold)))
}

// SignedDelta efecto de una transacción sobre el saldo de su entidad.
// Base del replay: el saldo de una cuenta es la suma de SignedDelta de su historial.
func SignedDelta(t *entity.FinancialTransaction) decimal.Decimal {
	switch t.Type {
	case entity.TransactionTypeInvoice:
		return t.Amount.Sub(t.CashPayment)
	case entity.TransactionTypeDebitNote:
		return t.Amount
	case entity.TransactionTypePayment, entity.TransactionTypeReturn, entity.TransactionTypeCreditNote:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// Replay recalcula un saldo desde cero a partir del historial en orden cronológico.
func Replay(history []*entity.FinancialTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range history {
		balance = balance.Add(SignedDelta(t))
	}
	return balance
}

// ExceedsCreditLimit true (bloqueante) cuando saldo + monto propuesto supera el límite.
func ExceedsCreditLimit(balance, proposed, limit decimal.Decimal) bool {
	return balance.Add(proposed).GreaterThan(limit)
}

// Outstanding saldo pendiente de una factura: monto - efectivo - liquidaciones aplicadas.
func Outstanding(invoice *entity.FinancialTransaction, settlements []*entity.FinancialTransaction) decimal.Decimal {
	out := invoice.Amount.Sub(invoice.CashPayment)
	for _, s := range settlements {
		if s.Type.IsSettlement() && s.ReferenceDocID == invoice.ID && s.EntityID == invoice.EntityID {
			out = out.Sub(s.Amount)
		}
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
