package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/finance"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Política de pago ──────────────────────────────────────────────────────

func TestSplitVendorInvoice(t *testing.T) {
	tests := []struct {
		name      string
		vendor    entity.Vendor
		total     string
		wantCash  string
		wantDelta string
	}{
		{"contado no genera saldo", entity.Vendor{PaymentTerms: entity.PaymentTermsCash}, "5000", "5000", "0"},
		{"crédito todo al saldo", entity.Vendor{PaymentTerms: entity.PaymentTermsCredit}, "5000", "0", "5000"},
		{"híbrido 30 por ciento", entity.Vendor{PaymentTerms: entity.PaymentTermsHybrid, CashPercentage: d("30")}, "5000", "1500", "3500"},
		{"híbrido redondeo bancario", entity.Vendor{PaymentTerms: entity.PaymentTermsHybrid, CashPercentage: d("12.5")}, "100.10", "12.51", "87.59"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			split := finance.SplitVendorInvoice(&tc.vendor, d(tc.total))
			assert.True(t, split.CashPayment.Equal(d(tc.wantCash)), "cash=%s", split.CashPayment)
			assert.True(t, split.BalanceDelta.Equal(d(tc.wantDelta)), "delta=%s", split.BalanceDelta)
			assert.True(t, split.CashPayment.Add(split.BalanceDelta).Equal(d(tc.total)))
		})
	}
}

func TestSalesLinkedCommission(t *testing.T) {
	hybrid := &entity.Vendor{PaymentTerms: entity.PaymentTermsHybrid, CommissionPerUnit: d("2.50")}
	assert.True(t, finance.SalesLinkedCommission(hybrid, 40).Equal(d("100")))
	assert.True(t, finance.SalesLinkedCommission(hybrid, 0).IsZero())

	credit := &entity.Vendor{PaymentTerms: entity.PaymentTermsCredit, CommissionPerUnit: d("2.50")}
	assert.True(t, finance.SalesLinkedCommission(credit, 40).IsZero())
}

// ─── Replay ────────────────────────────────────────────────────────────────

func TestReplay_ReproduceSaldo(t *testing.T) {
	history := []*entity.FinancialTransaction{
		{Type: entity.TransactionTypeInvoice, Amount: d("5000"), CashPayment: d("1500")},
		{Type: entity.TransactionTypePayment, Amount: d("1000")},
		{Type: entity.TransactionTypeDebitNote, Amount: d("200")},
		{Type: entity.TransactionTypeCreditNote, Amount: d("50")},
		{Type: entity.TransactionTypeReturn, Amount: d("150")},
		{Type: entity.TransactionTypePayment, Amount: d("3000")},
	}
	// 3500 - 1000 + 200 - 50 - 150 - 3000
	assert.True(t, finance.Replay(history).Equal(d("-500")))
	assert.True(t, finance.Replay(nil).IsZero())
}

func TestExceedsCreditLimit(t *testing.T) {
	assert.False(t, finance.ExceedsCreditLimit(d("800"), d("200"), d("1000")))
	assert.True(t, finance.ExceedsCreditLimit(d("800"), d("200.01"), d("1000")))
	assert.True(t, finance.ExceedsCreditLimit(d("0"), d("1"), d("0")))
}

func TestOutstanding_PagosParciales(t *testing.T) {
	inv := &entity.FinancialTransaction{ID: "inv-1", EntityID: "c1", Type: entity.TransactionTypeInvoice, Amount: d("1000")}
	settlements := []*entity.FinancialTransaction{
		{ID: "p1", EntityID: "c1", Type: entity.TransactionTypePayment, Amount: d("300"), ReferenceDocID: "inv-1"},
		{ID: "p2", EntityID: "c1", Type: entity.TransactionTypeCreditNote, Amount: d("100"), ReferenceDocID: "inv-1"},
		{ID: "p3", EntityID: "c1", Type: entity.TransactionTypePayment, Amount: d("999"), ReferenceDocID: "otra"},
		{ID: "p4", EntityID: "c2", Type: entity.TransactionTypePayment, Amount: d("999"), ReferenceDocID: "inv-1"},
		{ID: "p5", EntityID: "c1", Type: entity.TransactionTypeDebitNote, Amount: d("999"), ReferenceDocID: "inv-1"},
	}
	assert.True(t, finance.Outstanding(inv, settlements).Equal(d("600")))

	settlements = append(settlements, &entity.FinancialTransaction{
		EntityID: "c1", Type: entity.TransactionTypePayment, Amount: d("700"), ReferenceDocID: "inv-1",
	})
	assert.True(t, finance.Outstanding(inv, settlements).IsZero())
}
