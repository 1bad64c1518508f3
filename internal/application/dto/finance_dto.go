package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// PaymentRequest body para registrar un pago de proveedor o cliente.
// reference_doc_id puede ser el ID de una factura abierta para aplicarle el pago.
type PaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ReferenceDocID string          `json:"reference_doc_id" validate:"max=120"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// NoteRequest body para devoluciones y notas crédito/débito.
type NoteRequest struct {
	Type           string          `json:"type" validate:"required,oneof=RETURN CREDIT_NOTE DEBIT_NOTE"`
	Amount         decimal.Decimal `json:"amount"`
	ReferenceDocID string          `json:"reference_doc_id" validate:"max=120"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// InvoiceRequest body para registrar una factura manual.
type InvoiceRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ReferenceDocID string          `json:"reference_doc_id" validate:"max=120"`
	DueDate        *time.Time      `json:"due_date"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// PostingResponse salida de una operación sobre el saldo.
type PostingResponse struct {
	Transaction         *entity.FinancialTransaction `json:"transaction"`
	NewBalance          decimal.Decimal              `json:"new_balance"`
	CashPayment         *decimal.Decimal             `json:"cash_payment,omitempty"`
	CreditLimitExceeded bool                         `json:"credit_limit_exceeded"`
	AppliedInvoiceID    string                       `json:"applied_invoice_id,omitempty"`
	InvoiceOutstanding  *decimal.Decimal             `json:"invoice_outstanding,omitempty"`
	InvoiceSettled      bool                         `json:"invoice_settled"`
}

// OrderValidationResponse salida de la validación de un pedido.
type OrderValidationResponse struct {
	Approved         bool   `json:"approved"`
	Reason           string `json:"reason,omitempty"`
	RequiresApproval bool   `json:"requires_approval"`
}

// CreditCheckResponse salida de la verificación de límite de crédito.
type CreditCheckResponse struct {
	ClientID string          `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Exceeded bool            `json:"exceeded"`
}

// FinancialSummaryResponse resumen del tablero financiero.
type FinancialSummaryResponse struct {
	TotalPayables    decimal.Decimal `json:"total_payables"`
	TotalReceivables decimal.Decimal `json:"total_receivables"`
	NetPosition      decimal.Decimal `json:"net_position"`
	OverdueCount     int             `json:"overdue_count"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
}

// BalanceCheckResponse resultado del replay de una cuenta.
type BalanceCheckResponse struct {
	Stored     decimal.Decimal `json:"stored"`
	Replayed   decimal.Decimal `json:"replayed"`
	LastAfter  decimal.Decimal `json:"last_balance_after"`
	Consistent bool            `json:"consistent"`
}

// OrderRequest body para validar un pedido de cliente antes de despacharlo.
type OrderRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}
