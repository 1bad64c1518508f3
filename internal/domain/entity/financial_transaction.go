package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipos de transacción financiera.
type TransactionType string

const (
	TransactionTypeInvoice    TransactionType = "INVOICE"
	TransactionTypePayment    TransactionType = "PAYMENT"
	TransactionTypeReturn     TransactionType = "RETURN"
	TransactionTypeCreditNote TransactionType = "CREDIT_NOTE"
	TransactionTypeDebitNote  TransactionType = "DEBIT_NOTE"
)

// IsValid indica si el tipo es uno de los reconocidos.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInvoice, TransactionTypePayment, TransactionTypeReturn,
		TransactionTypeCreditNote, TransactionTypeDebitNote:
		return true
	}
	return false
}

// IsSettlement indica si la transacción puede aplicarse contra una factura abierta.
func (t TransactionType) IsSettlement() bool {
	switch t {
	case TransactionTypePayment, TransactionTypeReturn, TransactionTypeCreditNote:
		return true
	}
	return false
}

// FinancialTransaction registro inmutable de un cambio de saldo.
// PaidDate es el único campo que se actualiza tras la creación (al liquidarse la factura).
type FinancialTransaction struct {
	ID              string          `json:"id"`
	EntityType      EntityType      `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	EntityName      string          `json:"entity_name"`
	TransactionDate time.Time       `json:"transaction_date"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`       // siempre positivo; la dirección la da Type
	CashPayment     decimal.Decimal `json:"cash_payment"` // parte de una factura de proveedor pagada en efectivo
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceDocID  string          `json:"reference_doc_id"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	PaidDate        *time.Time      `json:"paid_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// IsInvoice indica si la transacción es una factura.
func (t *FinancialTransaction) IsInvoice() bool {
	return t.Type == TransactionTypeInvoice
}

// IsPaid indica si la factura ya fue liquidada.
func (t *FinancialTransaction) IsPaid() bool {
	return t.PaidDate != nil
}

// CollectionAlert alerta de cobranza derivada de una factura de cliente vencida. Nunca se persiste.
type CollectionAlert struct {
	ID             string          `json:"id"` // ID de la transacción de factura
	ClientID       string          `json:"client_id"`
	ClientName     string          `json:"client_name"`
	InvoiceID      string          `json:"invoice_id"`
	ReferenceDocID string          `json:"reference_doc_id"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        time.Time       `json:"due_date"`
	Amount         decimal.Decimal `json:"amount"` // saldo pendiente de la factura
	DaysOverdue    int             `json:"days_overdue"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}
