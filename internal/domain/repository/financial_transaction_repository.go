package repository

import (
	"time"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// TransactionFilter filtros opcionales para listar transacciones financieras.
type TransactionFilter struct {
	EntityType entity.EntityType
	EntityID   string
	Type       entity.TransactionType
	From       *time.Time
	To         *time.Time
}

// Matches indica si la transacción cumple el filtro.
func (f TransactionFilter) Matches(t *entity.FinancialTransaction) bool {
	if f.EntityType != "" && t.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != "" && t.EntityID != f.EntityID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.From != nil && t.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.TransactionDate.After(*f.To) {
		return false
	}
	return true
}

// FinancialTransactionRepository define el puerto de persistencia del historial financiero.
// Las transacciones son inmutables salvo PaidDate (MarkPaid).
type FinancialTransactionRepository interface {
	Create(tx *entity.FinancialTransaction) error
	GetByID(id string) (*entity.FinancialTransaction, error)
	MarkPaid(id string, paidAt time.Time) error
	// List devuelve las transacciones que cumplen el filtro en orden de registro.
	List(filter TransactionFilter) ([]*entity.FinancialTransaction, error)
}
