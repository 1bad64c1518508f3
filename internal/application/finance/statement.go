package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// StatementRenderer genera la representación imprimible del estado de cuenta.
// Lo implementa infrastructure/pdf.
type StatementRenderer interface {
	RenderStatement(ctx context.Context, doc *StatementDocument) ([]byte, error)
}

// StatementDocument datos del estado de cuenta listos para imprimir.
type StatementDocument struct {
	EntityType     entity.EntityType
	EntityID       string
	EntityName     string
	CurrentBalance decimal.Decimal
	From           *time.Time
	To             *time.Time
	GeneratedAt    time.Time
	Transactions   []*entity.FinancialTransaction // fecha descendente
}

// StatementDocument arma el estado de cuenta de un proveedor o cliente.
func (t *BalanceTracker) StatementDocument(ctx context.Context, entityType entity.EntityType, entityID string, from, to *time.Time) (*StatementDocument, error) {
	var doc *StatementDocument
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		acc, err := loadAccount(tx, entityType, entityID)
		if err != nil {
			return err
		}
		list, err := tx.Transactions().List(repository.TransactionFilter{
			EntityType: entityType, EntityID: entityID, From: from, To: to,
		})
		if err != nil {
			return err
		}
		sortDescending(list)
		doc = &StatementDocument{
			EntityType:     entityType,
			EntityID:       acc.id(),
			EntityName:     acc.name(),
			CurrentBalance: acc.balance(),
			From:           from,
			To:             to,
			GeneratedAt:    t.now(),
			Transactions:   list,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// StatementPDF arma y renderiza el estado de cuenta.
func (t *BalanceTracker) StatementPDF(ctx context.Context, renderer StatementRenderer, entityType entity.EntityType, entityID string, from, to *time.Time) ([]byte, error) {
	if renderer == nil {
		return nil, domain.ErrInvalidInput
	}
	doc, err := t.StatementDocument(ctx, entityType, entityID, from, to)
	if err != nil {
		return nil, err
	}
	return renderer.RenderStatement(ctx, doc)
}
