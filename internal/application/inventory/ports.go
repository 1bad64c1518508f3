package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// AccountPoster publica facturas en la misma transacción del movimiento.
// Lo implementa finance.BalanceTracker.
type AccountPoster interface {
	PostInvoiceInTx(tx repository.Tx, req finance.InvoiceRequest, at time.Time) (*finance.PostingResult, error)
	CheckCreditLimitInTx(tx repository.Tx, clientID string, amount decimal.Decimal) (bool, error)
}
