package finance

import (
	"context"

	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}
