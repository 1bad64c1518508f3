package usecase

import (
	"context"

	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}
