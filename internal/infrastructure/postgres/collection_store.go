package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// Querier abstrae pool o tx de pgx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createCollectionsTable = `
	CREATE TABLE IF NOT EXISTS ledger_collections (
		key        TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// CollectionStore guarda cada colección como un documento JSONB en ledger_collections.
type CollectionStore struct {
	q Querier
}

// NewCollectionStore construye el adaptador. Pasar pool o tx (Querier).
func NewCollectionStore(q Querier) *CollectionStore {
	return &CollectionStore{q: q}
}

// EnsureSchema crea la tabla de colecciones si no existe.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("crear tabla ledger_collections: %w", err)
	}
	return nil
}

// Load obtiene la colección; found=false si no hay fila para la clave.
func (s *CollectionStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.q.QueryRow(ctx, `SELECT data FROM ledger_collections WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return data, true, nil
}

// Save inserta o reemplaza la colección completa.
func (s *CollectionStore) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO ledger_collections (key, data, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := s.q.Exec(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
