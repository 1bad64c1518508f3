package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-ledger/internal/application/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/internal/infrastructure/kvstore"
)

func withLedger(t *testing.T, store *kvstore.Store, fn func(l *inventory.StockLedger) error) error {
	t.Helper()
	return store.Run(context.Background(), func(tx repository.Tx) error {
		return fn(inventory.NewStockLedger(tx.Stock(), day0))
	})
}

func TestStockLedger_PosicionPerezosa(t *testing.T) {
	store := kvstore.New(nil, nil)
	err := withLedger(t, store, func(l *inventory.StockLedger) error {
		pos, err := l.Position("p1", "w1")
		require.NoError(t, err)
		assert.True(t, pos.IsNew())
		assert.Zero(t, pos.QuantityOnHand)
		assert.True(t, pos.AverageCost.IsZero())
		return nil
	})
	require.NoError(t, err)
}

func TestStockLedger_ApplyDeltaRespetaInvariante(t *testing.T) {
	store := kvstore.New(nil, nil)
	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		_, err := l.Receive("p1", "w1", 10, d("3"))
		return err
	}))

	err := withLedger(t, store, func(l *inventory.StockLedger) error {
		_, err := l.ApplyDelta("p1", "w1", -11, 0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	err = withLedger(t, store, func(l *inventory.StockLedger) error {
		_, err := l.ApplyDelta("p1", "w1", 0, 11)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock, "reserved no puede superar onHand")

	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		available, err := l.Available("p1", "w1")
		assert.Equal(t, int64(10), available)
		return err
	}))
}

func TestStockLedger_ReceiveDesdeCero(t *testing.T) {
	store := kvstore.New(nil, nil)
	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		pos, err := l.Receive("p1", "w1", 3, d("7.25"))
		require.NoError(t, err)
		assert.True(t, pos.AverageCost.Equal(d("7.25")))
		assert.Equal(t, day0, pos.UpdatedAt)
		return nil
	}))
}

func TestStockLedger_ReconcileConteoNegativo(t *testing.T) {
	store := kvstore.New(nil, nil)
	err := withLedger(t, store, func(l *inventory.StockLedger) error {
		_, _, err := l.Reconcile("p1", "w1", -1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
}

// ─── Valorización ──────────────────────────────────────────────────────────

func TestStockLedger_PromedioNoDependeDelAgrupamiento(t *testing.T) {
	store := kvstore.New(nil, nil)
	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		for _, r := range []struct {
			wh   string
			qty  int64
			cost string
		}{
			{"w1", 3, "1.00"}, {"w1", 3, "1.01"}, {"w1", 1, "1.01"},
			{"w2", 3, "1.00"}, {"w2", 4, "1.01"},
		} {
			if _, err := l.Receive("p1", r.wh, r.qty, d(r.cost)); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		split, err := l.Position("p1", "w1")
		require.NoError(t, err)
		merged, err := l.Position("p1", "w2")
		require.NoError(t, err)

		assert.True(t, split.AverageCost.Equal(merged.AverageCost), "split %s merged %s", split.AverageCost, merged.AverageCost)
		assert.True(t, split.Value().Equal(d("7.04")), "got %s", split.Value())
		assert.True(t, merged.Value().Equal(d("7.04")), "got %s", merged.Value())
		assert.True(t, split.AverageCost.RoundBank(2).Equal(d("1.01")), "got %s", split.AverageCost)
		return nil
	}))
}

func TestStockLedger_SalidasYTrasladosConservanElValor(t *testing.T) {
	store := kvstore.New(nil, nil)
	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		if _, err := l.Receive("p1", "w1", 3, d("1.00")); err != nil {
			return err
		}
		_, err := l.Receive("p1", "w1", 4, d("1.01"))
		return err
	}))

	require.NoError(t, withLedger(t, store, func(l *inventory.StockLedger) error {
		before, err := l.Position("p1", "w1")
		require.NoError(t, err)
		avg := before.AverageCost

		src, dst, err := l.Transfer("p1", "w1", "w2", 2)
		require.NoError(t, err)
		assert.True(t, src.AverageCost.Equal(avg), "el origen conserva su promedio")
		assert.True(t, src.Value().Add(dst.Value()).Equal(d("7.04")), "el traslado no crea ni destruye valor")

		src, err = l.Issue("p1", "w1", 5)
		require.NoError(t, err)
		assert.Zero(t, src.QuantityOnHand)
		assert.True(t, src.Value().IsZero(), "retiro total deja el valor en cero, got %s", src.Value())
		assert.True(t, src.AverageCost.Equal(avg))
		return nil
	}))
}
