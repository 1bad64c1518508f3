package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre posiciones y el ledger de movimientos.
type StockQueryUseCase struct {
	txRunner TxRunner
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(txRunner TxRunner) *StockQueryUseCase {
	return &StockQueryUseCase{txRunner: txRunner}
}

// GetPosition posición de un producto en una bodega (vacía si nunca recibió mercancía).
func (uc *StockQueryUseCase) GetPosition(ctx context.Context, productID, warehouseID string) (*dto.StockPositionResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.StockPositionResponse
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		pos, err := tx.Stock().Get(productID, warehouseID)
		if err != nil {
			return err
		}
		out = toPositionResponse(pos)
		return nil
	})
	return out, err
}

// ListPositions posiciones filtradas por producto y/o bodega; sin filtros devuelve todas.
func (uc *StockQueryUseCase) ListPositions(ctx context.Context, productID, warehouseID string) ([]dto.StockPositionResponse, error) {
	var out []dto.StockPositionResponse
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var list []*entity.StockPosition
		var err error
		switch {
		case productID != "":
			list, err = tx.Stock().ListByProduct(productID)
		case warehouseID != "":
			list, err = tx.Stock().ListByWarehouse(warehouseID)
		default:
			list, err = tx.Stock().List()
		}
		if err != nil {
			return err
		}
		out = make([]dto.StockPositionResponse, 0, len(list))
		for _, p := range list {
			if warehouseID != "" && p.WarehouseID != warehouseID {
				continue
			}
			out = append(out, *toPositionResponse(p))
		}
		return nil
	})
	return out, err
}

// MovementQuery filtros del historial de movimientos. ProductID o WarehouseID es obligatorio.
type MovementQuery struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// MovementHistory historial del ledger en orden de registro.
func (uc *StockQueryUseCase) MovementHistory(ctx context.Context, q MovementQuery) ([]*entity.MovementRecord, error) {
	if q.ProductID == "" && q.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.MovementRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if q.ProductID != "" && q.WarehouseID != "" {
			all, err := tx.Movements().ListByProduct(q.ProductID, q.From, q.To, 0, 0)
			if err != nil {
				return err
			}
			out = paginate(filterByWarehouse(all, q.WarehouseID), q.Limit, q.Offset)
			return nil
		}
		if q.ProductID != "" {
			out, err = tx.Movements().ListByProduct(q.ProductID, q.From, q.To, q.Limit, q.Offset)
		} else {
			out, err = tx.Movements().ListByWarehouse(q.WarehouseID, q.From, q.To, q.Limit, q.Offset)
		}
		return err
	})
	return out, err
}

// GetMovement obtiene un movimiento por ID.
func (uc *StockQueryUseCase) GetMovement(ctx context.Context, id string) (*entity.MovementRecord, error) {
	var out *entity.MovementRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Movements().GetByID(id)
		return err
	})
	return out, err
}

func filterByWarehouse(list []*entity.MovementRecord, warehouseID string) []*entity.MovementRecord {
	out := make([]*entity.MovementRecord, 0, len(list))
	for _, m := range list {
		if m.FromWarehouseID == warehouseID || m.ToWarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out
}

func paginate(list []*entity.MovementRecord, limit, offset int) []*entity.MovementRecord {
	if offset >= len(list) {
		return []*entity.MovementRecord{}
	}
	if offset > 0 {
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func toPositionResponse(p *entity.StockPosition) *dto.StockPositionResponse {
	return &dto.StockPositionResponse{
		ProductID:        p.ProductID,
		WarehouseID:      p.WarehouseID,
		QuantityOnHand:   p.QuantityOnHand,
		QuantityReserved: p.QuantityReserved,
		Available:        p.Available(),
		AverageCost:      inventory.RoundMoney(p.AverageCost),
		TotalValue:       inventory.RoundMoney(p.Value()),
	}
}
