package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: posiciones cuyo disponible
// está por debajo del nivel mínimo del producto.
type ReplenishmentUseCase struct {
	txRunner            TxRunner
	defaultReorderLevel int64
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
// defaultReorderLevel aplica a productos sin MinReorderLevel.
func NewReplenishmentUseCase(txRunner TxRunner, defaultReorderLevel int64) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner, defaultReorderLevel: defaultReorderLevel}
}

// GenerateReplenishmentList devuelve las posiciones bajo punto de reorden con la cantidad
// sugerida de pedido, ordenadas por déficit descendente (1 = más urgente).
// warehouseID puede ser vacío para considerar todas las bodegas; en ese caso también
// aparecen los productos que nunca recibieron mercancía.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		products, err := tx.Products().List(0, 0)
		if err != nil {
			return err
		}
		var positions []*entity.StockPosition
		if warehouseID != "" {
			positions, err = tx.Stock().ListByWarehouse(warehouseID)
		} else {
			positions, err = tx.Stock().List()
		}
		if err != nil {
			return err
		}

		byProduct := make(map[string][]*entity.StockPosition, len(products))
		for _, p := range positions {
			byProduct[p.ProductID] = append(byProduct[p.ProductID], p)
		}

		for _, product := range products {
			reorder := product.MinReorderLevel
			if reorder <= 0 {
				reorder = uc.defaultReorderLevel
			}
			list := byProduct[product.ID]
			if len(list) == 0 && warehouseID == "" {
				// sin posiciones: cuenta como disponible cero
				list = []*entity.StockPosition{{ProductID: product.ID}}
			}
			for _, pos := range list {
				available := pos.Available()
				if available >= reorder {
					continue
				}
				ideal := reorder + reorder/2
				suggested := ideal - available
				suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
					ProductID:          product.ID,
					SKU:                product.SKU,
					ProductName:        product.Name,
					WarehouseID:        pos.WarehouseID,
					CurrentStock:       available,
					ReorderPoint:       reorder,
					Deficit:            reorder - available,
					IdealStock:         ideal,
					SuggestedOrderQty:  suggested,
					UnitCost:           inventory.RoundMoney(pos.AverageCost),
					EstimatedOrderCost: inventory.ExtendedCost(suggested, pos.AverageCost),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ordenar: mayor déficit primero; desempate por SKU y bodega para un orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.WarehouseID < b.WarehouseID
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
