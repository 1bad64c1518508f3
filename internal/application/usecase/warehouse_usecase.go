package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	txRunner TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner}
}

// Create crea una nueva bodega activa.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Warehouses().Create(warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		warehouse, err = tx.Warehouses().GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega. Una bodega inactiva no acepta movimientos.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		warehouse, err = tx.Warehouses().GetByID(id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.ErrInvalidInput
			}
			warehouse.Name = *in.Name
		}
		if in.Location != nil {
			warehouse.Location = *in.Location
		}
		if in.IsActive != nil {
			warehouse.IsActive = *in.IsActive
		}
		return tx.Warehouses().Update(warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	var list []*entity.Warehouse
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Warehouses().List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una bodega sin movimientos; si tiene historial devuelve ErrConflict (desactivarla en su lugar).
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if _, err := tx.Warehouses().GetByID(id); err != nil {
			return err
		}
		movs, err := tx.Movements().ListByWarehouse(id, nil, nil, 1, 0)
		if err != nil {
			return err
		}
		if len(movs) > 0 {
			return fmt.Errorf("bodega %s con movimientos: %w", id, domain.ErrConflict)
		}
		return tx.Warehouses().Delete(id)
	})
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
	}
}
