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

// ProductUseCase casos de uso CRUD para productos. Existencias y costo se manejan vía movimientos.
type ProductUseCase struct {
	txRunner TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner}
}

// Create crea un nuevo producto. El SKU es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	productType := entity.ProductType(in.Type)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" || !productType.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinReorderLevel < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		CategoryID:      in.CategoryID,
		Type:            productType,
		MinReorderLevel: in.MinReorderLevel,
		Price:           in.Price,
		Unit:            in.Unit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Products().Create(product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		product, err = tx.Products().GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar SKU ni costo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		product, err = tx.Products().GetByID(id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.ErrInvalidInput
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.Type != nil {
			t := entity.ProductType(*in.Type)
			if !t.IsValid() {
				return domain.ErrInvalidInput
			}
			product.Type = t
		}
		if in.MinReorderLevel != nil {
			if *in.MinReorderLevel < 0 {
				return domain.ErrInvalidInput
			}
			product.MinReorderLevel = *in.MinReorderLevel
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return domain.ErrInvalidInput
			}
			product.Price = *in.Price
		}
		if in.Unit != nil {
			product.Unit = *in.Unit
		}
		product.UpdatedAt = time.Now().UTC()
		return tx.Products().Update(product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Products().List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto sin historial. Con movimientos registrados devuelve ErrConflict
// para no romper el ledger.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if _, err := tx.Products().GetByID(id); err != nil {
			return err
		}
		movs, err := tx.Movements().ListByProduct(id, nil, nil, 1, 0)
		if err != nil {
			return err
		}
		if len(movs) > 0 {
			return fmt.Errorf("producto %s con movimientos: %w", id, domain.ErrConflict)
		}
		return tx.Products().Delete(id)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Type:            string(p.Type),
		MinReorderLevel: p.MinReorderLevel,
		Price:           p.Price,
		Unit:            p.Unit,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
