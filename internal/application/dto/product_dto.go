package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"category_id"`
	Type            string          `json:"type" validate:"required,oneof=RESALE CONSUMABLE RAW_MATERIAL ASSET"`
	MinReorderLevel int64           `json:"min_reorder_level" validate:"gte=0"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit" validate:"max=20"`
}

// UpdateProductRequest entrada para actualizar un producto (el costo vive en las posiciones de stock).
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description"`
	CategoryID      *string          `json:"category_id"`
	Type            *string          `json:"type" validate:"omitempty,oneof=RESALE CONSUMABLE RAW_MATERIAL ASSET"`
	MinReorderLevel *int64           `json:"min_reorder_level" validate:"omitempty,gte=0"`
	Price           *decimal.Decimal `json:"price"`
	Unit            *string          `json:"unit" validate:"omitempty,max=20"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"category_id"`
	Type            string          `json:"type"`
	MinReorderLevel int64           `json:"min_reorder_level"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
