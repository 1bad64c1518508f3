package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType clasifica el inventario mixto: reventa frente a uso interno.
type ProductType string

const (
	ProductTypeResale      ProductType = "RESALE"
	ProductTypeConsumable  ProductType = "CONSUMABLE"
	ProductTypeRawMaterial ProductType = "RAW_MATERIAL"
	ProductTypeAsset       ProductType = "ASSET"
)

// IsValid indica si el tipo es uno de los reconocidos.
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeResale, ProductTypeConsumable, ProductTypeRawMaterial, ProductTypeAsset:
		return true
	}
	return false
}

// IsConsumable indica si el producto puede salir por consumo interno de un departamento.
func (t ProductType) IsConsumable() bool {
	return t.IsValid() && t != ProductTypeResale
}

// Product representa un producto o SKU del inventario (multi-bodega).
// El costo promedio ponderado vive en StockPosition, por bodega.
type Product struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	CategoryID      string          `json:"category_id,omitempty"`
	Type            ProductType     `json:"type"`
	MinReorderLevel int64           `json:"min_reorder_level"`
	Price           decimal.Decimal `json:"price"` // precio de venta por defecto para facturas de cliente
	Unit            string          `json:"unit,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
