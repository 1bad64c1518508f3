package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// warehouse_id sirve de atajo: destino en IN, origen en OUT y CONSUMPTION, bodega contada en ADJUSTMENT.
type RegisterMovementRequest struct {
	Type               string           `json:"type" validate:"required,oneof=IN OUT TRANSFER ADJUSTMENT CONSUMPTION"`
	ProductID          string           `json:"product_id" validate:"required"`
	Quantity           int64            `json:"quantity" validate:"gte=0"`
	UnitCost           *decimal.Decimal `json:"unit_cost,omitempty"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	WarehouseID        string           `json:"warehouse_id,omitempty"`
	FromWarehouseID    string           `json:"from_warehouse_id,omitempty"`
	ToWarehouseID      string           `json:"to_warehouse_id,omitempty"`
	ReferenceDocID     string           `json:"reference_doc_id" validate:"max=120"`
	VendorID           string           `json:"vendor_id,omitempty"`
	ClientID           string           `json:"client_id,omitempty"`
	DepartmentID       string           `json:"department_id,omitempty"`
	CountedQuantity    *int64           `json:"counted_quantity,omitempty"`
	EnforceCreditLimit bool             `json:"enforce_credit_limit"`
}

// ReservationRequest body para reservar o liberar unidades de una posición.
type ReservationRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
}

// MovementResultResponse salida de un movimiento registrado.
type MovementResultResponse struct {
	Movement            *entity.MovementRecord       `json:"movement,omitempty"` // nil si un ajuste no encontró diferencia
	Positions           []*entity.StockPosition      `json:"positions"`
	Transaction         *entity.FinancialTransaction `json:"transaction,omitempty"`
	NewBalance          *decimal.Decimal             `json:"new_balance,omitempty"`
	CashPayment         *decimal.Decimal             `json:"cash_payment,omitempty"`
	BudgetExceeded      bool                         `json:"budget_exceeded"`
	DepartmentSpend     *decimal.Decimal             `json:"department_spend,omitempty"`
	CreditLimitExceeded bool                         `json:"credit_limit_exceeded"`
}

// StockPositionResponse posición con disponible y valorización.
type StockPositionResponse struct {
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	QuantityOnHand   int64           `json:"quantity_on_hand"`
	QuantityReserved int64           `json:"quantity_reserved"`
	Available        int64           `json:"available"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para una posición
// cuyo disponible está por debajo del nivel mínimo del producto.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id"`
	CurrentStock       int64           `json:"current_stock"` // disponible
	ReorderPoint       int64           `json:"reorder_point"`
	Deficit            int64           `json:"deficit"`             // ReorderPoint - CurrentStock
	IdealStock         int64           `json:"ideal_stock"`         // ReorderPoint * 1.5
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`           // costo promedio ponderado de la posición
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
