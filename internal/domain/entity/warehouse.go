package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Department centro de costo que consume inventario interno.
// BudgetCap <= 0 significa que no hay tope configurado.
type Department struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CostCenterCode string          `json:"cost_center_code"`
	BudgetCap      decimal.Decimal `json:"budget_cap"`
	CreatedAt      time.Time       `json:"created_at"`
}
