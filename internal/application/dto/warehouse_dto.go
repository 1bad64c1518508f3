package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location"`
	IsActive *bool   `json:"is_active"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateDepartmentRequest entrada para crear un departamento (centro de costo).
type CreateDepartmentRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	CostCenterCode string          `json:"cost_center_code" validate:"required,max=50"`
	BudgetCap      decimal.Decimal `json:"budget_cap"` // <= 0: sin tope
}

// UpdateDepartmentRequest entrada para actualizar un departamento.
type UpdateDepartmentRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CostCenterCode *string          `json:"cost_center_code" validate:"omitempty,max=50"`
	BudgetCap      *decimal.Decimal `json:"budget_cap"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CostCenterCode string          `json:"cost_center_code"`
	BudgetCap      decimal.Decimal `json:"budget_cap"`
	CreatedAt      time.Time       `json:"created_at"`
}
