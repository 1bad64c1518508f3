package repository

import (
	"time"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el ledger de movimientos (solo anexado).
// No hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.MovementRecord) error
	GetByID(id string) (*entity.MovementRecord, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	ListByDepartment(departmentID string, from, to *time.Time) ([]*entity.MovementRecord, error)
}
