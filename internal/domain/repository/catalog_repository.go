package repository

import "github.com/jhoicas/nexus-ledger/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(limit, offset int) ([]*entity.Warehouse, error)
	Delete(id string) error
}

// DepartmentRepository define el puerto de persistencia para los centros de costo.
type DepartmentRepository interface {
	Create(department *entity.Department) error
	GetByID(id string) (*entity.Department, error)
	Update(department *entity.Department) error
	List(limit, offset int) ([]*entity.Department, error)
}
