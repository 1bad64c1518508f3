package repository

import "github.com/jhoicas/nexus-ledger/internal/domain/entity"

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	Update(vendor *entity.Vendor) error
	List(limit, offset int) ([]*entity.Vendor, error)
}

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(limit, offset int) ([]*entity.Client, error)
}
