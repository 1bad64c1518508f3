package repository

import "context"

// Tx agrupa los repositorios atados a una transacción del store.
// Lo que se escribe a través de ellos solo es visible para otros tras el commit.
type Tx interface {
	Products() ProductRepository
	Warehouses() WarehouseRepository
	Departments() DepartmentRepository
	Stock() StockRepository
	Movements() MovementRepository
	Vendors() VendorRepository
	Clients() ClientRepository
	Transactions() FinancialTransactionRepository
}

// CollectionStore colaborador de persistencia: guarda colecciones completas por clave.
// Implementaciones: memoria, PostgreSQL (JSONB) y Redis.
type CollectionStore interface {
	// Load devuelve found=false si la clave nunca se guardó.
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}
