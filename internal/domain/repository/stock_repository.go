package repository

import "github.com/jhoicas/nexus-ledger/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar posiciones de stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la posición; si no existe devuelve una posición vacía (creación perezosa).
	Get(productID, warehouseID string) (*entity.StockPosition, error)
	Upsert(pos *entity.StockPosition) error
	List() ([]*entity.StockPosition, error)
	ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error)
	ListByProduct(productID string) ([]*entity.StockPosition, error)
}
