package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition existencias de un producto en una bodega.
// Invariante: 0 <= QuantityReserved <= QuantityOnHand, por lo que Available() nunca es negativo.
type StockPosition struct {
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	QuantityOnHand   int64           `json:"quantity_on_hand"`
	QuantityReserved int64           `json:"quantity_reserved"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Available cantidad disponible (existencias menos reservas).
func (p *StockPosition) Available() int64 {
	return p.QuantityOnHand - p.QuantityReserved
}

// Value valor de inventario de la posición sin redondear.
// Posiciones guardadas sin valor se valoran al costo promedio.
func (p *StockPosition) Value() decimal.Decimal {
	if p.InventoryValue.IsZero() && p.QuantityOnHand > 0 {
		return p.AverageCost.Mul(decimal.NewFromInt(p.QuantityOnHand))
	}
	return p.InventoryValue
}

// IsNew indica si la posición aún no ha recibido mercancía (creación perezosa).
func (p *StockPosition) IsNew() bool {
	return p.UpdatedAt.IsZero()
}
