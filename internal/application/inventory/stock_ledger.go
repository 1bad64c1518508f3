package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// StockLedger existencias y reservas por (producto, bodega) dentro de una transacción.
// Ninguna operación deja onHand < 0 ni reserved fuera de [0, onHand]; si lo haría, falla sin escribir.
type StockLedger struct {
	stock repository.StockRepository
	at    time.Time
}

// NewStockLedger construye el ledger sobre el repositorio de la transacción.
func NewStockLedger(stock repository.StockRepository, at time.Time) *StockLedger {
	return &StockLedger{stock: stock, at: at}
}

// Position devuelve la posición (vacía si aún no existe).
func (l *StockLedger) Position(productID, warehouseID string) (*entity.StockPosition, error) {
	return l.stock.Get(productID, warehouseID)
}

// Available existencias menos reservas.
func (l *StockLedger) Available(productID, warehouseID string) (int64, error) {
	pos, err := l.stock.Get(productID, warehouseID)
	if err != nil {
		return 0, err
	}
	return pos.Available(), nil
}

// ApplyDelta suma deltas a existencias y reservas. Las unidades se valoran al costo promedio vigente.
func (l *StockLedger) ApplyDelta(productID, warehouseID string, quantityDelta, reservedDelta int64) (*entity.StockPosition, error) {
	pos, err := l.stock.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	revalue(pos, quantityDelta)
	return l.apply(pos, quantityDelta, reservedDelta)
}

// revalue ajusta el valor de inventario por delta unidades al costo promedio; el promedio no cambia.
func revalue(pos *entity.StockPosition, delta int64) {
	switch {
	case delta > 0:
		pos.InventoryValue = pos.Value().Add(pos.AverageCost.Mul(decimal.NewFromInt(delta)))
	case delta < 0:
		value := pos.Value()
		pos.InventoryValue = value.Sub(inventory.ShareOfValue(value, pos.QuantityOnHand, -delta))
	}
}

func (l *StockLedger) apply(pos *entity.StockPosition, quantityDelta, reservedDelta int64) (*entity.StockPosition, error) {
	onHand := pos.QuantityOnHand + quantityDelta
	reserved := pos.QuantityReserved + reservedDelta
	if onHand < 0 || reserved < 0 || reserved > onHand {
		return nil, domain.ErrNegativeStock
	}
	pos.QuantityOnHand = onHand
	pos.QuantityReserved = reserved
	pos.UpdatedAt = l.at
	if err := l.stock.Upsert(pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// Receive entrada de mercancía: suma cantidad y valor, y recalcula el costo promedio ponderado
// como valor / existencias, de modo que el resultado no depende del orden de las entradas.
func (l *StockLedger) Receive(productID, warehouseID string, qty int64, unitCost decimal.Decimal) (*entity.StockPosition, error) {
	pos, err := l.stock.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if qty > 0 {
		pos.InventoryValue = pos.Value().Add(decimal.NewFromInt(qty).Mul(unitCost))
		pos.AverageCost = inventory.AverageFromValue(pos.InventoryValue, pos.QuantityOnHand+qty)
	}
	return l.apply(pos, qty, 0)
}

// Issue salida contra el disponible; el costo promedio no cambia.
func (l *StockLedger) Issue(productID, warehouseID string, qty int64) (*entity.StockPosition, error) {
	pos, err := l.stock.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if qty > pos.Available() {
		return nil, domain.ErrInsufficientStock
	}
	revalue(pos, -qty)
	return l.apply(pos, -qty, 0)
}

// Transfer descuenta del origen y suma al destino como una sola unidad lógica.
// El destino recibe el valor proporcional de las unidades y recalcula su promedio.
func (l *StockLedger) Transfer(productID, fromWarehouseID, toWarehouseID string, qty int64) (src, dst *entity.StockPosition, err error) {
	src, err = l.stock.Get(productID, fromWarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if qty > src.Available() {
		return nil, nil, domain.ErrInsufficientStock
	}
	dst, err = l.stock.Get(productID, toWarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if qty > 0 {
		srcValue := src.Value()
		moved := inventory.ShareOfValue(srcValue, src.QuantityOnHand, qty)
		src.InventoryValue = srcValue.Sub(moved)
		dst.InventoryValue = dst.Value().Add(moved)
		dst.AverageCost = inventory.AverageFromValue(dst.InventoryValue, dst.QuantityOnHand+qty)
	}

	if src, err = l.apply(src, -qty, 0); err != nil {
		return nil, nil, err
	}
	if dst, err = l.apply(dst, qty, 0); err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// Reconcile fija las existencias al conteo físico y devuelve la diferencia con signo.
// Las reservas se recortan al conteo para mantener reserved <= onHand.
func (l *StockLedger) Reconcile(productID, warehouseID string, countedQuantity int64) (*entity.StockPosition, int64, error) {
	if countedQuantity < 0 {
		return nil, 0, domain.ErrNegativeStock
	}
	pos, err := l.stock.Get(productID, warehouseID)
	if err != nil {
		return nil, 0, err
	}
	delta := countedQuantity - pos.QuantityOnHand
	revalue(pos, delta)
	pos.QuantityOnHand = countedQuantity
	if pos.QuantityReserved > countedQuantity {
		pos.QuantityReserved = countedQuantity
	}
	pos.UpdatedAt = l.at
	if err := l.stock.Upsert(pos); err != nil {
		return nil, 0, err
	}
	return pos, delta, nil
}
