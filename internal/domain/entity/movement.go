package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipos de movimiento de inventario.
type MovementType string

const (
	MovementTypeIN          MovementType = "IN"          // recepción de compra
	MovementTypeOUT         MovementType = "OUT"         // despacho de venta
	MovementTypeTRANSFER    MovementType = "TRANSFER"    // traslado entre bodegas
	MovementTypeADJUSTMENT  MovementType = "ADJUSTMENT"  // ajuste por conteo físico
	MovementTypeCONSUMPTION MovementType = "CONSUMPTION" // consumo interno de un departamento
)

// IsValid indica si el tipo es uno de los reconocidos.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeTRANSFER, MovementTypeADJUSTMENT, MovementTypeCONSUMPTION:
		return true
	}
	return false
}

// MovementRecord registro inmutable de un movimiento (ledger de solo anexado).
// Quantity siempre es positiva; en ADJUSTMENT es el valor absoluto de Delta.
type MovementRecord struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Type            MovementType    `json:"type"`
	ProductID       string          `json:"product_id"`
	Quantity        int64           `json:"quantity"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id,omitempty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`  // costo de entrada en IN; costo promedio vigente en el resto
	TotalCost       decimal.Decimal `json:"total_cost"`
	UnitPrice       decimal.Decimal `json:"unit_price,omitempty"` // precio de venta facturado al cliente (OUT)
	Delta           int64           `json:"delta,omitempty"`      // ADJUSTMENT: diferencia con signo
	CountedQuantity *int64          `json:"counted_quantity,omitempty"`
	ReferenceDocID  string          `json:"reference_doc_id"`
	Actor           string          `json:"actor"`
	VendorID        string          `json:"vendor_id,omitempty"`
	ClientID        string          `json:"client_id,omitempty"`
	DepartmentID    string          `json:"department_id,omitempty"`
}

// WarehouseIDs bodegas afectadas por el movimiento (origen primero).
func (m *MovementRecord) WarehouseIDs() []string {
	out := make([]string, 0, 2)
	if m.FromWarehouseID != "" {
		out = append(out, m.FromWarehouseID)
	}
	if m.ToWarehouseID != "" && m.ToWarehouseID != m.FromWarehouseID {
		out = append(out, m.ToWarehouseID)
	}
	return out
}
