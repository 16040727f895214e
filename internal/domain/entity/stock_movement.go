package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es un hecho inmutable del ledger de un producto.
// ChangeQty es positivo para entradas (factura de proveedor, devolución, ajuste+)
// y negativo para salidas (pedido, ajuste-). Las correcciones son movimientos nuevos.
type StockMovement struct {
	ID           int64 // asignado por el almacén, creciente
	ProductID    string
	ChangeQty    int64
	UnitPrice    decimal.NullDecimal // puede ser nulo (p. ej. salida por ajuste)
	MovementDate time.Time
	SourceRef    string // "order/42", "adjustment/7", ...
	CreatedBy    string
	CreatedAt    time.Time
}

// Before indica si m precede a o en el orden del ledger (movement_date, movement_id).
func (m *StockMovement) Before(o *StockMovement) bool {
	if !m.MovementDate.Equal(o.MovementDate) {
		return m.MovementDate.Before(o.MovementDate)
	}
	return m.ID < o.ID
}
