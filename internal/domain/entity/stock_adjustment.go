package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment registra una corrección manual de existencias.
// Cada ajuste genera exactamente un StockMovement en la misma transacción.
type StockAdjustment struct {
	ID             int64
	ProductID      string
	ChangeQty      int64
	UnitPrice      decimal.NullDecimal
	Reason         string
	Comments       string
	AdjustmentDate time.Time
	CreatedBy      string
	CreatedAt      time.Time
}

// SourceRef referencia usada en el movimiento generado.
func (a *StockAdjustment) SourceRef() string {
	return fmt.Sprintf("adjustment/%d", a.ID)
}
