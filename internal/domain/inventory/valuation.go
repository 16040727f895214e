package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// Cost costo de origen FIFO: precio unitario y fecha del movimiento más antiguo.
type Cost struct {
	UnitPrice decimal.NullDecimal
	Date      time.Time
}

// Valuation resultado de plegar el ledger de un producto.
type Valuation struct {
	OnHand     int64
	OldestCost *Cost // nil si no hay movimientos
}

// OnHand suma change_qty de todos los movimientos. Puede ser negativo; no se recorta.
func OnHand(movs []*entity.StockMovement) int64 {
	var total int64
	for _, m := range movs {
		total += m.ChangeQty
	}
	return total
}

// OldestCost devuelve el precio del movimiento con menor movement_date.
// En empate gana el primero de la secuencia de entrada. false si no hay movimientos.
func OldestCost(movs []*entity.StockMovement) (Cost, bool) {
	var oldest *entity.StockMovement
	for _, m := range movs {
		if oldest == nil || m.MovementDate.Before(oldest.MovementDate) {
			oldest = m
		}
	}
	if oldest == nil {
		return Cost{}, false
	}
	return Cost{UnitPrice: oldest.UnitPrice, Date: oldest.MovementDate}, true
}

// Valuate calcula existencia y costo de origen en una sola llamada.
func Valuate(movs []*entity.StockMovement) Valuation {
	v := Valuation{OnHand: OnHand(movs)}
	if c, ok := OldestCost(movs); ok {
		v.OldestCost = &c
	}
	return v
}
