package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// La existencia no se guarda aquí: se deriva del ledger de StockMovement.
type Product struct {
	ID          string
	SKU         string // único
	Name        string
	Description string
	ImageURL    string
	UnitPrice   decimal.Decimal // precio de lista; no participa en la valoración
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
