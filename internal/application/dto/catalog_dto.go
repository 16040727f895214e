package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogRow producto + existencia derivada del ledger + costo de origen FIFO.
// OldestUnitPrice y OldestMovementDate son null si el producto no tiene movimientos.
type CatalogRow struct {
	ProductID          string           `json:"product_id"`
	SKU                string           `json:"sku"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	ImageURL           string           `json:"image_url,omitempty"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	OnHand             int64            `json:"on_hand"`
	OldestUnitPrice    *decimal.Decimal `json:"oldest_stock_price"`
	OldestMovementDate *time.Time       `json:"oldest_movement_date"`
}

// CatalogPageResponse página del catálogo, ordenada por nombre.
type CatalogPageResponse struct {
	Items []CatalogRow `json:"items"`
	Page  PageResponse `json:"page"`
}
