package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest ajuste manual. unit_price es obligatorio en entradas (change_qty > 0).
type CreateAdjustmentRequest struct {
	ProductID      string              `json:"product_id" validate:"required"`
	ChangeQty      int64               `json:"change_qty" validate:"ne=0"`
	UnitPrice      decimal.NullDecimal `json:"unit_price" validate:"omitempty,gte=0"`
	Reason         string              `json:"reason" validate:"required,max=200"`
	Comments       string              `json:"comments" validate:"max=1000"`
	AdjustmentDate *time.Time          `json:"adjustment_date" validate:"omitempty,daterange"`
}

// AdjustmentResponse ajuste persistido con el id del movimiento generado.
type AdjustmentResponse struct {
	ID             int64            `json:"adjustment_id"`
	ProductID      string           `json:"product_id"`
	ChangeQty      int64            `json:"change_qty"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	Reason         string           `json:"reason"`
	Comments       string           `json:"comments,omitempty"`
	AdjustmentDate time.Time        `json:"adjustment_date"`
	CreatedBy      string           `json:"created_by,omitempty"`
	MovementID     int64            `json:"movement_id,omitempty"`
}

// AdjustmentListResponse listado paginado de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID           int64            `json:"movement_id"`
	ProductID    string           `json:"product_id"`
	ChangeQty    int64            `json:"change_qty"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	MovementDate time.Time        `json:"movement_date"`
	SourceRef    string           `json:"source_ref,omitempty"`
	CreatedBy    string           `json:"created_by,omitempty"`
}

// LedgerResponse página del ledger de un producto más su valoración completa.
type LedgerResponse struct {
	ProductID string             `json:"product_id"`
	OnHand    int64              `json:"on_hand"`
	Items     []MovementResponse `json:"items"`
	Page      PageResponse       `json:"page"`
}
