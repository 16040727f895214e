package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea de entrada. line_total es opcional; si viene debe ser quantity*unit_price.
type DocumentItemRequest struct {
	ProductID string              `json:"product_id" validate:"required"`
	Quantity  int64               `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal     `json:"unit_price" validate:"gte=0"`
	LineTotal decimal.NullDecimal `json:"line_total"`
}

// CreateDocumentRequest cuerpo común de invoice / order / return.
// counterparty_ref: proveedor, cliente o id del pedido según el tipo.
type CreateDocumentRequest struct {
	CounterpartyRef string                `json:"counterparty_ref" validate:"required,max=100"`
	ExternalRef     string                `json:"external_ref" validate:"max=100"`
	Date            time.Time             `json:"date" validate:"required,daterange"`
	ShippingMethod  string                `json:"shipping_method" validate:"max=100"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost" validate:"gte=0"`
	TaxRate         decimal.Decimal       `json:"tax_rate" validate:"gte=0,lte=1"`
	TaxAmount       decimal.NullDecimal   `json:"tax_amount" validate:"omitempty,gte=0"`
	Comments        string                `json:"comments" validate:"max=1000"`
	Items           []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DocumentItemResponse línea persistida.
type DocumentItemResponse struct {
	ID        int64           `json:"item_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// DocumentResponse cabecera + líneas.
type DocumentResponse struct {
	ID              int64                  `json:"doc_id"`
	Kind            string                 `json:"kind"`
	CounterpartyRef string                 `json:"counterparty_ref"`
	ExternalRef     string                 `json:"external_ref,omitempty"`
	Date            time.Time              `json:"date"`
	Status          string                 `json:"status"`
	ShippingMethod  string                 `json:"shipping_method,omitempty"`
	ShippingCost    decimal.Decimal        `json:"shipping_cost"`
	TaxRate         decimal.Decimal        `json:"tax_rate"`
	TaxAmount       decimal.Decimal        `json:"tax_amount"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Total           decimal.Decimal        `json:"total"`
	Comments        string                 `json:"comments,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	FinalizedBy     string                 `json:"finalized_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Items           []DocumentItemResponse `json:"items,omitempty"`
}

// DocumentListQuery filtros de listado.
type DocumentListQuery struct {
	PageRequest
	Status          string     `query:"status"`
	CounterpartyRef string     `query:"counterparty_ref"`
	From            *time.Time `query:"-"`
	To              *time.Time `query:"-"`
}

// DocumentListResponse listado paginado (sin líneas).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// UpdateStatusRequest cambio de estado; comments queda en la auditoría.
type UpdateStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Comments string `json:"comments" validate:"max=1000"`
}
