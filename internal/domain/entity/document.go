package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento comercial con cabecera + líneas.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice" // factura de proveedor: entrada de stock
	KindOrder   DocumentKind = "order"   // pedido de cliente: salida de stock
	KindReturn  DocumentKind = "return"  // devolución de un pedido: reingreso de stock
)

// Estados por tipo de documento.
const (
	StatusInvoiceRecorded = "recorded"

	StatusOrderPending   = "pending"
	StatusOrderShipped   = "shipped"
	StatusOrderComplete  = "complete"
	StatusOrderCancelled = "cancelled"

	StatusReturnReceived  = "received"
	StatusReturnProcessed = "processed"
)

var documentStatuses = map[DocumentKind][]string{
	KindInvoice: {StatusInvoiceRecorded},
	KindOrder:   {StatusOrderPending, StatusOrderShipped, StatusOrderComplete, StatusOrderCancelled},
	KindReturn:  {StatusReturnReceived, StatusReturnProcessed},
}

// ParseDocumentKind convierte un string en DocumentKind.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	k := DocumentKind(s)
	_, ok := documentStatuses[k]
	return k, ok
}

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	_, ok := documentStatuses[k]
	return ok
}

// StockSign signo de change_qty de los movimientos que genera el tipo.
func (k DocumentKind) StockSign() int64 {
	if k == KindOrder {
		return -1
	}
	return 1
}

// InitialStatus estado con el que se crea el documento.
func (k DocumentKind) InitialStatus() string {
	return documentStatuses[k][0]
}

// AllowsStatus indica si status es válido para el tipo.
func (k DocumentKind) AllowsStatus(status string) bool {
	for _, s := range documentStatuses[k] {
		if s == status {
			return true
		}
	}
	return false
}

// Document cabecera de factura, pedido o devolución.
// CounterpartyRef: proveedor (invoice), cliente (order) o id del pedido original (return).
type Document struct {
	ID              int64
	Kind            DocumentKind
	CounterpartyRef string
	ExternalRef     string // número de factura del proveedor
	Date            time.Time
	Status          string
	ShippingMethod  string
	ShippingCost    decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
	Comments        string
	CreatedBy       string
	CompletedAt     *time.Time
	FinalizedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []*DocumentItem
}

// SourceRef referencia que llevan los movimientos generados por el documento.
func (d *Document) SourceRef() string {
	return fmt.Sprintf("%s/%d", d.Kind, d.ID)
}

// Decimales admitidos; coinciden con las columnas NUMERIC del esquema.
const (
	PriceScale = 4 // unit_price de líneas, movimientos y ajustes
	MoneyScale = 2 // importes de cabecera y precio de catálogo
)

// DocumentItem línea de un documento. LineTotal = Quantity * UnitPrice.
type DocumentItem struct {
	ID        int64
	DocID     int64
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// ExpectedLineTotal calcula quantity * unit_price.
func (i *DocumentItem) ExpectedLineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
