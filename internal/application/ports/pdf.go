package ports

import "github.com/Maiar0/inventory-web-backend/internal/domain/entity"

// DocumentPDFData datos ya resueltos para renderizar un documento.
type DocumentPDFData struct {
	Document     *entity.Document
	ProductNames map[string]string // product_id -> nombre
	ProductSKUs  map[string]string
	IssuerName   string
}

// DocumentPDFGenerator puerto de salida para la representación PDF de un documento.
type DocumentPDFGenerator interface {
	Generate(data DocumentPDFData) ([]byte, error)
}
