package documents

import (
	"context"
	"fmt"

	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// PDFUseCase genera la representación impresa de un documento.
type PDFUseCase struct {
	reader    *Reader
	products  repository.ProductRepository
	generator ports.DocumentPDFGenerator
	issuer    string
}

// NewPDFUseCase construye el caso de uso. issuer es el nombre que aparece en la cabecera.
func NewPDFUseCase(reader *Reader, products repository.ProductRepository, generator ports.DocumentPDFGenerator, issuer string) *PDFUseCase {
	return &PDFUseCase{reader: reader, products: products, generator: generator, issuer: issuer}
}

// Download carga cabecera y líneas, resuelve nombres de producto y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el documento no existe.
func (uc *PDFUseCase) Download(ctx context.Context, kind entity.DocumentKind, id int64) ([]byte, string, error) {
	doc, err := uc.reader.Get(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}

	names := make(map[string]string, len(doc.Items))
	skus := make(map[string]string, len(doc.Items))
	for _, it := range doc.Items {
		if _, done := names[it.ProductID]; done {
			continue
		}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
		}
		if p != nil {
			names[it.ProductID] = p.Name
			skus[it.ProductID] = p.SKU
		}
	}

	out, err := uc.generator.Generate(ports.DocumentPDFData{
		Document:     doc,
		ProductNames: names,
		ProductSKUs:  skus,
		IssuerName:   uc.issuer,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, fmt.Sprintf("%s_%d.pdf", kind, id), nil
}
