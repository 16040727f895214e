package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/inventory"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// DefaultMaxPerPage tope de per_page si no se configura otro.
const DefaultMaxPerPage = 500

// CatalogUseCase combina el maestro de productos con la valoración del ledger.
// Los productos sin movimientos se incluyen con on_hand=0 y costo nulo, tanto en GetPage como en GetOne.
type CatalogUseCase struct {
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	maxPerPage int
}

// NewCatalogUseCase construye el caso de uso. maxPerPage <= 0 usa DefaultMaxPerPage.
func NewCatalogUseCase(products repository.ProductRepository, movements repository.StockMovementRepository, maxPerPage int) *CatalogUseCase {
	if maxPerPage <= 0 {
		maxPerPage = DefaultMaxPerPage
	}
	return &CatalogUseCase{products: products, movements: movements, maxPerPage: maxPerPage}
}

// GetPage devuelve la página en orden de nombre (desempate por product_id).
func (uc *CatalogUseCase) GetPage(ctx context.Context, page dto.PageRequest) (*dto.CatalogPageResponse, error) {
	page.Normalize(uc.maxPerPage)

	products, err := uc.products.ListPage(ctx, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	ledgers, err := uc.movements.ListForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.CatalogRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, toCatalogRow(p, ledgers[p.ID]))
	}
	return &dto.CatalogPageResponse{
		Items: rows,
		Page:  dto.PageResponse{Page: page.Page, PerPage: page.PerPage, Total: total},
	}, nil
}

// GetOne devuelve la fila de un producto. domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) GetOne(ctx context.Context, productID string) (*dto.CatalogRow, error) {
	var (
		product *entity.Product
		movs    []*entity.StockMovement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = uc.products.GetByID(gctx, productID)
		return err
	})
	g.Go(func() error {
		var err error
		movs, err = uc.movements.ListByProduct(gctx, productID, 0, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	row := toCatalogRow(product, movs)
	return &row, nil
}

func toCatalogRow(p *entity.Product, movs []*entity.StockMovement) dto.CatalogRow {
	v := inventory.Valuate(movs)
	row := dto.CatalogRow{
		ProductID:   p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		UnitPrice:   p.UnitPrice,
		OnHand:      v.OnHand,
	}
	if v.OldestCost != nil {
		date := v.OldestCost.Date
		row.OldestMovementDate = &date
		if v.OldestCost.UnitPrice.Valid {
			price := v.OldestCost.UnitPrice.Decimal
			row.OldestUnitPrice = &price
		}
	}
	return row
}
