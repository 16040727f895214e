// Package inventory expone el ledger de movimientos y los ajustes manuales.
package inventory

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// LedgerUseCase consulta paginada del ledger de un producto.
type LedgerUseCase struct {
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	maxPerPage int
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(products repository.ProductRepository, movements repository.StockMovementRepository, maxPerPage int) *LedgerUseCase {
	return &LedgerUseCase{products: products, movements: movements, maxPerPage: maxPerPage}
}

// Movements devuelve una página del ledger en orden (movement_date, movement_id) y
// el on_hand calculado sobre todos los movimientos del producto.
func (uc *LedgerUseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) (*dto.LedgerResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	page.Normalize(uc.maxPerPage)
	list, err := uc.movements.ListByProduct(ctx, productID, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.movements.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	onHand, err := uc.movements.SumQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := &dto.LedgerResponse{
		ProductID: productID,
		OnHand:    onHand,
		Items:     make([]dto.MovementResponse, 0, len(list)),
		Page:      dto.PageResponse{Page: page.Page, PerPage: page.PerPage, Total: total},
	}
	for _, m := range list {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ChangeQty:    m.ChangeQty,
		UnitPrice:    nullablePrice(m.UnitPrice),
		MovementDate: m.MovementDate,
		SourceRef:    m.SourceRef,
		CreatedBy:    m.CreatedBy,
	}
}
