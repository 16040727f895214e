package repository

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// StockMovementRepository es el ledger append-only de movimientos.
// Todas las lecturas devuelven orden (movement_date, movement_id) ascendente.
// No existe Update ni Delete: las correcciones son movimientos nuevos.
type StockMovementRepository interface {
	Append(ctx context.Context, m *entity.StockMovement) (int64, error)
	// ListByProduct con limit <= 0 devuelve el ledger completo.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListForProducts(ctx context.Context, productIDs []string) (map[string][]*entity.StockMovement, error)
	SumQuantity(ctx context.Context, productID string) (int64, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
