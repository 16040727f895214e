package repository

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// StockAdjustmentRepository persistencia de ajustes manuales.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.StockAdjustment, error)
	List(ctx context.Context, limit, offset int) ([]*entity.StockAdjustment, error)
	Count(ctx context.Context) (int, error)
}
