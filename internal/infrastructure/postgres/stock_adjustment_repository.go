package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

const adjustmentColumns = `adjustment_id, product_id, change_qty, unit_price, reason, comments, adjustment_date, created_by, created_at`

// StockAdjustmentRepo ajustes manuales sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_adjustments (product_id, change_qty, unit_price, reason, comments, adjustment_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING adjustment_id`,
		a.ProductID, a.ChangeQty, a.UnitPrice, a.Reason, nullIfEmpty(a.Comments), a.AdjustmentDate, nullIfEmpty(a.CreatedBy), a.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrap("insert stock adjustment", err)
	}
	return id, nil
}

func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id int64) (*entity.StockAdjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE adjustment_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get stock adjustment", err)
	}
	return a, nil
}

func (r *StockAdjustmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockAdjustment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments
		ORDER BY adjustment_date DESC, adjustment_id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrap("list stock adjustments", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, wrap("scan stock adjustment", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list stock adjustments", err)
	}
	return list, nil
}

func (r *StockAdjustmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_adjustments`).Scan(&n); err != nil {
		return 0, wrap("count stock adjustments", err)
	}
	return n, nil
}

func scanAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var comments, createdBy *string
	if err := row.Scan(&a.ID, &a.ProductID, &a.ChangeQty, &a.UnitPrice, &a.Reason, &comments, &a.AdjustmentDate, &createdBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Comments = deref(comments)
	a.CreatedBy = deref(createdBy)
	return &a, nil
}
