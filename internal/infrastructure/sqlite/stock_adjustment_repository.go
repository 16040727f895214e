package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

const adjustmentColumns = `adjustment_id, product_id, change_qty, unit_price, reason, comments, adjustment_date, created_by, created_at`

// StockAdjustmentRepo ajustes manuales sobre SQLite.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador.
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_adjustments (product_id, change_qty, unit_price, reason, comments, adjustment_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ProductID, a.ChangeQty, a.UnitPrice, a.Reason, nullIfEmpty(a.Comments), formatTime(a.AdjustmentDate),
		nullIfEmpty(a.CreatedBy), formatTime(a.CreatedAt))
	if err != nil {
		return 0, wrap("insert stock adjustment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("insert stock adjustment", err)
	}
	return id, nil
}

func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id int64) (*entity.StockAdjustment, error) {
	a, err := scanAdjustment(r.q.QueryRowContext(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE adjustment_id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get stock adjustment", err)
	}
	return a, nil
}

func (r *StockAdjustmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockAdjustment, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments
		ORDER BY adjustment_date DESC, adjustment_id DESC LIMIT ? OFFSET ?`, limit, offset)
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
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_adjustments`).Scan(&n); err != nil {
		return 0, wrap("count stock adjustments", err)
	}
	return n, nil
}

func scanAdjustment(row scanner) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var comments, createdBy sql.NullString
	var adjDate, createdAt string
	if err := row.Scan(&a.ID, &a.ProductID, &a.ChangeQty, &a.UnitPrice, &a.Reason, &comments, &adjDate, &createdBy, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if a.AdjustmentDate, err = parseTime(adjDate); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	a.Comments = comments.String
	a.CreatedBy = createdBy.String
	return &a, nil
}
