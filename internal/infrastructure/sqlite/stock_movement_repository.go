package sqlite

import (
	"context"
	"database/sql"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `movement_id, product_id, change_qty, unit_price, movement_date, source_ref, created_by, created_at`

// StockMovementRepo ledger sobre SQLite (db o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, change_qty, unit_price, movement_date, source_ref, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ProductID, m.ChangeQty, m.UnitPrice, formatTime(m.MovementDate), nullIfEmpty(m.SourceRef), nullIfEmpty(m.CreatedBy), formatTime(m.CreatedAt))
	if err != nil {
		return 0, wrap("append stock movement", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("append stock movement", err)
	}
	return id, nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = ?
		ORDER BY movement_date ASC, movement_id ASC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list movements by product", err)
	}
	list, err := collectMovements(rows)
	if err != nil {
		return nil, wrap("list movements by product", err)
	}
	return list, nil
}

func (r *StockMovementRepo) ListForProducts(ctx context.Context, productIDs []string) (map[string][]*entity.StockMovement, error) {
	out := make(map[string][]*entity.StockMovement, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}
	rows, err := r.q.QueryContext(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id IN (`+placeholders(len(productIDs))+`)
		ORDER BY product_id, movement_date ASC, movement_id ASC`, args...)
	if err != nil {
		return nil, wrap("list movements for products", err)
	}
	list, err := collectMovements(rows)
	if err != nil {
		return nil, wrap("list movements for products", err)
	}
	for _, m := range list {
		out[m.ProductID] = append(out[m.ProductID], m)
	}
	return out, nil
}

func (r *StockMovementRepo) SumQuantity(ctx context.Context, productID string) (int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(change_qty), 0) FROM stock_movements WHERE product_id = ?`, productID).Scan(&total); err != nil {
		return 0, wrap("sum stock quantity", err)
	}
	return total, nil
}

func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return 0, wrap("count movements", err)
	}
	return n, nil
}

func collectMovements(rows *sql.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var sourceRef, createdBy sql.NullString
		var movementDate, createdAt string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ChangeQty, &m.UnitPrice, &movementDate, &sourceRef, &createdBy, &createdAt); err != nil {
			return nil, err
		}
		var err error
		if m.MovementDate, err = parseTime(movementDate); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		m.SourceRef = sourceRef.String
		m.CreatedBy = createdBy.String
		list = append(list, &m)
	}
	return list, rows.Err()
}
