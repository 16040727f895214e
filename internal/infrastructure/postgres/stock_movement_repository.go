package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `movement_id, product_id, change_qty, unit_price, movement_date, source_ref, created_by, created_at`

// StockMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta un movimiento y devuelve su movement_id.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) (int64, error) {
	query := `
		INSERT INTO stock_movements (product_id, change_qty, unit_price, movement_date, source_ref, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING movement_id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.ChangeQty, m.UnitPrice, m.MovementDate, nullIfEmpty(m.SourceRef), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrap("append stock movement", err)
	}
	return id, nil
}

// ListByProduct devuelve el ledger de un producto en orden (movement_date, movement_id).
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1
		ORDER BY movement_date ASC, movement_id ASC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list movements by product", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrap("scan movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list movements by product", err)
	}
	return list, nil
}

// ListForProducts carga en una sola consulta los ledgers de varios productos.
func (r *StockMovementRepo) ListForProducts(ctx context.Context, productIDs []string) (map[string][]*entity.StockMovement, error) {
	out := make(map[string][]*entity.StockMovement, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = ANY($1)
		ORDER BY product_id, movement_date ASC, movement_id ASC`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, wrap("list movements for products", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrap("scan movement", err)
		}
		out[m.ProductID] = append(out[m.ProductID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list movements for products", err)
	}
	return out, nil
}

// SumQuantity existencia de un producto calculada en la base.
func (r *StockMovementRepo) SumQuantity(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(change_qty), 0)::BIGINT FROM stock_movements WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return 0, wrap("sum stock quantity", err)
	}
	return total, nil
}

// CountByProduct número de movimientos de un producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, wrap("count movements", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var sourceRef, createdBy *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.ChangeQty, &m.UnitPrice, &m.MovementDate, &sourceRef, &createdBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.SourceRef = deref(sourceRef)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}
