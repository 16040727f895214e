package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `doc_id, kind, counterparty_ref, external_ref, doc_date, status, shipping_method,
	shipping_cost, tax_rate, tax_amount, subtotal, total, comments, created_by, completed_at, finalized_by,
	created_at, updated_at`

// DocumentRepo cabeceras y líneas de invoice/order/return sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// CreateHeader inserta la cabecera y devuelve doc_id.
func (r *DocumentRepo) CreateHeader(ctx context.Context, d *entity.Document) (int64, error) {
	query := `
		INSERT INTO documents (kind, counterparty_ref, external_ref, doc_date, status, shipping_method,
			shipping_cost, tax_rate, tax_amount, subtotal, total, comments, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING doc_id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		d.Kind, d.CounterpartyRef, nullIfEmpty(d.ExternalRef), d.Date, d.Status, nullIfEmpty(d.ShippingMethod),
		d.ShippingCost, d.TaxRate, d.TaxAmount, d.Subtotal, d.Total, nullIfEmpty(d.Comments), nullIfEmpty(d.CreatedBy),
		d.CreatedAt, d.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrap("insert document header", err)
	}
	return id, nil
}

// AddItem inserta una línea ligada a su cabecera.
func (r *DocumentRepo) AddItem(ctx context.Context, it *entity.DocumentItem) (int64, error) {
	query := `
		INSERT INTO document_items (doc_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING item_id`
	var id int64
	if err := r.q.QueryRow(ctx, query, it.DocID, it.ProductID, it.Quantity, it.UnitPrice, it.LineTotal).Scan(&id); err != nil {
		return 0, wrap("insert document item", err)
	}
	return id, nil
}

// GetByID obtiene la cabecera (sin líneas).
func (r *DocumentRepo) GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	row := r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE kind = $1 AND doc_id = $2`, kind, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get document", err)
	}
	return d, nil
}

// ListItems líneas de un documento en orden de inserción.
func (r *DocumentRepo) ListItems(ctx context.Context, docID int64) ([]*entity.DocumentItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, doc_id, product_id, quantity, unit_price, line_total
		FROM document_items WHERE doc_id = $1 ORDER BY item_id`, docID)
	if err != nil {
		return nil, wrap("list document items", err)
	}
	defer rows.Close()
	var list []*entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, wrap("scan document item", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list document items", err)
	}
	return list, nil
}

// List cabeceras filtradas, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, kind entity.DocumentKind, f repository.DocumentFilter, limit, offset int) ([]*entity.Document, error) {
	where, args := documentWhere(kind, f)
	pos := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM documents %s ORDER BY doc_date DESC, doc_id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list documents", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, wrap("scan document", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list documents", err)
	}
	return list, nil
}

// Count total con los mismos filtros que List.
func (r *DocumentRepo) Count(ctx context.Context, kind entity.DocumentKind, f repository.DocumentFilter) (int, error) {
	where, args := documentWhere(kind, f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&n); err != nil {
		return 0, wrap("count documents", err)
	}
	return n, nil
}

// UpdateStatus actualiza estado y datos de cierre.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, d *entity.Document) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE documents SET status = $3, completed_at = $4, finalized_by = $5, updated_at = $6
		WHERE kind = $1 AND doc_id = $2`,
		d.Kind, d.ID, d.Status, d.CompletedAt, nullIfEmpty(d.FinalizedBy), d.UpdatedAt)
	if err != nil {
		return wrap("update document status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra líneas y cabecera.
func (r *DocumentRepo) Delete(ctx context.Context, kind entity.DocumentKind, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM document_items WHERE doc_id = $1`, id); err != nil {
		return wrap("delete document items", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE kind = $1 AND doc_id = $2`, kind, id)
	if err != nil {
		return wrap("delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func documentWhere(kind entity.DocumentKind, f repository.DocumentFilter) (string, []any) {
	where := `WHERE kind = $1`
	args := []any{kind}
	pos := 2
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.CounterpartyRef != "" {
		where += fmt.Sprintf(" AND counterparty_ref = $%d", pos)
		args = append(args, f.CounterpartyRef)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND doc_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND doc_date <= $%d", pos)
		args = append(args, *f.To)
	}
	return where, args
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var externalRef, shippingMethod, comments, createdBy, finalizedBy *string
	err := row.Scan(&d.ID, &d.Kind, &d.CounterpartyRef, &externalRef, &d.Date, &d.Status, &shippingMethod,
		&d.ShippingCost, &d.TaxRate, &d.TaxAmount, &d.Subtotal, &d.Total, &comments, &createdBy, &d.CompletedAt,
		&finalizedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.ExternalRef = deref(externalRef)
	d.ShippingMethod = deref(shippingMethod)
	d.Comments = deref(comments)
	d.CreatedBy = deref(createdBy)
	d.FinalizedBy = deref(finalizedBy)
	return &d, nil
}
