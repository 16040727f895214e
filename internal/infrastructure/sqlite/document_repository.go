package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `doc_id, kind, counterparty_ref, external_ref, doc_date, status, shipping_method,
	shipping_cost, tax_rate, tax_amount, subtotal, total, comments, created_by, completed_at, finalized_by,
	created_at, updated_at`

// DocumentRepo cabeceras y líneas sobre SQLite (db o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

func (r *DocumentRepo) CreateHeader(ctx context.Context, d *entity.Document) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO documents (kind, counterparty_ref, external_ref, doc_date, status, shipping_method,
			shipping_cost, tax_rate, tax_amount, subtotal, total, comments, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Kind, d.CounterpartyRef, nullIfEmpty(d.ExternalRef), formatTime(d.Date), d.Status, nullIfEmpty(d.ShippingMethod),
		d.ShippingCost, d.TaxRate, d.TaxAmount, d.Subtotal, d.Total, nullIfEmpty(d.Comments), nullIfEmpty(d.CreatedBy),
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return 0, wrap("insert document header", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("insert document header", err)
	}
	return id, nil
}

func (r *DocumentRepo) AddItem(ctx context.Context, it *entity.DocumentItem) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO document_items (doc_id, product_id, quantity, unit_price, line_total) VALUES (?, ?, ?, ?, ?)`,
		it.DocID, it.ProductID, it.Quantity, it.UnitPrice, it.LineTotal)
	if err != nil {
		return 0, wrap("insert document item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("insert document item", err)
	}
	return id, nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE kind = ? AND doc_id = ?`, kind, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get document", err)
	}
	return d, nil
}

func (r *DocumentRepo) ListItems(ctx context.Context, docID int64) ([]*entity.DocumentItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT item_id, doc_id, product_id, quantity, unit_price, line_total
		FROM document_items WHERE doc_id = ? ORDER BY item_id`, docID)
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

func (r *DocumentRepo) List(ctx context.Context, kind entity.DocumentKind, f repository.DocumentFilter, limit, offset int) ([]*entity.Document, error) {
	where, args := documentWhere(kind, f)
	args = append(args, limit, offset)
	rows, err := r.q.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents `+where+`
		ORDER BY doc_date DESC, doc_id DESC LIMIT ? OFFSET ?`, args...)
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

func (r *DocumentRepo) Count(ctx context.Context, kind entity.DocumentKind, f repository.DocumentFilter) (int, error) {
	where, args := documentWhere(kind, f)
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&n); err != nil {
		return 0, wrap("count documents", err)
	}
	return n, nil
}

func (r *DocumentRepo) UpdateStatus(ctx context.Context, d *entity.Document) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE documents SET status = ?, completed_at = ?, finalized_by = ?, updated_at = ?
		WHERE kind = ? AND doc_id = ?`,
		d.Status, formatTimePtr(d.CompletedAt), nullIfEmpty(d.FinalizedBy), formatTime(d.UpdatedAt), d.Kind, d.ID)
	if err != nil {
		return wrap("update document status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, kind entity.DocumentKind, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM document_items WHERE doc_id = ?`, id); err != nil {
		return wrap("delete document items", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND doc_id = ?`, kind, id)
	if err != nil {
		return wrap("delete document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func documentWhere(kind entity.DocumentKind, f repository.DocumentFilter) (string, []any) {
	where := `WHERE kind = ?`
	args := []any{kind}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.CounterpartyRef != "" {
		where += ` AND counterparty_ref = ?`
		args = append(args, f.CounterpartyRef)
	}
	if f.From != nil {
		where += ` AND doc_date >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where += ` AND doc_date <= ?`
		args = append(args, formatTime(*f.To))
	}
	return where, args
}

func scanDocument(row scanner) (*entity.Document, error) {
	var d entity.Document
	var externalRef, shippingMethod, comments, createdBy, completedAt, finalizedBy sql.NullString
	var docDate, createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Kind, &d.CounterpartyRef, &externalRef, &docDate, &d.Status, &shippingMethod,
		&d.ShippingCost, &d.TaxRate, &d.TaxAmount, &d.Subtotal, &d.Total, &comments, &createdBy, &completedAt,
		&finalizedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if d.Date, err = parseTime(docDate); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if d.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	d.ExternalRef = externalRef.String
	d.ShippingMethod = shippingMethod.String
	d.Comments = comments.String
	d.CreatedBy = createdBy.String
	d.FinalizedBy = finalizedBy.String
	return &d, nil
}
