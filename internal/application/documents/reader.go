package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// Reader consultas y operaciones posteriores sobre documentos ya creados.
type Reader struct {
	docs       repository.DocumentRepository
	tx         repository.TxRunner
	audit      ports.AuditSink
	maxPerPage int
	now        func() time.Time
}

// NewReader construye el caso de uso.
func NewReader(docs repository.DocumentRepository, tx repository.TxRunner, audit ports.AuditSink, maxPerPage int) *Reader {
	if audit == nil {
		audit = ports.NopAudit{}
	}
	return &Reader{docs: docs, tx: tx, audit: audit, maxPerPage: maxPerPage, now: time.Now}
}

// List devuelve cabeceras (sin líneas) ordenadas por fecha descendente.
func (r *Reader) List(ctx context.Context, kind entity.DocumentKind, q dto.DocumentListQuery) (*dto.DocumentListResponse, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("kind", "tipo de documento desconocido")
	}
	if q.Status != "" && !kind.AllowsStatus(q.Status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado %q no válido para %s", q.Status, kind))
	}
	q.Normalize(r.maxPerPage)
	filter := repository.DocumentFilter{Status: q.Status, CounterpartyRef: q.CounterpartyRef, From: q.From, To: q.To}

	list, err := r.docs.List(ctx, kind, filter, q.PerPage, q.Offset())
	if err != nil {
		return nil, err
	}
	total, err := r.docs.Count(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.DocumentListResponse{
		Items: make([]dto.DocumentResponse, 0, len(list)),
		Page:  dto.PageResponse{Page: q.Page, PerPage: q.PerPage, Total: total},
	}
	for _, d := range list {
		out.Items = append(out.Items, ToDocumentResponse(d))
	}
	return out, nil
}

// Get devuelve cabecera y líneas.
func (r *Reader) Get(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	doc, err := r.docs.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.Items, err = r.docs.ListItems(ctx, id); err != nil {
		return nil, err
	}
	if len(doc.Items) == 0 {
		return nil, domain.Consistency("%s sin líneas", doc.SourceRef())
	}
	return doc, nil
}

// Items devuelve solo las líneas de un documento existente.
func (r *Reader) Items(ctx context.Context, kind entity.DocumentKind, id int64) ([]*entity.DocumentItem, error) {
	doc, err := r.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// UpdateStatus cambia el estado validándolo contra los estados del tipo.
// Completar un pedido registra completed_at y quién lo finalizó.
func (r *Reader) UpdateStatus(ctx context.Context, kind entity.DocumentKind, id int64, userID string, req dto.UpdateStatusRequest) (*entity.Document, error) {
	if !kind.AllowsStatus(req.Status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado %q no válido para %s", req.Status, kind))
	}
	doc, err := r.docs.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	previous := doc.Status
	now := r.now().UTC()
	doc.Status = req.Status
	doc.UpdatedAt = now
	if kind == entity.KindOrder && req.Status == entity.StatusOrderComplete && doc.CompletedAt == nil {
		doc.CompletedAt = &now
		doc.FinalizedBy = userID
	}
	if err := r.docs.UpdateStatus(ctx, doc); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"kind":    kind,
		"doc_id":  id,
		"user_id": userID,
		"from":    previous,
		"to":      req.Status,
	}
	if req.Comments != "" {
		fields["comments"] = req.Comments
	}
	if doc.CompletedAt != nil {
		fields["completed_at"] = doc.CompletedAt.Format(time.RFC3339)
	}
	r.audit.Record("document.status_changed", fields)
	return doc, nil
}

// Delete borra cabecera y líneas en una transacción. Los movimientos generados
// por el documento permanecen en el ledger.
func (r *Reader) Delete(ctx context.Context, kind entity.DocumentKind, id int64, userID string) error {
	err := r.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Documents.Delete(ctx, kind, id)
	})
	if err != nil {
		return err
	}
	r.audit.Record("document.deleted", map[string]any{
		"kind":               kind,
		"doc_id":             id,
		"user_id":            userID,
		"movements_retained": true,
	})
	return nil
}

// ToDocumentResponse convierte la entidad en DTO, con líneas si están cargadas.
func ToDocumentResponse(d *entity.Document) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:              d.ID,
		Kind:            string(d.Kind),
		CounterpartyRef: d.CounterpartyRef,
		ExternalRef:     d.ExternalRef,
		Date:            d.Date,
		Status:          d.Status,
		ShippingMethod:  d.ShippingMethod,
		ShippingCost:    d.ShippingCost,
		TaxRate:         d.TaxRate,
		TaxAmount:       d.TaxAmount,
		Subtotal:        d.Subtotal,
		Total:           d.Total,
		Comments:        d.Comments,
		CreatedBy:       d.CreatedBy,
		CompletedAt:     d.CompletedAt,
		FinalizedBy:     d.FinalizedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, ToItemResponse(it))
	}
	return out
}

// ToItemResponse convierte una línea en DTO.
func ToItemResponse(it *entity.DocumentItem) dto.DocumentItemResponse {
	return dto.DocumentItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		LineTotal: it.LineTotal,
	}
}
