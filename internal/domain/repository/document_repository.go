package repository

import (
	"context"
	"time"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// DocumentFilter filtros opcionales para listar documentos.
type DocumentFilter struct {
	Status          string
	CounterpartyRef string
	From            *time.Time
	To              *time.Time
}

// DocumentRepository persistencia de cabeceras y líneas (invoice, order, return).
type DocumentRepository interface {
	CreateHeader(ctx context.Context, doc *entity.Document) (int64, error)
	AddItem(ctx context.Context, item *entity.DocumentItem) (int64, error)
	// GetByID devuelve (nil, nil) si no existe un documento de ese tipo con ese id.
	GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error)
	ListItems(ctx context.Context, docID int64) ([]*entity.DocumentItem, error)
	List(ctx context.Context, kind entity.DocumentKind, f DocumentFilter, limit, offset int) ([]*entity.Document, error)
	Count(ctx context.Context, kind entity.DocumentKind, f DocumentFilter) (int, error)
	// UpdateStatus devuelve domain.ErrNotFound si no hay fila afectada.
	UpdateStatus(ctx context.Context, doc *entity.Document) error
	// Delete borra líneas y cabecera. No toca el ledger.
	Delete(ctx context.Context, kind entity.DocumentKind, id int64) error
}
