package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo tokens de petición ya procesados.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador.
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

func (r *IdempotencyRepo) Find(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	var k entity.IdempotencyKey
	var createdAt string
	err := r.q.QueryRowContext(ctx, `SELECT key, kind, doc_id, created_at FROM idempotency_keys WHERE key = ?`, key).
		Scan(&k.Key, &k.Kind, &k.DocID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("find idempotency key", err)
	}
	if k.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, wrap("find idempotency key", err)
	}
	return &k, nil
}

func (r *IdempotencyRepo) Save(ctx context.Context, k *entity.IdempotencyKey) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO idempotency_keys (key, kind, doc_id, created_at) VALUES (?, ?, ?, ?)`,
		k.Key, k.Kind, k.DocID, formatTime(k.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return wrap("save idempotency key", err)
	}
	return nil
}
