package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo tokens de petición ya procesados.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

func (r *IdempotencyRepo) Find(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	var k entity.IdempotencyKey
	err := r.q.QueryRow(ctx, `SELECT key, kind, doc_id, created_at FROM idempotency_keys WHERE key = $1`, key).
		Scan(&k.Key, &k.Kind, &k.DocID, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("find idempotency key", err)
	}
	return &k, nil
}

func (r *IdempotencyRepo) Save(ctx context.Context, k *entity.IdempotencyKey) error {
	_, err := r.q.Exec(ctx, `INSERT INTO idempotency_keys (key, kind, doc_id, created_at) VALUES ($1, $2, $3, $4)`,
		k.Key, k.Kind, k.DocID, k.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return wrap("save idempotency key", err)
	}
	return nil
}
