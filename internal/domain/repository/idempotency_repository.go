package repository

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// IdempotencyRepository registra los tokens de petición ya procesados.
type IdempotencyRepository interface {
	// Find devuelve (nil, nil) si el token no se ha usado.
	Find(ctx context.Context, key string) (*entity.IdempotencyKey, error)
	// Save devuelve domain.ErrConflict si otro proceso registró el token.
	Save(ctx context.Context, k *entity.IdempotencyKey) error
}
