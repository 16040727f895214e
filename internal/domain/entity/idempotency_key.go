package entity

import "time"

// IdempotencyKey asocia el token de una petición de creación con el documento que produjo.
type IdempotencyKey struct {
	Key       string
	Kind      DocumentKind
	DocID     int64
	CreatedAt time.Time
}
