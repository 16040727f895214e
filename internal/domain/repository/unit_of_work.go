package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products    ProductRepository
	Movements   StockMovementRepository
	Documents   DocumentRepository
	Adjustments StockAdjustmentRepository
	Idempotency IdempotencyRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// El ctx que recibe fn es el de la transacción; si se cancela, no queda ninguna fila escrita.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
