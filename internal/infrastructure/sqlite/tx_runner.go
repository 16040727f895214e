package sqlite

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, ReposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// ReposFor construye el juego de repos sobre un Querier (db o tx).
func ReposFor(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Products:    NewProductRepository(q),
		Movements:   NewStockMovementRepository(q),
		Documents:   NewDocumentRepository(q),
		Adjustments: NewStockAdjustmentRepository(q),
		Idempotency: NewIdempotencyRepository(q),
	}
}
