package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/sqlite"
)

var docDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

type auditEvent struct {
	name   string
	fields map[string]any
}

type recordingAudit struct {
	events []auditEvent
}

func (a *recordingAudit) Record(event string, fields map[string]any) {
	a.events = append(a.events, auditEvent{name: event, fields: fields})
}

func (a *recordingAudit) last() auditEvent {
	if len(a.events) == 0 {
		return auditEvent{}
	}
	return a.events[len(a.events)-1]
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) ObserveCompose(kind, outcome string, lines int, elapsed time.Duration) {
	m.outcomes = append(m.outcomes, kind+":"+outcome)
}

type fixture struct {
	db       *sqlite.DB
	repos    repository.TxRepos
	tx       *sqlite.TxRunner
	audit    *recordingAudit
	metrics  *recordingMetrics
	composer *documents.Composer
	reader   *documents.Reader
}

// newFixture abre una base en memoria con P1 (stock 10) y P2 (stock 5).
func newFixture(t *testing.T, opts documents.ComposerOptions) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:      db,
		repos:   sqlite.ReposFor(db.SQL()),
		tx:      sqlite.NewTxRunner(db),
		audit:   &recordingAudit{},
		metrics: &recordingMetrics{},
	}
	f.composer = documents.NewComposer(f.tx, f.audit, f.metrics, opts)
	f.reader = documents.NewReader(f.repos.Documents, f.tx, f.audit, 0)

	now := time.Now()
	for id, stock := range map[string]int64{"P1": 10, "P2": 5} {
		require.NoError(t, f.repos.Products.Create(ctx, &entity.Product{
			ID: id, SKU: "SKU-" + id, Name: "Producto " + id, UnitPrice: decimal.NewFromInt(3), CreatedAt: now, UpdatedAt: now,
		}))
		_, err := f.repos.Movements.Append(ctx, &entity.StockMovement{
			ProductID: id, ChangeQty: stock, UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(1)),
			MovementDate: docDate.AddDate(0, 0, -30), SourceRef: "seed", CreatedAt: now,
		})
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.SQL().QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func (f *fixture) onHand(t *testing.T, productID string) int64 {
	t.Helper()
	n, err := f.repos.Movements.SumQuantity(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func item(productID string, qty int64, price string) dto.DocumentItemRequest {
	return dto.DocumentItemRequest{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func request(counterparty string, items ...dto.DocumentItemRequest) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{CounterpartyRef: counterparty, Date: docDate, Items: items}
}
