package documents_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

func allowNegative() documents.ComposerOptions {
	return documents.ComposerOptions{AllowNegativeStock: true}
}

// Escenario B: un pedido descuenta stock con el precio de la línea.
func TestCompose_PedidoDescuentaStock(t *testing.T) {
	f := newFixture(t, allowNegative())
	before := f.onHand(t, "P1")

	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{
		Kind: entity.KindOrder, UserID: "u1", Request: request("CLI-1", item("P1", 3, "2.50")),
	})
	require.NoError(t, err)
	require.Len(t, res.Movements, 1)

	m := res.Movements[0]
	assert.Equal(t, int64(-3), m.ChangeQty)
	require.True(t, m.UnitPrice.Valid)
	assert.True(t, m.UnitPrice.Decimal.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, "order/"+strconv.FormatInt(res.Document.ID, 10), m.SourceRef)
	assert.True(t, m.MovementDate.Equal(docDate))
	assert.Equal(t, before-3, f.onHand(t, "P1"))

	assert.Equal(t, entity.StatusOrderPending, res.Document.Status)
	assert.False(t, res.Replayed)
	assert.Equal(t, []string{"order:created"}, f.metrics.outcomes)
	assert.Equal(t, "document.created", f.audit.last().name)
}

// Cada línea cumple line_total = quantity * unit_price y los totales de factura incluyen impuesto y envío.
func TestCompose_TotalesDeFactura(t *testing.T) {
	f := newFixture(t, allowNegative())
	req := request("PROV-9", item("P1", 4, "5.00"), item("P2", 3, "1.25"))
	req.TaxRate = decimal.RequireFromString("0.19")
	req.ShippingCost = decimal.NewFromInt(5)
	req.ExternalRef = "F-2024-001"

	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{Kind: entity.KindInvoice, UserID: "admin", Request: req})
	require.NoError(t, err)

	doc := res.Document
	for _, it := range doc.Items {
		assert.True(t, it.LineTotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))))
		assert.NotZero(t, it.ID)
	}
	assert.Equal(t, "23.75", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "4.51", doc.TaxAmount.StringFixed(2))
	assert.Equal(t, "33.26", doc.Total.StringFixed(2))
	assert.Equal(t, int64(14), f.onHand(t, "P1"))
	assert.Equal(t, int64(8), f.onHand(t, "P2"))

	stored, err := f.reader.Get(context.Background(), entity.KindInvoice, doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "20.00", stored.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "33.26", stored.Total.StringFixed(2))
	assert.Equal(t, "F-2024-001", stored.ExternalRef)
}

func TestCompose_ImpuestoExplicito(t *testing.T) {
	f := newFixture(t, allowNegative())
	req := request("PROV-9", item("P1", 2, "10"))
	req.TaxAmount = decimal.NewNullDecimal(decimal.NewFromInt(1))

	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{Kind: entity.KindInvoice, Request: req})
	require.NoError(t, err)
	assert.Equal(t, "21.00", res.Document.Total.StringFixed(2))
}

func TestCompose_PedidoIgnoraImpuestoYEnvio(t *testing.T) {
	f := newFixture(t, allowNegative())
	req := request("CLI-1", item("P1", 2, "10"))
	req.TaxRate = decimal.RequireFromString("0.5")
	req.ShippingCost = decimal.NewFromInt(7)

	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{Kind: entity.KindOrder, Request: req})
	require.NoError(t, err)
	assert.Equal(t, "20.00", res.Document.Total.StringFixed(2))
	assert.True(t, res.Document.TaxAmount.IsZero())
}

// Escenario C: la segunda línea referencia un producto inexistente.
func TestCompose_ProductoInexistenteNoDejaFilas(t *testing.T) {
	f := newFixture(t, allowNegative())
	movementsBefore := f.count(t, "stock_movements")

	_, err := f.composer.Compose(context.Background(), documents.ComposeInput{
		Kind: entity.KindOrder, Request: request("CLI-1", item("P1", 1, "2"), item("NO-EXISTE", 1, "2")),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "items[1].product_id", verr.Fields[0].Field)

	assert.Zero(t, f.count(t, "documents"))
	assert.Zero(t, f.count(t, "document_items"))
	assert.Equal(t, movementsBefore, f.count(t, "stock_movements"))
	assert.Equal(t, []string{"order:invalid"}, f.metrics.outcomes)
	assert.Equal(t, "document.compose_failed", f.audit.last().name)
}

// Un fallo del almacén en el segundo movimiento deshace cabecera, líneas y el primer movimiento.
func TestCompose_FalloDelAlmacenEsAtomico(t *testing.T) {
	f := newFixture(t, allowNegative())
	_, err := f.db.SQL().Exec(`
		CREATE TRIGGER fallo_p2 BEFORE INSERT ON stock_movements
		WHEN NEW.product_id = 'P2'
		BEGIN SELECT RAISE(ABORT, 'fallo simulado'); END`)
	require.NoError(t, err)
	movementsBefore := f.count(t, "stock_movements")

	_, err = f.composer.Compose(context.Background(), documents.ComposeInput{
		Kind: entity.KindInvoice, Request: request("PROV-1", item("P1", 2, "1"), item("P2", 2, "1")),
	})
	require.ErrorIs(t, err, domain.ErrPersistence)

	assert.Zero(t, f.count(t, "documents"))
	assert.Zero(t, f.count(t, "document_items"))
	assert.Equal(t, movementsBefore, f.count(t, "stock_movements"))
	assert.Equal(t, int64(10), f.onHand(t, "P1"))
	assert.Equal(t, []string{"invoice:error"}, f.metrics.outcomes)
}

func TestCompose_ContextoCanceladoNoDejaFilas(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindOrder, Request: request("CLI-1", item("P1", 1, "1"))})
	require.Error(t, err)
	assert.Zero(t, f.count(t, "documents"))
}

func TestCompose_Validacion(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()

	cases := []struct {
		name  string
		kind  entity.DocumentKind
		req   func() dto.CreateDocumentRequest
		field string
	}{
		{"sin lineas", entity.KindOrder, func() dto.CreateDocumentRequest { return request("CLI-1") }, "items"},
		{"sin contraparte", entity.KindOrder, func() dto.CreateDocumentRequest { return request("", item("P1", 1, "1")) }, "counterparty_ref"},
		{"cantidad cero", entity.KindOrder, func() dto.CreateDocumentRequest { return request("CLI-1", item("P1", 0, "1")) }, "items[0].quantity"},
		{"precio negativo", entity.KindInvoice, func() dto.CreateDocumentRequest { return request("PROV-1", item("P1", 1, "-1")) }, "items[0].unit_price"},
		{"sin fecha", entity.KindOrder, func() dto.CreateDocumentRequest {
			r := request("CLI-1", item("P1", 1, "1"))
			r.Date = time.Time{}
			return r
		}, "date"},
		{"line_total incorrecto", entity.KindOrder, func() dto.CreateDocumentRequest {
			r := request("CLI-1", item("P1", 2, "1.50"))
			r.Items[0].LineTotal = decimal.NewNullDecimal(decimal.NewFromInt(4))
			return r
		}, "items[0].line_total"},
		{"precio con 5 decimales", entity.KindOrder, func() dto.CreateDocumentRequest { return request("CLI-1", item("P1", 3, "1.23456")) }, "items[0].unit_price"},
		{"envio con 3 decimales", entity.KindInvoice, func() dto.CreateDocumentRequest {
			r := request("PROV-1", item("P1", 1, "1"))
			r.ShippingCost = decimal.RequireFromString("1.005")
			return r
		}, "shipping_cost"},
		{"impuesto con 3 decimales", entity.KindInvoice, func() dto.CreateDocumentRequest {
			r := request("PROV-1", item("P1", 1, "1"))
			r.TaxAmount = decimal.NewNullDecimal(decimal.RequireFromString("0.125"))
			return r
		}, "tax_amount"},
		{"fecha posterior al año 9999", entity.KindOrder, func() dto.CreateDocumentRequest {
			r := request("CLI-1", item("P1", 1, "1"))
			r.Date = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
			return r
		}, "date"},
		{"fecha con año negativo", entity.KindOrder, func() dto.CreateDocumentRequest {
			r := request("CLI-1", item("P1", 1, "1"))
			r.Date = time.Date(-1, 1, 1, 0, 0, 0, 0, time.UTC)
			return r
		}, "date"},
		{"tipo desconocido", entity.DocumentKind("quote"), func() dto.CreateDocumentRequest { return request("CLI-1", item("P1", 1, "1")) }, "kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: tc.kind, Request: tc.req()})
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "err = %v", err)
			fields := make([]string, 0, len(verr.Fields))
			for _, fe := range verr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tc.field)
		})
	}
	assert.Zero(t, f.count(t, "documents"))
}

func TestCompose_LineTotalCorrectoSeAcepta(t *testing.T) {
	f := newFixture(t, allowNegative())
	req := request("CLI-1", item("P1", 2, "1.50"))
	req.Items[0].LineTotal = decimal.NewNullDecimal(decimal.RequireFromString("3.0"))

	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{Kind: entity.KindOrder, Request: req})
	require.NoError(t, err)
	assert.Equal(t, "3.00", res.Document.Items[0].LineTotal.StringFixed(2))
}

// Lo que se relee de la base cumple line_total = quantity * unit_price y subtotal = suma de líneas.
func TestCompose_RelecturaConservaTotales(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	req := request("PROV-1", item("P1", 3, "1.2345"), item("P2", 7, "0.0001"))
	req.ShippingCost = decimal.RequireFromString("2.50")
	res, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindInvoice, Request: req})
	require.NoError(t, err)

	stored, err := f.reader.Get(ctx, entity.KindInvoice, res.Document.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	sum := decimal.Zero
	for _, it := range stored.Items {
		assert.True(t, it.LineTotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))), "línea %d", it.ID)
		sum = sum.Add(it.LineTotal)
	}
	assert.Equal(t, "3.7042", stored.Subtotal.StringFixed(4))
	assert.True(t, stored.Subtotal.Equal(sum))
	assert.True(t, stored.Subtotal.Equal(res.Document.Subtotal))
	assert.True(t, stored.Total.Equal(res.Document.Total))
}

// staleKeys simula una lectura previa al commit de otra petición con el mismo token.
type staleKeys struct {
	repository.IdempotencyRepository
}

func (staleKeys) Find(context.Context, string) (*entity.IdempotencyKey, error) { return nil, nil }

type racingTx struct {
	inner repository.TxRunner
	calls int
}

func (r *racingTx) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	r.calls++
	first := r.calls == 1
	return r.inner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if first {
			repos.Idempotency = staleKeys{repos.Idempotency}
		}
		return fn(ctx, repos)
	})
}

func TestCompose_TokenGanadoPorOtraPeticionDevuelveElDocumento(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	in := documents.ComposeInput{
		Kind: entity.KindOrder, UserID: "u1", IdempotencyKey: "req-carrera",
		Request: request("CLI-1", item("P1", 2, "3")),
	}
	winner, err := f.composer.Compose(ctx, in)
	require.NoError(t, err)
	movements := f.count(t, "stock_movements")

	tx := &racingTx{inner: f.tx}
	loser := documents.NewComposer(tx, f.audit, f.metrics, allowNegative())
	res, err := loser.Compose(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, tx.calls)
	assert.True(t, res.Replayed)
	assert.Equal(t, winner.Document.ID, res.Document.ID)

	assert.Equal(t, 1, f.count(t, "documents"))
	assert.Equal(t, 1, f.count(t, "document_items"))
	assert.Equal(t, movements, f.count(t, "stock_movements"))

	in.Kind = entity.KindInvoice
	_, err = documents.NewComposer(&racingTx{inner: f.tx}, f.audit, f.metrics, allowNegative()).Compose(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCompose_ReintentoIdempotente(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	in := documents.ComposeInput{
		Kind: entity.KindOrder, UserID: "u1", IdempotencyKey: "req-123",
		Request: request("CLI-1", item("P1", 2, "3"), item("P2", 1, "4")),
	}

	first, err := f.composer.Compose(ctx, in)
	require.NoError(t, err)
	movements := f.count(t, "stock_movements")

	second, err := f.composer.Compose(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Document.ID, second.Document.ID)
	assert.Len(t, second.Document.Items, 2)
	assert.Empty(t, second.Movements)

	assert.Equal(t, 1, f.count(t, "documents"))
	assert.Equal(t, movements, f.count(t, "stock_movements"))
	assert.Equal(t, int64(8), f.onHand(t, "P1"))
	assert.Equal(t, []string{"order:created", "order:replayed"}, f.metrics.outcomes)

	in.Kind = entity.KindInvoice
	_, err = f.composer.Compose(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCompose_DevolucionRequierePedido(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()

	for _, ref := range []string{"abc", "999"} {
		_, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindReturn, Request: request(ref, item("P1", 1, "2"))})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "ref %s: %v", ref, err)
		assert.Equal(t, "counterparty_ref", verr.Fields[0].Field)
	}

	order, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindOrder, Request: request("CLI-1", item("P1", 4, "2"))})
	require.NoError(t, err)
	assert.Equal(t, int64(6), f.onHand(t, "P1"))

	ret, err := f.composer.Compose(ctx, documents.ComposeInput{
		Kind: entity.KindReturn, Request: request(strconv.FormatInt(order.Document.ID, 10), item("P1", 1, "2")),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReturnReceived, ret.Document.Status)
	assert.Equal(t, int64(1), ret.Movements[0].ChangeQty)
	assert.Equal(t, int64(7), f.onHand(t, "P1"))
}

func TestCompose_StockInsuficiente(t *testing.T) {
	f := newFixture(t, documents.ComposerOptions{AllowNegativeStock: false})
	ctx := context.Background()

	// dos líneas del mismo producto suman más que el stock (10)
	_, err := f.composer.Compose(ctx, documents.ComposeInput{
		Kind: entity.KindOrder, Request: request("CLI-1", item("P1", 6, "1"), item("P1", 5, "1")),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, f.count(t, "documents"))

	_, err = f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindOrder, Request: request("CLI-1", item("P1", 10, "1"))})
	require.NoError(t, err)
	assert.Zero(t, f.onHand(t, "P1"))

	// las entradas no se limitan
	_, err = f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindInvoice, Request: request("PROV-1", item("P1", 1, "1"))})
	require.NoError(t, err)
}

func TestCompose_LedgerNegativoEsInconsistencia(t *testing.T) {
	f := newFixture(t, documents.ComposerOptions{AllowNegativeStock: false})
	ctx := context.Background()
	_, err := f.repos.Movements.Append(ctx, &entity.StockMovement{
		ProductID: "P2", ChangeQty: -8, MovementDate: docDate, CreatedAt: docDate,
	})
	require.NoError(t, err)

	_, err = f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindOrder, Request: request("CLI-1", item("P2", 1, "1"))})
	assert.ErrorIs(t, err, domain.ErrConsistency)
}
