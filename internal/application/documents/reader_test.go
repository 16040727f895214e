package documents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

func createOrder(t *testing.T, f *fixture, customer string, qty int64) *entity.Document {
	t.Helper()
	res, err := f.composer.Compose(context.Background(), documents.ComposeInput{
		Kind: entity.KindOrder, UserID: "u1", Request: request(customer, item("P1", qty, "2")),
	})
	require.NoError(t, err)
	return res.Document
}

func TestReader_ListFiltraYPagina(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		createOrder(t, f, "CLI-A", 1)
	}
	createOrder(t, f, "CLI-B", 1)
	_, err := f.composer.Compose(ctx, documents.ComposeInput{Kind: entity.KindInvoice, Request: request("PROV-1", item("P2", 1, "1"))})
	require.NoError(t, err)

	page, err := f.reader.List(ctx, entity.KindOrder, dto.DocumentListQuery{PageRequest: dto.PageRequest{Page: 1, PerPage: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Page.Total)
	assert.Len(t, page.Items, 2)
	for _, d := range page.Items {
		assert.Equal(t, "order", d.Kind)
		assert.Empty(t, d.Items)
	}

	byCustomer, err := f.reader.List(ctx, entity.KindOrder, dto.DocumentListQuery{CounterpartyRef: "CLI-A"})
	require.NoError(t, err)
	assert.Equal(t, 3, byCustomer.Page.Total)

	_, err = f.reader.List(ctx, entity.KindOrder, dto.DocumentListQuery{Status: "recorded"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReader_GetNoExiste(t *testing.T) {
	f := newFixture(t, allowNegative())
	order := createOrder(t, f, "CLI-A", 1)

	_, err := f.reader.Get(context.Background(), entity.KindOrder, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// mismo id pero otro tipo
	_, err = f.reader.Items(context.Background(), entity.KindInvoice, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := f.reader.Items(context.Background(), entity.KindOrder, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestReader_CompletarPedido(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	order := createOrder(t, f, "CLI-A", 2)

	_, err := f.reader.UpdateStatus(ctx, entity.KindOrder, order.ID, "admin", dto.UpdateStatusRequest{Status: "received"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := f.reader.UpdateStatus(ctx, entity.KindOrder, order.ID, "admin", dto.UpdateStatusRequest{
		Status: entity.StatusOrderComplete, Comments: "entregado en mano",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOrderComplete, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, "admin", updated.FinalizedBy)

	stored, err := f.reader.Get(ctx, entity.KindOrder, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOrderComplete, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	ev := f.audit.last()
	assert.Equal(t, "document.status_changed", ev.name)
	assert.Equal(t, "entregado en mano", ev.fields["comments"])
	assert.Equal(t, entity.StatusOrderPending, ev.fields["from"])

	_, err = f.reader.UpdateStatus(ctx, entity.KindOrder, 999, "admin", dto.UpdateStatusRequest{Status: entity.StatusOrderShipped})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReader_DeleteConservaMovimientos(t *testing.T) {
	f := newFixture(t, allowNegative())
	ctx := context.Background()
	order := createOrder(t, f, "CLI-A", 4)
	movements := f.count(t, "stock_movements")

	require.NoError(t, f.reader.Delete(ctx, entity.KindOrder, order.ID, "admin"))

	assert.Zero(t, f.count(t, "documents"))
	assert.Zero(t, f.count(t, "document_items"))
	assert.Equal(t, movements, f.count(t, "stock_movements"))
	assert.Equal(t, int64(6), f.onHand(t, "P1"))

	ev := f.audit.last()
	assert.Equal(t, "document.deleted", ev.name)
	assert.Equal(t, true, ev.fields["movements_retained"])

	assert.ErrorIs(t, f.reader.Delete(ctx, entity.KindOrder, order.ID, "admin"), domain.ErrNotFound)
}

type fakePDF struct {
	got ports.DocumentPDFData
}

func (g *fakePDF) Generate(data ports.DocumentPDFData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestPDFUseCase_ResuelveProductos(t *testing.T) {
	f := newFixture(t, allowNegative())
	order := createOrder(t, f, "CLI-A", 1)
	gen := &fakePDF{}
	uc := documents.NewPDFUseCase(f.reader, f.repos.Products, gen, "Ferretería")

	out, name, err := uc.Download(context.Background(), entity.KindOrder, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Equal(t, "order_1.pdf", name)
	assert.Equal(t, "Producto P1", gen.got.ProductNames["P1"])
	assert.Equal(t, "SKU-P1", gen.got.ProductSKUs["P1"])
	assert.Equal(t, "Ferretería", gen.got.IssuerName)

	_, _, err = uc.Download(context.Background(), entity.KindInvoice, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToDocumentResponse(t *testing.T) {
	f := newFixture(t, allowNegative())
	order := createOrder(t, f, "CLI-A", 3)

	resp := documents.ToDocumentResponse(order)
	assert.Equal(t, order.ID, resp.ID)
	assert.Equal(t, "order", resp.Kind)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(3), resp.Items[0].Quantity)
	assert.Equal(t, "6.00", resp.Items[0].LineTotal.StringFixed(2))
}
