package catalog_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/catalog"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/sqlite"
)

var day0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*catalog.CatalogUseCase, repository.TxRepos) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := sqlite.ReposFor(db.SQL())
	return catalog.NewCatalogUseCase(repos.Products, repos.Movements, 0), repos
}

func addProduct(t *testing.T, repos repository.TxRepos, id, name string) {
	t.Helper()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: name, UnitPrice: decimal.NewFromInt(10), CreatedAt: day0, UpdatedAt: day0,
	}))
}

func addMovement(t *testing.T, repos repository.TxRepos, productID string, qty int64, price string, date time.Time) {
	t.Helper()
	m := &entity.StockMovement{ProductID: productID, ChangeQty: qty, MovementDate: date, CreatedAt: date}
	if price != "" {
		m.UnitPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	_, err := repos.Movements.Append(context.Background(), m)
	require.NoError(t, err)
}

func TestGetPage_PaginacionSinDuplicadosNiHuecos(t *testing.T) {
	uc, repos := setup(t)
	names := []string{"Tornillo", "Arandela", "Clavo", "Bisagra", "Perno", "Martillo", "Tuerca"}
	for i, n := range names {
		addProduct(t, repos, string(rune('a'+i)), n)
		if i%2 == 0 {
			addMovement(t, repos, string(rune('a'+i)), int64(i+1), "1.00", day0)
		}
	}

	var seen []string
	sizes := []int{}
	for page := 1; page <= 3; page++ {
		out, err := uc.GetPage(context.Background(), dto.PageRequest{Page: page, PerPage: 3})
		require.NoError(t, err)
		assert.Equal(t, len(names), out.Page.Total)
		sizes = append(sizes, len(out.Items))
		for _, row := range out.Items {
			seen = append(seen, row.Name)
		}
	}

	want := append([]string(nil), names...)
	sort.Strings(want)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, want, seen)

	empty, err := uc.GetPage(context.Background(), dto.PageRequest{Page: 4, PerPage: 3})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestGetPage_DefaultsYTope(t *testing.T) {
	uc, repos := setup(t)
	addProduct(t, repos, "p1", "Uno")

	out, err := uc.GetPage(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Page)
	assert.Equal(t, 100, out.Page.PerPage)

	out, err = uc.GetPage(context.Background(), dto.PageRequest{Page: 1, PerPage: 10_000})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultMaxPerPage, out.Page.PerPage)
}

func TestGetPage_IncluyeProductosSinMovimientos(t *testing.T) {
	uc, repos := setup(t)
	addProduct(t, repos, "p1", "Con stock")
	addProduct(t, repos, "p2", "Sin movimientos")
	addMovement(t, repos, "p1", 10, "2.00", day0)
	addMovement(t, repos, "p1", -3, "", day0.AddDate(0, 0, 1))
	addMovement(t, repos, "p1", 5, "3.00", day0.AddDate(0, 0, 2))

	out, err := uc.GetPage(context.Background(), dto.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	withStock := out.Items[0]
	assert.Equal(t, "p1", withStock.ProductID)
	assert.Equal(t, int64(12), withStock.OnHand)
	require.NotNil(t, withStock.OldestUnitPrice)
	assert.Equal(t, "2.00", withStock.OldestUnitPrice.StringFixed(2))
	require.NotNil(t, withStock.OldestMovementDate)
	assert.True(t, withStock.OldestMovementDate.Equal(day0))

	noStock := out.Items[1]
	assert.Equal(t, "p2", noStock.ProductID)
	assert.Equal(t, int64(0), noStock.OnHand)
	assert.Nil(t, noStock.OldestUnitPrice)
	assert.Nil(t, noStock.OldestMovementDate)
}

// Escenario D: producto sin movimientos.
func TestGetOne_SinMovimientos(t *testing.T) {
	uc, repos := setup(t)
	addProduct(t, repos, "p1", "Nuevo")

	row, err := uc.GetOne(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.OnHand)
	assert.Nil(t, row.OldestUnitPrice)
	assert.Nil(t, row.OldestMovementDate)
}

func TestGetOne_ConMovimientos(t *testing.T) {
	uc, repos := setup(t)
	addProduct(t, repos, "p1", "Viejo")
	addMovement(t, repos, "p1", 4, "7.50", day0.AddDate(0, 0, 3))
	addMovement(t, repos, "p1", 2, "6.00", day0)

	row, err := uc.GetOne(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), row.OnHand)
	require.NotNil(t, row.OldestUnitPrice)
	assert.Equal(t, "6.00", row.OldestUnitPrice.StringFixed(2))
}

func TestGetOne_NoExiste(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.GetOne(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
