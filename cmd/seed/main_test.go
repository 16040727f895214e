package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/sqlite"
)

func TestParseProducts_Latin1(t *testing.T) {
	// "Café" y "Piñón" en ISO-8859-1
	raw := []byte("sku,name,unit_price,stock\nC-1,Caf\xe9,12.50,4\nP-1,Pi\xf1\xf3n,3,0\n")
	products, err := parseProducts(raw, "auto")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Café", products[0].Name)
	assert.Equal(t, "Piñón", products[1].Name)
	assert.Equal(t, "12.5", products[0].UnitPrice.String())
	assert.Equal(t, int64(4), products[0].Stock)
	assert.NotEmpty(t, products[0].ID)
}

func TestParseProducts_NFC(t *testing.T) {
	raw := []byte("\xef\xbb\xbfsku,name,product_id\nC-1,Cafe\u0301,fijo\n")
	products, err := parseProducts(raw, "utf-8")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Caf\u00e9", products[0].Name)
	assert.Equal(t, "fijo", products[0].ID)
}

func TestParseProducts_Errores(t *testing.T) {
	cases := map[string]string{
		"sin sku":        "name\nX\n",
		"sku duplicado":  "sku,name\nA,x\nA,y\n",
		"precio":         "sku,name,unit_price\nA,x,abc\n",
		"tres decimales": "sku,name,unit_price\nA,x,1.005\n",
		"stock":          "sku,name,stock\nA,x,-2\n",
	}
	for name, csv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseProducts([]byte(csv), "auto")
			assert.Error(t, err)
		})
	}
	_, err := parseProducts([]byte("sku,name\nA,Caf\xe9\n"), "utf-8")
	assert.Error(t, err)
}

func TestWriteSeed_CargaEnSQLite(t *testing.T) {
	products, err := parseProducts([]byte("sku,name,description,unit_price,stock\nA-1,O'Brien,llave,2.5,7\nB-1,Broca,,1,0\n"), "auto")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSeed(&b, products, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.SQL().ExecContext(ctx, b.String())
	require.NoError(t, err)

	repos := sqlite.ReposFor(db.SQL())
	p, err := repos.Products.GetBySKU(ctx, "A-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "O'Brien", p.Name)

	sum, err := repos.Movements.SumQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)

	n, err := repos.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
