// seed genera un script SQL con productos y su existencia inicial a partir de un CSV.
//
// Uso: go run ./cmd/seed [-in productos.csv] [-out seed.sql] [-encoding auto|utf-8|iso-8859-1]
//
// Columnas (con cabecera): sku,name,description,unit_price,stock[,product_id]
// La existencia inicial se escribe como movimiento (source_ref "seed"); nunca como columna.
// El SQL resultante sirve para SQLite y PostgreSQL.
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// mismo formato de fecha que usa el adaptador SQLite; PostgreSQL lo acepta como timestamptz.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type seedProduct struct {
	ID          string
	SKU         string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Stock       int64
}

func main() {
	in := flag.String("in", "productos.csv", "CSV de entrada")
	out := flag.String("out", "", "archivo SQL de salida (vacío = stdout)")
	encoding := flag.String("encoding", "auto", "auto | utf-8 | iso-8859-1")
	flag.Parse()

	raw, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	products, err := parseProducts(raw, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := writeSeed(w, products, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d productos\n", len(products))
}

// decode devuelve el contenido en UTF-8. En modo auto, lo que no es UTF-8 válido se lee como ISO-8859-1.
func decode(raw []byte, encoding string) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		if !utf8.Valid(raw) {
			return nil, errors.New("el archivo no es UTF-8 válido")
		}
		return raw, nil
	case "iso-8859-1", "latin1":
	case "", "auto":
		if utf8.Valid(raw) {
			return raw, nil
		}
	default:
		return nil, fmt.Errorf("encoding no soportado: %q", encoding)
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	return out, err
}

func parseProducts(raw []byte, encoding string) ([]seedProduct, error) {
	data, err := decode(raw, encoding)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return norm.NFC.String(strings.TrimSpace(rec[i]))
	}

	var out []seedProduct
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		p := seedProduct{
			ID:          field(rec, "product_id"),
			SKU:         field(rec, "sku"),
			Name:        field(rec, "name"),
			Description: field(rec, "description"),
		}
		if p.SKU == "" || p.Name == "" {
			return nil, fmt.Errorf("línea %d: sku y name son requeridos", line)
		}
		if seen[p.SKU] {
			return nil, fmt.Errorf("línea %d: sku duplicado %q", line, p.SKU)
		}
		seen[p.SKU] = true
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if s := field(rec, "unit_price"); s != "" {
			if p.UnitPrice, err = decimal.NewFromString(s); err != nil || p.UnitPrice.IsNegative() ||
				!p.UnitPrice.Equal(p.UnitPrice.Truncate(entity.MoneyScale)) {
				return nil, fmt.Errorf("línea %d: unit_price inválido %q", line, s)
			}
		}
		if s := field(rec, "stock"); s != "" {
			if p.Stock, err = strconv.ParseInt(s, 10, 64); err != nil || p.Stock < 0 {
				return nil, fmt.Errorf("línea %d: stock inválido %q", line, s)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func writeSeed(w io.Writer, products []seedProduct, now time.Time) error {
	ts := now.Format(timeLayout)
	var b strings.Builder
	b.WriteString("-- Productos y existencia inicial\n")
	b.WriteString("-- Generado por cmd/seed\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "INSERT INTO products (product_id, sku, name, description, unit_price, created_at, updated_at)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s');\n",
			escapeSQL(p.ID), escapeSQL(p.SKU), escapeSQL(p.Name), escapeSQL(p.Description), p.UnitPrice.String(), ts, ts)
		if p.Stock > 0 {
			fmt.Fprintf(&b, "INSERT INTO stock_movements (product_id, change_qty, unit_price, movement_date, source_ref, created_at)\n")
			fmt.Fprintf(&b, "VALUES ('%s', %d, '%s', '%s', 'seed', '%s');\n",
				escapeSQL(p.ID), p.Stock, p.UnitPrice.String(), ts, ts)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
