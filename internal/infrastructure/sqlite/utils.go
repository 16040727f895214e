package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Maiar0/inventory-web-backend/internal/domain"
)

// Fechas como TEXT UTC de ancho fijo: el orden lexicográfico coincide con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func sqliteCode(err error) sqlite3.ErrNoExtended {
	var sErr sqlite3.Error
	if errors.As(err, &sErr) {
		return sErr.ExtendedCode
	}
	return 0
}

func isUniqueViolation(err error) bool {
	c := sqliteCode(err)
	return c == sqlite3.ErrConstraintUnique || c == sqlite3.ErrConstraintPrimaryKey
}

// isForeignKeyViolation cubre también ON DELETE RESTRICT, que sqlite reporta como
// SQLITE_CONSTRAINT_TRIGGER con el mensaje "FOREIGN KEY constraint failed".
func isForeignKeyViolation(err error) bool {
	var sErr sqlite3.Error
	if !errors.As(err, &sErr) {
		return false
	}
	if sErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return true
	}
	return sErr.Code == sqlite3.ErrConstraint && strings.Contains(sErr.Error(), "FOREIGN KEY")
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func wrap(op string, err error) error {
	return domain.Persistence(op, err)
}
