package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/validation"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
)

type line struct {
	Qty   int64           `json:"quantity" validate:"gt=0"`
	Price decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

type doc struct {
	Ref   string `json:"counterparty_ref" validate:"required"`
	Lines []line `json:"items" validate:"required,min=1,dive"`
}

func TestStruct_OK(t *testing.T) {
	err := validation.Struct(doc{Ref: "C1", Lines: []line{{Qty: 1, Price: decimal.NewFromInt(0)}}})
	assert.NoError(t, err)
}

func TestStruct_CamposConRutaJSON(t *testing.T) {
	err := validation.Struct(doc{Lines: []line{
		{Qty: 1, Price: decimal.NewFromInt(1)},
		{Qty: 0, Price: decimal.RequireFromString("-0.01")},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["counterparty_ref"])
	assert.True(t, fields["items[1].quantity"])
	assert.True(t, fields["items[1].unit_price"])
	assert.False(t, fields["items[0].quantity"])
}

func TestStruct_SinLineas(t *testing.T) {
	err := validation.Struct(doc{Ref: "C1"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Fields[0].Field)
}

func TestMaxDecimals(t *testing.T) {
	verr := &domain.ValidationError{}
	validation.MaxDecimals(verr, "a", decimal.RequireFromString("1.2345"), 4)
	validation.MaxDecimals(verr, "b", decimal.RequireFromString("1.230000"), 2)
	assert.Empty(t, verr.Fields)

	validation.MaxDecimals(verr, "c", decimal.RequireFromString("1.23456"), 4)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "c", verr.Fields[0].Field)
}

type dated struct {
	Date time.Time  `json:"date" validate:"required,daterange"`
	When *time.Time `json:"when" validate:"omitempty,daterange"`
}

func TestStruct_FechaFueraDeRango(t *testing.T) {
	ok := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, validation.Struct(dated{Date: ok}))
	assert.True(t, validation.DateInRange(time.Date(9999, 12, 31, 23, 0, 0, 0, time.UTC)))

	far := time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
	err := validation.Struct(dated{Date: ok, When: &far})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "when", verr.Fields[0].Field)

	err = validation.Struct(dated{Date: time.Date(-5, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date", verr.Fields[0].Field)
}
