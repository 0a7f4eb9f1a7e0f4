package utils

import (
	"math"
	"testing"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCoerce(t *testing.T) {
	dec := models.FieldConfig{Name: "d", Type: models.KindDecimal, Precision: 10, Scale: 2}
	tests := []struct {
		name    string
		val     interface{}
		cfg     models.FieldConfig
		want    interface{}
		wantErr bool
	}{
		{"empty string is null", "", models.FieldConfig{Type: models.KindString}, nil, false},
		{"bson null", primitive.Null{}, models.FieldConfig{Type: models.KindInt}, nil, false},
		{"int from string", " 42 ", models.FieldConfig{Type: models.KindInt}, int64(42), false},
		{"int rejects fraction", "4.5", models.FieldConfig{Type: models.KindInt}, nil, true},
		{"int rejects overflow", int64(math.MaxInt32) + 1, models.FieldConfig{Type: models.KindInt}, nil, true},
		{"int from integral double", 7.0, models.FieldConfig{Type: models.KindInt}, int64(7), false},
		{"double from string", "136.36", models.FieldConfig{Type: models.KindDouble}, 136.36, false},
		{"double rejects text", "n/a", models.FieldConfig{Type: models.KindDouble}, nil, true},
		{"bool literal", "TRUE", models.FieldConfig{Type: models.KindBool}, true, false},
		{"bool rejects digit", "1", models.FieldConfig{Type: models.KindBool}, nil, true},
		{"string from double", 19.5, models.FieldConfig{Type: models.KindString}, "19.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.val, tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCoercible)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := Coerce("19.345", dec)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.35").Equal(got.(decimal.Decimal)))

	_, err = Coerce("123456789.00", dec)
	assert.ErrorIs(t, err, ErrNotCoercible)
}

func TestCastDoubleToInt(t *testing.T) {
	to := models.FieldConfig{Type: models.KindInt}
	for _, v := range []float64{0, 1, 42, -17, 2147483647} {
		assert.Equal(t, int64(v), Cast(v, to), "integral %v keeps its value", v)
	}
	assert.Equal(t, int64(3), Cast(3.99, to))
	assert.Equal(t, int64(-3), Cast(-3.99, to))
	assert.Nil(t, Cast(math.NaN(), to))
	assert.Nil(t, Cast(math.Inf(1), to))
	assert.Nil(t, Cast(1e12, to))
	assert.Nil(t, Cast(nil, to))
}

func TestCastToDecimal(t *testing.T) {
	to := models.FieldConfig{Type: models.KindDecimal, Precision: 10, Scale: 2}
	got := Cast(125.275, to)
	require.IsType(t, decimal.Decimal{}, got)
	assert.True(t, decimal.RequireFromString("125.28").Equal(got.(decimal.Decimal)))
}
