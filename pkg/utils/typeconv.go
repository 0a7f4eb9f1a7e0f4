package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotCoercible reports a value that cannot be represented in the requested kind.
var ErrNotCoercible = errors.New("value not coercible")

// Coerce converts a raw source value into the canonical Go representation of
// the field's kind: string, int64, float64, bool or decimal.Decimal.
// A nil result with a nil error is a null cell. Empty strings are nulls for
// every kind.
func Coerce(val interface{}, cfg models.FieldConfig) (interface{}, error) {
	if isNull(val) {
		return nil, nil
	}
	switch cfg.Type {
	case models.KindString:
		return ConvertToString(val)
	case models.KindInt:
		return ConvertToInt(val)
	case models.KindDouble:
		return ConvertToDouble(val)
	case models.KindBool:
		return ConvertToBool(val)
	case models.KindDecimal:
		return ConvertToDecimal(val, cfg.Precision, cfg.Scale)
	default:
		return nil, fmt.Errorf("unknown kind %q", cfg.Type)
	}
}

func isNull(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case primitive.Null, primitive.Undefined:
		return true
	}
	return false
}

func ConvertToString(val interface{}) (interface{}, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339), nil
	case primitive.ObjectID:
		return v.Hex(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// ConvertToInt yields a 32-bit integer stored as int64. Fractional or
// out-of-range values are not coercible.
func ConvertToInt(val interface{}) (interface{}, error) {
	var n int64
	switch v := val.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float32:
		return ConvertToInt(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: %v as int", ErrNotCoercible, v)
		}
		n = int64(v)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as int", ErrNotCoercible, v)
		}
		n = i
	case []byte:
		return ConvertToInt(string(v))
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to int", ErrNotCoercible, val)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d overflows int", ErrNotCoercible, n)
	}
	return n, nil
}

func ConvertToDouble(val interface{}) (interface{}, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	case primitive.Decimal128:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v as double", ErrNotCoercible, v)
		}
		f, _ := d.Float64()
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as double", ErrNotCoercible, v)
		}
		return f, nil
	case []byte:
		return ConvertToDouble(string(v))
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to double", ErrNotCoercible, val)
	}
}

// ConvertToBool accepts booleans and the literals true/false in any case.
func ConvertToBool(val interface{}) (interface{}, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		switch {
		case strings.EqualFold(s, "true"):
			return true, nil
		case strings.EqualFold(s, "false"):
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q as bool", ErrNotCoercible, v)
	case []byte:
		return ConvertToBool(string(v))
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to bool", ErrNotCoercible, val)
	}
}

// ConvertToDecimal rounds half-up to scale and rejects values whose integer
// part does not fit in precision-scale digits.
func ConvertToDecimal(val interface{}, precision, scale int32) (interface{}, error) {
	var d decimal.Decimal
	switch v := val.(type) {
	case decimal.Decimal:
		d = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %v as decimal", ErrNotCoercible, v)
		}
		d = decimal.NewFromFloat(v)
	case float32:
		return ConvertToDecimal(float64(v), precision, scale)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case primitive.Decimal128:
		return ConvertToDecimal(v.String(), precision, scale)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %q as decimal", ErrNotCoercible, v)
		}
		d = parsed
	case []byte:
		return ConvertToDecimal(string(v), precision, scale)
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to decimal", ErrNotCoercible, val)
	}
	d = d.Round(scale)
	limit := decimal.New(1, precision-scale)
	if d.Abs().GreaterThanOrEqual(limit) {
		return nil, fmt.Errorf("%w: %s overflows decimal(%d,%d)", ErrNotCoercible, d, precision, scale)
	}
	return d, nil
}

// Cast converts an already-typed cell between kinds the way a relational
// CAST does: doubles truncate toward zero when cast to int, and values that
// cannot be represented become null.
func Cast(val interface{}, to models.FieldConfig) interface{} {
	if val == nil {
		return nil
	}
	if f, ok := val.(float64); ok && to.Type == models.KindInt {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		val = math.Trunc(f)
	}
	if d, ok := val.(decimal.Decimal); ok && to.Type == models.KindInt {
		val = d.Truncate(0).IntPart()
	}
	out, err := Coerce(val, to)
	if err != nil {
		return nil
	}
	return out
}
