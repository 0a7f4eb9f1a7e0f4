package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/xxh3"
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	}
	return 0, false
}

// compare orders two non-null cells of the same kind. NaN sorts above every
// other double and equals itself.
func compare(a, b any) int {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case float64:
		if y, ok := b.(float64); ok {
			return compareFloat(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case decimal.Decimal:
		if y, ok := b.(decimal.Decimal); ok {
			return x.Cmp(y)
		}
	}
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if oka && okb {
		return compareFloat(fa, fb)
	}
	return 0
}

func compareFloat(x, y float64) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// key type tags
const (
	tagNull byte = iota
	tagInt
	tagFloat
	tagString
	tagBool
	tagDecimal
)

// appendKey appends a self-delimiting encoding of v. Equal grouping values
// encode identically: all NaNs share one encoding and -0.0 encodes as 0.0.
func appendKey(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, tagNull)
	case int64:
		buf = append(buf, tagInt)
		return binary.BigEndian.AppendUint64(buf, uint64(x))
	case float64:
		if math.IsNaN(x) {
			x = math.NaN()
		} else if x == 0 {
			x = 0
		}
		buf = append(buf, tagFloat)
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(x))
	case string:
		buf = append(buf, tagString)
		buf = binary.AppendUvarint(buf, uint64(len(x)))
		return append(buf, x...)
	case bool:
		if x {
			return append(buf, tagBool, 1)
		}
		return append(buf, tagBool, 0)
	case decimal.Decimal:
		s := x.String()
		buf = append(buf, tagDecimal)
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		return append(buf, s...)
	}
	s := fmt.Sprint(v)
	buf = append(buf, tagString)
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// keyIndex assigns dense ids to composite keys. Keys are bucketed by their
// xxh3 hash and confirmed byte-for-byte.
type keyIndex struct {
	buckets map[uint64][]int
	keys    [][]byte
}

func newKeyIndex(hint int) *keyIndex {
	return &keyIndex{buckets: make(map[uint64][]int, hint)}
}

// id returns the id of key, registering it when unseen.
func (k *keyIndex) id(key []byte) (int, bool) {
	h := xxh3.Hash(key)
	for _, id := range k.buckets[h] {
		if bytes.Equal(k.keys[id], key) {
			return id, false
		}
	}
	id := len(k.keys)
	k.keys = append(k.keys, append([]byte(nil), key...))
	k.buckets[h] = append(k.buckets[h], id)
	return id, true
}

// lookup finds the id of key without registering it.
func (k *keyIndex) lookup(key []byte) (int, bool) {
	for _, id := range k.buckets[xxh3.Hash(key)] {
		if bytes.Equal(k.keys[id], key) {
			return id, true
		}
	}
	return 0, false
}

func (k *keyIndex) len() int { return len(k.keys) }

// rowKey encodes the cells of row r in the given columns.
func (t *Table) rowKey(buf []byte, r int, cols []int) []byte {
	buf = buf[:0]
	for _, c := range cols {
		buf = appendKey(buf, t.cols[c].Values[r])
	}
	return buf
}

// rowHasNull reports whether any of the given cells is null.
func (t *Table) rowHasNull(r int, cols []int) bool {
	for _, c := range cols {
		if t.cols[c].Values[r] == nil {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case decimal.Decimal:
		return x.String()
	}
	return ""
}
