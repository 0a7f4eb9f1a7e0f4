package frame

import (
	"fmt"
	"sort"
)

// SortKey is one ordering term. Ascending keys place nulls first and
// descending keys place them last unless overridden.
type SortKey struct {
	col        string
	desc       bool
	nullsFirst bool
}

func Asc(col string) SortKey  { return SortKey{col: col, nullsFirst: true} }
func Desc(col string) SortKey { return SortKey{col: col, desc: true} }

func (k SortKey) NullsFirst() SortKey {
	k.nullsFirst = true
	return k
}

func (k SortKey) NullsLast() SortKey {
	k.nullsFirst = false
	return k
}

// OrderBy sorts rows by the given keys. The sort is stable: rows equal on
// every key keep their input order.
func (t *Table) OrderBy(keys ...SortKey) *Table {
	if t.err != nil {
		return t
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.col
	}
	idx, err := t.colIndexes(names)
	if err != nil {
		return failed(fmt.Errorf("order by: %w", err))
	}
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		for k, key := range keys {
			if c := t.compareCells(idx[k], rows[a], rows[b], key); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return t.take(rows)
}

func (t *Table) compareCells(col, a, b int, key SortKey) int {
	va, vb := t.cols[col].Values[a], t.cols[col].Values[b]
	switch {
	case va == nil && vb == nil:
		return 0
	case va == nil:
		if key.nullsFirst {
			return -1
		}
		return 1
	case vb == nil:
		if key.nullsFirst {
			return 1
		}
		return -1
	}
	c := compare(va, vb)
	if key.desc {
		return -c
	}
	return c
}

// DropDuplicates keeps the first row for every distinct combination of the
// named columns (all columns when none are named), preserving row order.
// Null is a key value like any other.
func (t *Table) DropDuplicates(keys ...string) *Table {
	if t.err != nil {
		return t
	}
	if len(keys) == 0 {
		keys = t.Names()
	}
	idx, err := t.colIndexes(keys)
	if err != nil {
		return failed(fmt.Errorf("drop duplicates: %w", err))
	}
	seen := newKeyIndex(t.rows)
	rows := make([]int, 0, t.rows)
	var buf []byte
	for r := 0; r < t.rows; r++ {
		buf = t.rowKey(buf, r, idx)
		if _, fresh := seen.id(buf); fresh {
			rows = append(rows, r)
		}
	}
	return t.take(rows)
}
