package frame

import (
	"fmt"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/BartekS5/ipla/pkg/utils"
)

// Select keeps the named columns in the given order.
func (t *Table) Select(names ...string) *Table {
	if t.err != nil {
		return t
	}
	idx, err := t.colIndexes(names)
	if err != nil {
		return failed(fmt.Errorf("select: %w", err))
	}
	cols := make([]Column, len(idx))
	seen := make(map[string]struct{}, len(idx))
	for k, i := range idx {
		if _, dup := seen[names[k]]; dup {
			return failed(fmt.Errorf("select: %w: %q", ErrColumnExists, names[k]))
		}
		seen[names[k]] = struct{}{}
		cols[k] = t.cols[i]
	}
	return build(cols, t.rows)
}

// Drop removes the named columns. Names that are not present are ignored.
func (t *Table) Drop(names ...string) *Table {
	if t.err != nil {
		return t
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	cols := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := drop[c.Field.Name]; !ok {
			cols = append(cols, c)
		}
	}
	return build(cols, t.rows)
}

// Rename changes column names. Pairs are given as old, new, old, new, ...
// The resulting names must stay distinct.
func (t *Table) Rename(pairs ...string) *Table {
	if t.err != nil {
		return t
	}
	if len(pairs)%2 != 0 {
		return failed(fmt.Errorf("rename: odd number of names"))
	}
	cols := append([]Column(nil), t.cols...)
	for p := 0; p < len(pairs); p += 2 {
		i, ok := t.index[pairs[p]]
		if !ok {
			return failed(fmt.Errorf("rename: %w: %q", ErrColumnNotFound, pairs[p]))
		}
		f := cols[i].Field
		f.Name = pairs[p+1]
		cols[i] = Column{Field: f, Values: cols[i].Values}
	}
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, dup := seen[c.Field.Name]; dup {
			return failed(fmt.Errorf("rename: %w: %q", ErrColumnExists, c.Field.Name))
		}
		seen[c.Field.Name] = struct{}{}
	}
	return build(cols, t.rows)
}

// Predicate decides whether a row is kept by Filter.
type Predicate func(Row) bool

// Filter keeps the rows for which keep returns true, preserving order.
func (t *Table) Filter(keep Predicate) *Table {
	if t.err != nil {
		return t
	}
	rows := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(Row{t: t, i: i}) {
			rows = append(rows, i)
		}
	}
	return t.take(rows)
}

// Eq matches rows whose cell equals v after numeric widening. Null never
// matches.
func Eq(name string, v any) Predicate {
	return func(r Row) bool {
		cell := r.Get(name)
		if cell == nil || v == nil {
			return false
		}
		if a, ok := toFloat(cell); ok {
			b, ok := toFloat(v)
			return ok && a == b
		}
		return compare(cell, v) == 0
	}
}

// WithColumn adds a computed column, or replaces the column of the same name
// in place.
func (t *Table) WithColumn(field models.FieldConfig, fn func(Row) any) *Table {
	if t.err != nil {
		return t
	}
	vals := make([]any, t.rows)
	for i := range vals {
		vals[i] = fn(Row{t: t, i: i})
	}
	cols := append([]Column(nil), t.cols...)
	if i, ok := t.index[field.Name]; ok {
		cols[i] = Column{Field: field, Values: vals}
	} else {
		cols = append(cols, Column{Field: field, Values: vals})
	}
	return build(cols, t.rows)
}

// Cast converts a column to another kind; cells that cannot be represented
// become null.
func (t *Table) Cast(name string, to models.FieldConfig) *Table {
	if t.err != nil {
		return t
	}
	if _, err := t.col(name); err != nil {
		return failed(fmt.Errorf("cast: %w", err))
	}
	to.Name = name
	return t.WithColumn(to, func(r Row) any { return utils.Cast(r.Get(name), to) })
}

// CastKind is Cast for kinds without precision.
func (t *Table) CastKind(name string, kind models.Kind) *Table {
	return t.Cast(name, models.FieldConfig{Name: name, Type: kind})
}

// DropNulls removes rows holding a null in any of the named columns, or in
// any column when no names are given.
func (t *Table) DropNulls(names ...string) *Table {
	if t.err != nil {
		return t
	}
	if len(names) == 0 {
		names = t.Names()
	}
	idx, err := t.colIndexes(names)
	if err != nil {
		return failed(fmt.Errorf("drop nulls: %w", err))
	}
	rows := make([]int, 0, t.rows)
	for r := 0; r < t.rows; r++ {
		if !t.rowHasNull(r, idx) {
			rows = append(rows, r)
		}
	}
	return t.take(rows)
}

// NullCount is the number of null cells in one column.
type NullCount struct {
	Column string
	Nulls  int
}

// NullCounts counts null cells per column, in column order.
func (t *Table) NullCounts() []NullCount {
	out := make([]NullCount, len(t.cols))
	for i, c := range t.cols {
		n := 0
		for _, v := range c.Values {
			if v == nil {
				n++
			}
		}
		out[i] = NullCount{Column: c.Field.Name, Nulls: n}
	}
	return out
}
