// Package frame is a small immutable table engine: typed, nullable columns
// and the relational operations the analysis needs (projection, filtering,
// casting, grouping, windowed aggregates, ordering, de-duplication and
// joins). Every operation returns a new Table and never mutates its input.
//
// Operations chain fluently. A failing step (unknown column, name clash)
// poisons the returned Table; later steps pass the error through and Result
// reports it:
//
//	out, err := t.Select("a", "b").OrderBy(Desc("b")).Result()
package frame

import (
	"errors"
	"fmt"

	"github.com/BartekS5/ipla/pkg/models"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnExists   = errors.New("column already exists")
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrKindMismatch   = errors.New("column kind mismatch")
)

// Column is a named, typed vector of cells; a nil cell is null. Cell values
// are string, int64, float64, bool or decimal.Decimal according to Kind.
type Column struct {
	Field  models.FieldConfig
	Values []any
}

// Col is a convenience constructor for a column of the given kind.
func Col(name string, kind models.Kind, values ...any) Column {
	return Column{Field: models.FieldConfig{Name: name, Type: kind}, Values: values}
}

type Table struct {
	cols  []Column
	index map[string]int
	rows  int
	err   error
}

// New builds a table; the value slices are copied.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Field.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrColumnExists, c.Field.Name)
		}
		if i == 0 {
			t.rows = len(c.Values)
		} else if len(c.Values) != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.Field.Name, len(c.Values), t.rows)
		}
		t.index[c.Field.Name] = i
		t.cols = append(t.cols, Column{Field: c.Field, Values: append([]any(nil), c.Values...)})
	}
	return t, nil
}

// Empty returns a zero-row table with the given columns.
func Empty(fields ...models.FieldConfig) *Table {
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{Field: f}
	}
	t, err := New(cols...)
	if err != nil {
		return failed(err)
	}
	return t
}

// build wraps already-owned columns without copying.
func build(cols []Column, rows int) *Table {
	t := &Table{cols: cols, rows: rows, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		t.index[c.Field.Name] = i
	}
	return t
}

func failed(err error) *Table { return &Table{err: err} }

// Err reports the first error raised while building this table.
func (t *Table) Err() error { return t.err }

// Result returns the table, or the error that poisoned the chain.
func (t *Table) Result() (*Table, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t, nil
}

func (t *Table) Len() int { return t.rows }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Field.Name
	}
	return out
}

// Fields returns the column descriptors in order.
func (t *Table) Fields() []models.FieldConfig {
	out := make([]models.FieldConfig, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Field
	}
	return out
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Field returns the descriptor of a column.
func (t *Table) Field(name string) (models.FieldConfig, error) {
	c, err := t.col(name)
	if err != nil {
		return models.FieldConfig{}, err
	}
	return c.Field, nil
}

// Values returns a copy of a column's cells.
func (t *Table) Values(name string) ([]any, error) {
	c, err := t.col(name)
	if err != nil {
		return nil, err
	}
	return append([]any(nil), c.Values...), nil
}

// Value returns one cell; unknown columns read as null.
func (t *Table) Value(row int, name string) any {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i].Values[row]
}

// Row returns a view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

func (t *Table) col(name string) (*Column, error) {
	if t.err != nil {
		return nil, t.err
	}
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return &t.cols[i], nil
}

func (t *Table) colIndexes(names []string) ([]int, error) {
	out := make([]int, len(names))
	for k, n := range names {
		i, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, n)
		}
		out[k] = i
	}
	return out, nil
}

// take builds a table holding the given rows, in the given order.
func (t *Table) take(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for c := range t.cols {
		vals := make([]any, len(rows))
		for k, r := range rows {
			vals[k] = t.cols[c].Values[r]
		}
		cols[c] = Column{Field: t.cols[c].Field, Values: vals}
	}
	return build(cols, len(rows))
}

// Row is a read-only view of a table row.
type Row struct {
	t *Table
	i int
}

func (r Row) Index() int { return r.i }

// Get returns the cell in column name; unknown columns read as null.
func (r Row) Get(name string) any { return r.t.Value(r.i, name) }

func (r Row) IsNull(name string) bool { return r.Get(name) == nil }

// Float returns a numeric cell as float64.
func (r Row) Float(name string) (float64, bool) { return toFloat(r.Get(name)) }

// Int returns an integer cell.
func (r Row) Int(name string) (int64, bool) {
	v, ok := r.Get(name).(int64)
	return v, ok
}

func (r Row) String(name string) (string, bool) {
	v, ok := r.Get(name).(string)
	return v, ok
}
