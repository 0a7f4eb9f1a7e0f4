package frame

import (
	"fmt"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
)

type aggFunc int

const (
	aggSum aggFunc = iota
	aggAvg
	aggMin
	aggMax
	aggCount
	aggCountDistinct
	aggFirst
)

var aggNames = map[aggFunc]string{
	aggSum:           "sum",
	aggAvg:           "avg",
	aggMin:           "min",
	aggMax:           "max",
	aggCount:         "count",
	aggCountDistinct: "count_distinct",
	aggFirst:         "first",
}

// Agg describes one aggregate over an input column. Nulls are ignored by
// every aggregate except First; an aggregate over only nulls is null (counts
// are zero).
type Agg struct {
	fn  aggFunc
	in  string
	out string
}

func Sum(col string) Agg           { return Agg{fn: aggSum, in: col} }
func Avg(col string) Agg           { return Agg{fn: aggAvg, in: col} }
func Min(col string) Agg           { return Agg{fn: aggMin, in: col} }
func Max(col string) Agg           { return Agg{fn: aggMax, in: col} }
func Count(col string) Agg         { return Agg{fn: aggCount, in: col} }
func CountDistinct(col string) Agg { return Agg{fn: aggCountDistinct, in: col} }
func First(col string) Agg         { return Agg{fn: aggFirst, in: col} }

// As names the output column.
func (a Agg) As(name string) Agg {
	a.out = name
	return a
}

// Name is the output column name, e.g. "sum(runs)" when As was not used.
func (a Agg) Name() string {
	if a.out != "" {
		return a.out
	}
	return fmt.Sprintf("%s(%s)", aggNames[a.fn], a.in)
}

func (a Agg) resultField(in models.FieldConfig) models.FieldConfig {
	f := models.FieldConfig{Name: a.Name()}
	switch a.fn {
	case aggAvg:
		f.Type = models.KindDouble
	case aggCount, aggCountDistinct:
		f.Type = models.KindInt
	case aggSum:
		f.Type = in.Type
		if in.Type == models.KindDecimal {
			f.Precision, f.Scale = min(in.Precision+10, 38), in.Scale
		}
	default:
		f.Type, f.Precision, f.Scale = in.Type, in.Precision, in.Scale
	}
	return f
}

func (a Agg) newAcc() accumulator {
	switch a.fn {
	case aggSum:
		return &sumAcc{}
	case aggAvg:
		return &avgAcc{}
	case aggMin:
		return &extremeAcc{sign: -1}
	case aggMax:
		return &extremeAcc{sign: 1}
	case aggCount:
		return &countAcc{}
	case aggCountDistinct:
		return &distinctAcc{seen: newKeyIndex(8)}
	default:
		return &firstAcc{}
	}
}

type accumulator interface {
	add(v any)
	result() any
}

type sumAcc struct {
	seen  bool
	ints  int64
	flts  float64
	decs  decimal.Decimal
	isDec bool
	isInt bool
}

func (s *sumAcc) add(v any) {
	switch x := v.(type) {
	case int64:
		s.ints += x
		s.isInt = true
	case float64:
		s.flts += x
	case decimal.Decimal:
		s.decs = s.decs.Add(x)
		s.isDec = true
	default:
		return
	}
	s.seen = true
}

func (s *sumAcc) result() any {
	switch {
	case !s.seen:
		return nil
	case s.isDec:
		return s.decs
	case s.isInt:
		return s.ints
	}
	return s.flts
}

type avgAcc struct {
	n   int
	sum float64
}

func (a *avgAcc) add(v any) {
	if f, ok := toFloat(v); ok {
		a.sum += f
		a.n++
	}
}

func (a *avgAcc) result() any {
	if a.n == 0 {
		return nil
	}
	return a.sum / float64(a.n)
}

type extremeAcc struct {
	sign int
	best any
}

func (e *extremeAcc) add(v any) {
	if v == nil {
		return
	}
	if e.best == nil || compare(v, e.best)*e.sign > 0 {
		e.best = v
	}
}

func (e *extremeAcc) result() any { return e.best }

type countAcc struct{ n int64 }

func (c *countAcc) add(v any) {
	if v != nil {
		c.n++
	}
}

func (c *countAcc) result() any { return c.n }

type distinctAcc struct {
	seen *keyIndex
	buf  []byte
}

func (d *distinctAcc) add(v any) {
	if v == nil {
		return
	}
	d.buf = appendKey(d.buf[:0], v)
	d.seen.id(d.buf)
}

func (d *distinctAcc) result() any { return int64(d.seen.len()) }

type firstAcc struct {
	set bool
	v   any
}

func (f *firstAcc) add(v any) {
	if !f.set {
		f.v, f.set = v, true
	}
}

func (f *firstAcc) result() any { return f.v }

// Grouped is a table partitioned by key columns, awaiting aggregation.
type Grouped struct {
	t    *Table
	keys []string
}

// GroupBy partitions rows by the named key columns. Rows whose keys are null
// form their own group, like any other key value.
func (t *Table) GroupBy(keys ...string) *Grouped {
	return &Grouped{t: t, keys: keys}
}

// Agg collapses each group into one row: the key columns followed by one
// column per aggregate. Groups appear in order of first occurrence.
func (g *Grouped) Agg(aggs ...Agg) *Table {
	t := g.t
	if t.err != nil {
		return t
	}
	keyIdx, err := t.colIndexes(g.keys)
	if err != nil {
		return failed(fmt.Errorf("group by: %w", err))
	}
	inIdx, fields, err := t.aggInputs(aggs)
	if err != nil {
		return failed(fmt.Errorf("group by: %w", err))
	}

	groups := newKeyIndex(t.rows)
	var firstRow []int
	var accs [][]accumulator
	var buf []byte
	for r := 0; r < t.rows; r++ {
		buf = t.rowKey(buf, r, keyIdx)
		id, fresh := groups.id(buf)
		if fresh {
			firstRow = append(firstRow, r)
			row := make([]accumulator, len(aggs))
			for a := range aggs {
				row[a] = aggs[a].newAcc()
			}
			accs = append(accs, row)
		}
		for a := range aggs {
			accs[id][a].add(t.cols[inIdx[a]].Values[r])
		}
	}

	cols := make([]Column, 0, len(keyIdx)+len(aggs))
	for _, k := range keyIdx {
		vals := make([]any, len(firstRow))
		for id, r := range firstRow {
			vals[id] = t.cols[k].Values[r]
		}
		cols = append(cols, Column{Field: t.cols[k].Field, Values: vals})
	}
	for a := range aggs {
		vals := make([]any, len(accs))
		for id := range accs {
			vals[id] = accs[id][a].result()
		}
		cols = append(cols, Column{Field: fields[a], Values: vals})
	}
	out := build(cols, len(firstRow))
	if len(out.index) != len(cols) {
		return failed(fmt.Errorf("group by: %w: aggregate output names collide", ErrColumnExists))
	}
	return out
}

func (t *Table) aggInputs(aggs []Agg) ([]int, []models.FieldConfig, error) {
	idx := make([]int, len(aggs))
	fields := make([]models.FieldConfig, len(aggs))
	for a, agg := range aggs {
		i, ok := t.index[agg.in]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrColumnNotFound, agg.in)
		}
		idx[a] = i
		fields[a] = agg.resultField(t.cols[i].Field)
	}
	return idx, fields, nil
}

// WithWindow computes agg over each partition and writes the partition's
// result onto every row of it. Row count and order are unchanged.
func (t *Table) WithWindow(agg Agg, partitionBy ...string) *Table {
	if t.err != nil {
		return t
	}
	partIdx, err := t.colIndexes(partitionBy)
	if err != nil {
		return failed(fmt.Errorf("window: %w", err))
	}
	inIdx, fields, err := t.aggInputs([]Agg{agg})
	if err != nil {
		return failed(fmt.Errorf("window: %w", err))
	}
	if t.Has(fields[0].Name) {
		return failed(fmt.Errorf("window: %w: %q", ErrColumnExists, fields[0].Name))
	}

	parts := newKeyIndex(t.rows)
	member := make([]int, t.rows)
	var accs []accumulator
	var buf []byte
	for r := 0; r < t.rows; r++ {
		buf = t.rowKey(buf, r, partIdx)
		id, fresh := parts.id(buf)
		if fresh {
			accs = append(accs, agg.newAcc())
		}
		member[r] = id
		accs[id].add(t.cols[inIdx[0]].Values[r])
	}

	vals := make([]any, t.rows)
	for r := range vals {
		vals[r] = accs[member[r]].result()
	}
	cols := append(append([]Column(nil), t.cols...), Column{Field: fields[0], Values: vals})
	return build(cols, t.rows)
}
