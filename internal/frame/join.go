package frame

import "fmt"

// InnerJoin pairs every row of t with every row of right holding an equal,
// non-null value in column on. The output keeps t's columns (including on)
// followed by right's columns except on; any other shared name is an error,
// so callers must rename or drop before joining. Output follows t's row
// order, then right's.
func (t *Table) InnerJoin(right *Table, on string) *Table {
	if t.err != nil {
		return t
	}
	if right.err != nil {
		return right
	}
	li, ok := t.index[on]
	if !ok {
		return failed(fmt.Errorf("join: left %w: %q", ErrColumnNotFound, on))
	}
	ri, ok := right.index[on]
	if !ok {
		return failed(fmt.Errorf("join: right %w: %q", ErrColumnNotFound, on))
	}
	for _, c := range right.cols {
		if c.Field.Name != on && t.Has(c.Field.Name) {
			return failed(fmt.Errorf("join: %w: %q on both sides", ErrColumnExists, c.Field.Name))
		}
	}

	keys := newKeyIndex(right.rows)
	var byKey [][]int
	var buf []byte
	for r := 0; r < right.rows; r++ {
		v := right.cols[ri].Values[r]
		if v == nil {
			continue
		}
		buf = appendKey(buf[:0], v)
		id, fresh := keys.id(buf)
		if fresh {
			byKey = append(byKey, nil)
		}
		byKey[id] = append(byKey[id], r)
	}

	var leftRows, rightRows []int
	for l := 0; l < t.rows; l++ {
		v := t.cols[li].Values[l]
		if v == nil {
			continue
		}
		buf = appendKey(buf[:0], v)
		id, found := keys.lookup(buf)
		if !found {
			continue
		}
		for _, r := range byKey[id] {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, r)
		}
	}

	lt, rt := t.take(leftRows), right.take(rightRows)
	cols := append([]Column(nil), lt.cols...)
	for _, c := range rt.cols {
		if c.Field.Name != on {
			cols = append(cols, c)
		}
	}
	return build(cols, len(leftRows))
}
