package frame

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
)

const maxCellWidth = 20

// Show writes up to limit rows as a boxed text table. A limit <= 0 writes
// every row. Cells longer than 20 characters are truncated when truncate is
// set.
func (t *Table) Show(w io.Writer, limit int, truncate bool) error {
	if t.err != nil {
		return t.err
	}
	n := t.rows
	if limit > 0 && limit < n {
		n = limit
	}
	cells := make([][]string, n+1)
	cells[0] = t.Names()
	for r := 0; r < n; r++ {
		row := make([]string, len(t.cols))
		for c, col := range t.cols {
			row[c] = FormatCell(col.Field, col.Values[r])
		}
		cells[r+1] = row
	}
	widths := make([]int, len(t.cols))
	for _, row := range cells {
		for c, s := range row {
			if truncate && utf8.RuneCountInString(s) > maxCellWidth {
				s = string([]rune(s)[:maxCellWidth-3]) + "..."
				row[c] = s
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(s))
		}
	}

	var b strings.Builder
	sep := separator(widths)
	b.WriteString(sep)
	writeRow(&b, cells[0], widths)
	b.WriteString(sep)
	for _, row := range cells[1:] {
		writeRow(&b, row, widths)
	}
	b.WriteString(sep)
	if n < t.rows {
		fmt.Fprintf(&b, "only showing top %d rows\n", n)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	b.WriteByte('|')
	for c, s := range row {
		b.WriteString(strings.Repeat(" ", widths[c]-utf8.RuneCountInString(s)))
		b.WriteString(s)
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}

// FormatCell renders one cell for display. Decimals keep their declared
// scale.
func FormatCell(f models.FieldConfig, v any) string {
	if d, ok := v.(decimal.Decimal); ok && f.Type == models.KindDecimal {
		return d.StringFixed(f.Scale)
	}
	return stringify(v)
}
