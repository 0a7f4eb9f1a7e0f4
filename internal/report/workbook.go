package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/internal/frame"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const chartSheet = "charts"

// Workbook writes every derived table to its own sheet of an xlsx file and
// adds a sheet of charts built from the city level tables.
type Workbook struct {
	Path string
	Log  *zap.Logger
}

func NewWorkbook(path string, log *zap.Logger) *Workbook {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workbook{Path: path, Log: log}
}

func (w *Workbook) Render(ctx context.Context, res *analysis.Results) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, n := range res.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if first {
			if err := f.SetSheetName("Sheet1", n.Name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(n.Name); err != nil {
			return err
		}
		if err := writeTable(f, n.Name, n.Table); err != nil {
			return fmt.Errorf("sheet %s: %w", n.Name, err)
		}
	}

	if err := w.addCharts(f, res); err != nil {
		return fmt.Errorf("charts: %w", err)
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.Path, err)
	}
	w.Log.Info("workbook written", zap.String("path", w.Path), zap.Int("sheets", f.SheetCount))
	return nil
}

// writeTable writes a header row followed by one row per table row. Nulls
// are left as empty cells.
func writeTable(f *excelize.File, sheet string, t *frame.Table) error {
	names := t.Names()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r := 0; r < t.Len(); r++ {
		row := make([]interface{}, len(names))
		for c, n := range names {
			row[c] = cellValue(t.Value(r, n))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(v any) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}

// pivot is a city by batting team grid of mean values.
type pivot struct {
	rows   []string
	cols   []string
	values [][]interface{}
}

// pivotMean averages value over every (row, col) pair. Rows keep first
// occurrence order, columns are sorted.
func pivotMean(t *frame.Table, rowKey, colKey, value string) pivot {
	type cell struct {
		sum float64
		n   int
	}
	var p pivot
	rowIdx := map[string]int{}
	colSet := map[string]struct{}{}
	acc := map[[2]string]*cell{}
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		rk, ok1 := r.String(rowKey)
		ck, ok2 := r.String(colKey)
		v, ok3 := r.Float(value)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if _, seen := rowIdx[rk]; !seen {
			rowIdx[rk] = len(p.rows)
			p.rows = append(p.rows, rk)
		}
		colSet[ck] = struct{}{}
		k := [2]string{rk, ck}
		if acc[k] == nil {
			acc[k] = &cell{}
		}
		acc[k].sum += v
		acc[k].n++
	}
	for c := range colSet {
		p.cols = append(p.cols, c)
	}
	sort.Strings(p.cols)
	p.values = make([][]interface{}, len(p.rows))
	for ri, rk := range p.rows {
		p.values[ri] = make([]interface{}, len(p.cols))
		for ci, ck := range p.cols {
			if c := acc[[2]string{rk, ck}]; c != nil {
				p.values[ri][ci] = c.sum / float64(c.n)
			}
		}
	}
	return p
}

// writePivot writes p with its top left corner at (col, row) and returns the
// chart series, one per pivot column.
func writePivot(f *excelize.File, p pivot, title string, col, row int) ([]excelize.ChartSeries, error) {
	head := make([]interface{}, len(p.cols)+1)
	head[0] = title
	for i, c := range p.cols {
		head[i+1] = c
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if err := f.SetSheetRow(chartSheet, cell, &head); err != nil {
		return nil, err
	}
	for ri, rk := range p.rows {
		line := append([]interface{}{rk}, p.values[ri]...)
		cell, _ := excelize.CoordinatesToCellName(col, row+ri+1)
		if err := f.SetSheetRow(chartSheet, cell, &line); err != nil {
			return nil, err
		}
	}
	if len(p.rows) == 0 {
		return nil, nil
	}
	categories := rangeRef(chartSheet, col, row+1, col, row+len(p.rows))
	series := make([]excelize.ChartSeries, len(p.cols))
	for ci := range p.cols {
		series[ci] = excelize.ChartSeries{
			Name:       cellRef(chartSheet, col+ci+1, row),
			Categories: categories,
			Values:     rangeRef(chartSheet, col+ci+1, row+1, col+ci+1, row+len(p.rows)),
		}
	}
	return series, nil
}

func (w *Workbook) addCharts(f *excelize.File, res *analysis.Results) error {
	if _, err := f.NewSheet(chartSheet); err != nil {
		return err
	}
	size := excelize.ChartDimension{Width: 720, Height: 360}
	legend := excelize.ChartLegend{Position: "bottom"}
	anchorRow := 1

	if res.CityChart != nil {
		runs, err := writePivot(f, pivotMean(res.CityChart, "city", "current_innings", "total_runs"), "total_runs", 1, 1)
		if err != nil {
			return err
		}
		sr, err := writePivot(f, pivotMean(res.CityChart, "city", "current_innings", "avg_strike_rate"), "avg_strike_rate", 1, 2+pivotHeight(res.CityChart))
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			if err := f.AddChart(chartSheet, anchor(anchorRow), &excelize.Chart{
				Type:      excelize.Col,
				Series:    runs,
				Title:     []excelize.RichTextRun{{Text: fmt.Sprintf("Total runs per city and team, %d", res.Season)}},
				Legend:    legend,
				Dimension: size,
			}); err != nil {
				return err
			}
			anchorRow += 20
		}
		if len(sr) > 0 {
			if err := f.AddChart(chartSheet, anchor(anchorRow), &excelize.Chart{
				Type:      excelize.Col,
				Series:    sr,
				Title:     []excelize.RichTextRun{{Text: fmt.Sprintf("Average strike rate per city and team, %d", res.Season)}},
				Legend:    legend,
				Dimension: size,
			}); err != nil {
				return err
			}
			anchorRow += 20
		}
	}

	if t := res.CityMaxSR; t != nil && t.Len() > 0 {
		sheet := "city-max-sr"
		if err := f.AddChart(chartSheet, anchor(anchorRow), &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       cellRef(sheet, 2, 1),
				Categories: rangeRef(sheet, 1, 2, 1, t.Len()+1),
				Values:     rangeRef(sheet, 2, 2, 2, t.Len()+1),
			}},
			Title:     []excelize.RichTextRun{{Text: "Highest strike rate per city"}},
			Legend:    excelize.ChartLegend{Position: "none"},
			Dimension: size,
		}); err != nil {
			return err
		}
		anchorRow += 20
	}

	if t := res.CityBatters; t != nil && t.Len() > 0 {
		sheet := "city-batters"
		categories := rangeRef(sheet, 1, 2, 1, t.Len()+1)
		if err := f.AddChart(chartSheet, anchor(anchorRow), &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       cellRef(sheet, 2, 1),
				Categories: categories,
				Values:     rangeRef(sheet, 2, 2, 2, t.Len()+1),
			}},
			Title:     []excelize.RichTextRun{{Text: "Best batters and their average strike rate per city"}},
			Legend:    legend,
			Dimension: size,
		}, &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       cellRef(sheet, 3, 1),
				Categories: categories,
				Values:     rangeRef(sheet, 3, 2, 3, t.Len()+1),
				Marker:     excelize.ChartMarker{Symbol: "circle"},
			}},
			YAxis: excelize.ChartAxis{Secondary: true},
		}); err != nil {
			return err
		}
	}
	return nil
}

// pivotHeight bounds the rows the first pivot can take: one per distinct
// city plus its header.
func pivotHeight(t *frame.Table) int {
	seen := map[string]struct{}{}
	for i := 0; i < t.Len(); i++ {
		if s, ok := t.Row(i).String("city"); ok {
			seen[s] = struct{}{}
		}
	}
	return len(seen) + 1
}

func anchor(row int) string {
	cell, _ := excelize.CoordinatesToCellName(12, row)
	return cell
}

func cellRef(sheet string, col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row, true)
	return fmt.Sprintf("'%s'!%s", sheet, cell)
}

func rangeRef(sheet string, c1, r1, c2, r2 int) string {
	from, _ := excelize.CoordinatesToCellName(c1, r1, true)
	to, _ := excelize.CoordinatesToCellName(c2, r2, true)
	return fmt.Sprintf("'%s'!%s:%s", sheet, from, to)
}
