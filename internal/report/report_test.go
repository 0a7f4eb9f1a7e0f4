package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func results(t *testing.T) *analysis.Results {
	t.Helper()
	stats, err := frame.New(
		frame.Col("city", models.KindString, "Pune", "Pune", "Delhi"),
		frame.Col("match_id", models.KindInt, int64(1), int64(1), int64(2)),
		frame.Col("current_innings", models.KindString, "CSK", "MI", "DC"),
		frame.Col("total_runs", models.KindInt, int64(180), int64(170), int64(150)),
		frame.Column{
			Field:  models.FieldConfig{Name: "avg_strike_rate", Type: models.KindDecimal, Precision: 10, Scale: 2},
			Values: []any{decimal.RequireFromString("140.5"), decimal.RequireFromString("120"), nil},
		},
	)
	require.NoError(t, err)
	maxSR, err := frame.New(
		frame.Col("city", models.KindString, "Pune", "Delhi"),
		frame.Col("max_strike_rate", models.KindDouble, 210.0, 180.0),
	)
	require.NoError(t, err)
	batters, err := frame.New(
		frame.Col("city", models.KindString, "Pune", "Delhi"),
		frame.Col("num_batters", models.KindInt, int64(3), int64(1)),
		frame.Col("avg_strike_rate", models.KindDouble, 150.0, 99.5),
	)
	require.NoError(t, err)
	return &analysis.Results{
		Season:      2023,
		CityStats:   stats,
		CityChart:   stats.DropNulls(),
		CityMaxSR:   maxSR,
		CityBatters: batters,
	}
}

func TestConsoleRender(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 2)

	require.NoError(t, c.Render(context.Background(), results(t)))
	out := buf.String()
	assert.Contains(t, out, "(city-stats)")
	assert.Contains(t, out, "Number of rows: 3")
	assert.Contains(t, out, "only showing top 2 rows")
	assert.Contains(t, out, "140.50")
	assert.Contains(t, out, "(city-batters)")
	assert.NotContains(t, out, "(summary)", "tables not produced are skipped")
}

func TestConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 0)
	c.Only = []string{"city-max-sr"}

	require.NoError(t, c.Render(context.Background(), results(t)))
	out := buf.String()
	assert.Contains(t, out, "(city-max-sr)")
	assert.NotContains(t, out, "(city-stats)")
	assert.NotContains(t, out, "Number of rows")
}

func TestWorkbookRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, NewWorkbook(path, nil).Render(context.Background(), results(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"city-stats", "city-max-sr", "city-batters", "charts"}, f.GetSheetList())

	v, err := f.GetCellValue("city-stats", "E2")
	require.NoError(t, err)
	assert.Equal(t, "140.5", v)
	v, err = f.GetCellValue("city-stats", "E4")
	require.NoError(t, err)
	assert.Empty(t, v)

	rows, err := f.GetRows("charts")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"total_runs", "CSK", "MI"}, rows[0])
	assert.Equal(t, []string{"Pune", "180", "170"}, rows[1])
}

func TestPivotMean(t *testing.T) {
	tbl, err := frame.New(
		frame.Col("city", models.KindString, "A", "A", "B", nil),
		frame.Col("team", models.KindString, "x", "x", "y", "x"),
		frame.Col("v", models.KindInt, int64(10), int64(20), int64(5), int64(99)),
	)
	require.NoError(t, err)

	p := pivotMean(tbl, "city", "team", "v")
	assert.Equal(t, []string{"A", "B"}, p.rows)
	assert.Equal(t, []string{"x", "y"}, p.cols)
	assert.Equal(t, [][]interface{}{{15.0, nil}, {nil, 5.0}}, p.values)
}
