package analysis

import (
	"testing"

	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row map[string]any

// card builds a table carrying every column of schema; cells missing from a
// row are null.
func card(t *testing.T, schema *models.Schema, rows ...row) *frame.Table {
	t.Helper()
	cols := make([]frame.Column, len(schema.Fields))
	for i, f := range schema.Fields {
		vals := make([]any, len(rows))
		for r, rw := range rows {
			vals[r] = rw[f.Name]
		}
		cols[i] = frame.Column{Field: f, Values: vals}
	}
	tbl, err := frame.New(cols...)
	require.NoError(t, err)
	return tbl
}

func input(t *testing.T, batting, bowling []row) *Input {
	t.Helper()
	in, err := Ingest(
		card(t, models.BattingCard(), batting...),
		card(t, models.BowlingCard(), bowling...),
		models.BattingCard(), models.BowlingCard(),
	)
	require.NoError(t, err)
	return in
}

func column(t *testing.T, tbl *frame.Table, name string) []any {
	t.Helper()
	vals, err := tbl.Values(name)
	require.NoError(t, err)
	return vals
}

func TestIngestDropsExcludedColumns(t *testing.T) {
	in := input(t, []row{{"match_id": int64(1)}}, []row{{"match_id": int64(1)}})

	for _, name := range []string{"runningScore", "country", "commentary", "link"} {
		assert.False(t, in.Batting.Has(name), name)
		assert.True(t, in.RawBatting.Has(name), name)
	}
	assert.False(t, in.Bowling.Has("href"))
	assert.Len(t, in.Batting.Names(), 21)
	assert.Len(t, in.Bowling.Names(), 23)
}

func TestCityMatchStats(t *testing.T) {
	in := input(t, []row{
		{"season": 2023.0, "city": "Pune", "match_id": int64(1), "current_innings": "CSK", "runs": 10.7, "strikeRate": 100.0},
		{"season": 2023.0, "city": "Pune", "match_id": int64(1), "current_innings": "CSK", "runs": 20.0, "strikeRate": 151.0},
		{"season": 2023.0, "city": "Pune", "match_id": int64(1), "current_innings": "MI", "runs": nil, "strikeRate": nil},
		{"season": 2022.0, "city": "Pune", "match_id": int64(1), "current_innings": "CSK", "runs": 99.0, "strikeRate": 300.0},
		{"season": 2023.0, "city": "Delhi", "match_id": int64(2), "current_innings": "DC", "runs": 4.0, "strikeRate": 50.0},
	}, nil)

	stats, err := CityMatchStats(in.Batting, DefaultSeason)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "match_id", "current_innings", "total_runs", "avg_strike_rate"}, stats.Names())
	require.Equal(t, 3, stats.Len())

	assert.Equal(t, []any{int64(30), nil, int64(4)}, column(t, stats, "total_runs"))

	avg := column(t, stats, "avg_strike_rate")
	assert.True(t, decimal.RequireFromString("125.50").Equal(avg[0].(decimal.Decimal)))
	assert.Nil(t, avg[1])
	assert.True(t, decimal.RequireFromString("50").Equal(avg[2].(decimal.Decimal)))

	f, err := stats.Field("avg_strike_rate")
	require.NoError(t, err)
	assert.Equal(t, models.KindDecimal, f.Type)
	assert.Equal(t, int32(2), f.Scale)

	chart, err := CityMatchChartData(stats, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, chart.Len())
	assert.Equal(t, []any{"CSK", "DC"}, column(t, chart, "current_innings"))
}

func TestCityMatchStatsRunsCast(t *testing.T) {
	in := input(t, []row{
		{"season": 2023.0, "city": "Pune", "match_id": int64(1), "current_innings": "A", "runs": 42.0},
		{"season": 2023.0, "city": "Pune", "match_id": int64(2), "current_innings": "A", "runs": -3.9},
	}, nil)

	stats, err := CityMatchStats(in.Batting, DefaultSeason)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(42), int64(-3)}, column(t, stats, "total_runs"))
}

func TestInningsTotals(t *testing.T) {
	in := input(t, []row{
		{"match_id": int64(1), "match_name": "A v B", "innings_id": 1.0, "runs": 10.0},
		{"match_id": int64(1), "match_name": "A v B", "innings_id": 1.0, "runs": 20.0},
		{"match_id": int64(2), "match_name": "C v D", "innings_id": 1.0, "runs": 7.0},
		{"match_id": int64(1), "match_name": "A v B", "innings_id": 2.0, "runs": 5.5},
	}, nil)

	out, err := InningsTotals(in.Batting)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_id", "match_name", "innings_id", "innings_runs", "total_runs_per_match"}, out.Names())
	require.Equal(t, 3, out.Len())
	assert.Equal(t, []any{int64(2), int64(1), int64(1)}, column(t, out, "match_id"))
	assert.Equal(t, []any{7.0, 30.0, 5.5}, column(t, out, "innings_runs"))

	sums := map[any]float64{}
	for i := 0; i < out.Len(); i++ {
		r := out.Row(i)
		v, _ := r.Float("innings_runs")
		sums[r.Get("match_id")] += v
	}
	for i := 0; i < out.Len(); i++ {
		r := out.Row(i)
		total, ok := r.Float("total_runs_per_match")
		require.True(t, ok)
		assert.Equal(t, sums[r.Get("match_id")], total)
	}
}

func bestFixture(t *testing.T) *Input {
	return input(t,
		[]row{
			{"season": 2023.0, "match_id": int64(1), "match_name": "A v B", "city": "Pune", "fullName": "Late Hitter", "current_innings": "A", "strikeRate": 150.0},
			{"season": 2022.0, "match_id": int64(1), "match_name": "A v B", "city": "Pune", "fullName": "Early Hitter", "current_innings": "A", "strikeRate": 150.0},
			{"season": 2023.0, "match_id": int64(1), "match_name": "A v B", "city": "Pune", "fullName": "Slow", "current_innings": "B", "strikeRate": 80.0},
			{"season": 2023.0, "match_id": int64(2), "match_name": "C v D", "city": "Delhi", "fullName": "Solo", "current_innings": "C", "strikeRate": 120.0},
			{"season": nil, "match_id": int64(3), "match_name": "E v F", "city": "Agra", "fullName": "Nobody", "current_innings": "E", "strikeRate": 500.0},
		},
		[]row{
			{"match_id": int64(1), "fullName": "Pricey", "bowling_team": "B", "economyRate": 6.0},
			{"match_id": int64(1), "fullName": "Frugal", "bowling_team": "B", "economyRate": 5.5},
			{"match_id": int64(1), "fullName": "Unknown", "bowling_team": "B", "economyRate": nil},
		},
	)
}

func TestBestBattersTieBreak(t *testing.T) {
	out, err := BestBatters(bestFixture(t).RawBatting)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{int64(1), int64(2)}, column(t, out, "match_id"))
	assert.Equal(t, []any{int64(2022), int64(2023)}, column(t, out, "season"))
	assert.Equal(t, []any{"Early Hitter", "Solo"}, column(t, out, "fullName"))
}

func TestBestBowlersLowestEconomy(t *testing.T) {
	out, err := BestBowlers(bestFixture(t).Bowling)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Frugal", out.Value(0, "fullName"))
	assert.Equal(t, 5.5, out.Value(0, "economyRate"))
}

func TestBestBowlersTiesKeepInputOrder(t *testing.T) {
	in := input(t, nil, []row{
		{"match_id": int64(4), "fullName": "First", "economyRate": 7.0},
		{"match_id": int64(4), "fullName": "Second", "economyRate": 7.0},
	})
	out, err := BestBowlers(in.Bowling)
	require.NoError(t, err)
	assert.Equal(t, []any{"First"}, column(t, out, "fullName"))
}

func TestBestPerformersIdempotent(t *testing.T) {
	in := bestFixture(t)

	bat, err := BestBatters(in.RawBatting)
	require.NoError(t, err)
	again, err := BestBatters(bat)
	require.NoError(t, err)
	for _, name := range bat.Names() {
		assert.Equal(t, column(t, bat, name), column(t, again, name), name)
	}

	bowl, err := BestBowlers(in.Bowling)
	require.NoError(t, err)
	again, err = BestBowlers(bowl)
	require.NoError(t, err)
	for _, name := range bowl.Names() {
		assert.Equal(t, column(t, bowl, name), column(t, again, name), name)
	}
}

func TestPerformerSummary(t *testing.T) {
	in := bestFixture(t)
	bat, err := BestBatters(in.RawBatting)
	require.NoError(t, err)
	bowl, err := BestBowlers(in.Bowling)
	require.NoError(t, err)

	sum, err := PerformerSummary(bat, bowl)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"year", "match", "city", "batter", "batting_team", "strike_rate",
		"bowler", "bowling team", "economy rate",
	}, sum.Names())
	assert.LessOrEqual(t, sum.Len(), min(bat.Len(), bowl.Len()))
	require.Equal(t, 1, sum.Len(), "match 2 has no bowling rows")
	assert.Equal(t, int64(2022), sum.Value(0, "year"))
	assert.Equal(t, "Early Hitter", sum.Value(0, "batter"))
	assert.Equal(t, "Frugal", sum.Value(0, "bowler"))
	assert.Equal(t, 5.5, sum.Value(0, "economy rate"))
}

func TestPerformerSummaryIdenticalMatches(t *testing.T) {
	bat, err := frame.New(
		frame.Col("season", models.KindInt, int64(2023), int64(2023)),
		frame.Col("match_id", models.KindInt, int64(1), int64(2)),
		frame.Col("match_name", models.KindString, "a", "b"),
		frame.Col("city", models.KindString, "X", "Y"),
		frame.Col("fullName", models.KindString, "p", "q"),
		frame.Col("current_innings", models.KindString, "T1", "T2"),
		frame.Col("strikeRate", models.KindDouble, 100.0, 110.0),
	)
	require.NoError(t, err)
	bowl, err := frame.New(
		frame.Col("match_id", models.KindInt, int64(2), int64(1)),
		frame.Col("fullName", models.KindString, "r", "s"),
		frame.Col("bowling_team", models.KindString, "T3", "T4"),
		frame.Col("economyRate", models.KindDouble, 4.0, 5.0),
	)
	require.NoError(t, err)

	sum, err := PerformerSummary(bat, bowl)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Len())
	assert.Equal(t, []any{"s", "r"}, column(t, sum, "bowler"))
}

func TestPresentationAggregates(t *testing.T) {
	summary, err := frame.New(
		frame.Col("city", models.KindString, "Pune", "Pune", nil, "Delhi"),
		frame.Col("strike_rate", models.KindDouble, 120.0, 180.0, 300.0, nil),
	)
	require.NoError(t, err)
	maxSR, err := CityMaxStrikeRate(summary)
	require.NoError(t, err)
	assert.Equal(t, []any{"Pune", "Delhi"}, column(t, maxSR, "city"))
	assert.Equal(t, []any{180.0, nil}, column(t, maxSR, "max_strike_rate"))

	batters, err := frame.New(
		frame.Col("city", models.KindString, "Pune", "Pune", "Pune", nil),
		frame.Col("fullName", models.KindString, "a", "b", "a", "c"),
		frame.Col("strikeRate", models.KindDouble, 100.0, 200.0, 150.0, 90.0),
	)
	require.NoError(t, err)
	stats, err := CityBatterStats(batters)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Len())
	assert.Equal(t, int64(2), stats.Value(0, "num_batters"))
	assert.Equal(t, 150.0, stats.Value(0, "avg_strike_rate"))
}

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(bestFixture(t), DefaultSeason, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, 1, res.Summary.Len())
	assert.Equal(t, int64(2022), res.Summary.Value(0, "year"))
	assert.Equal(t, 5.5, res.Summary.Value(0, "economy rate"))
	assert.NotContains(t, column(t, res.Summary, "batter"), "Solo")

	assert.Equal(t, []any{150.0}, column(t, res.CityMaxSR, "max_strike_rate"))
	assert.Equal(t, []any{"Pune", "Delhi"}, column(t, res.CityBatters, "city"))

	assert.Equal(t, TableNames, func() []string {
		var names []string
		for _, n := range res.Tables() {
			names = append(names, n.Name)
		}
		return names
	}())
	n, ok := res.Lookup("summary")
	require.True(t, ok)
	assert.Same(t, res.Summary, n.Table)
	_, ok = res.Lookup("nope")
	assert.False(t, ok)
}
