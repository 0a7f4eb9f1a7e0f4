package analysis

import (
	"github.com/BartekS5/ipla/internal/frame"
	"go.uber.org/zap"
)

// Results holds every derived table of one run.
type Results struct {
	Season      int
	CityStats   *frame.Table
	CityChart   *frame.Table
	Innings     *frame.Table
	BestBatters *frame.Table
	BestBowlers *frame.Table
	Summary     *frame.Table
	CityMaxSR   *frame.Table
	CityBatters *frame.Table
}

// Named is a derived table with the name it is addressed by on the command
// line.
type Named struct {
	Name  string
	Title string
	Table *frame.Table
}

// TableNames lists the addressable tables in presentation order.
var TableNames = []string{
	"city-stats",
	"innings",
	"best-batters",
	"best-bowlers",
	"summary",
	"city-max-sr",
	"city-batters",
}

// Tables returns the addressable tables in presentation order. Tables a
// partial run did not produce are skipped.
func (r *Results) Tables() []Named {
	all := []Named{
		{"city-stats", "Runs and strike rate per city, match and team", r.CityStats},
		{"innings", "Runs per innings and match", r.Innings},
		{"best-batters", "Best batter per match", r.BestBatters},
		{"best-bowlers", "Best bowler per match", r.BestBowlers},
		{"summary", "Best performers per match", r.Summary},
		{"city-max-sr", "Highest strike rate per city", r.CityMaxSR},
		{"city-batters", "Best batters per city", r.CityBatters},
	}
	out := all[:0]
	for _, n := range all {
		if n.Table != nil {
			out = append(out, n)
		}
	}
	return out
}

// Lookup finds an addressable table by name.
func (r *Results) Lookup(name string) (Named, bool) {
	for _, n := range r.Tables() {
		if n.Name == name {
			return n, true
		}
	}
	return Named{}, false
}

// Stage is one step of the analysis. Run stores its table on res and
// returns it.
type Stage struct {
	Name string
	Run  func(in *Input, res *Results) (*frame.Table, error)
}

// Stages returns the analysis steps in execution order. Later steps read
// tables stored by earlier ones.
func Stages(season int, log *zap.Logger) []Stage {
	if log == nil {
		log = zap.NewNop()
	}
	return []Stage{
		{"city_match_stats", func(in *Input, res *Results) (*frame.Table, error) {
			res.Season = season
			t, err := CityMatchStats(in.Batting, season)
			res.CityStats = t
			return t, err
		}},
		{"city_chart_data", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := CityMatchChartData(res.CityStats, log)
			res.CityChart = t
			return t, err
		}},
		{"innings_totals", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := InningsTotals(in.Batting)
			res.Innings = t
			return t, err
		}},
		{"best_batters", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := BestBatters(in.RawBatting)
			res.BestBatters = t
			return t, err
		}},
		{"best_bowlers", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := BestBowlers(in.Bowling)
			res.BestBowlers = t
			return t, err
		}},
		{"performer_summary", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := PerformerSummary(res.BestBatters, res.BestBowlers)
			res.Summary = t
			return t, err
		}},
		{"city_max_strike_rate", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := CityMaxStrikeRate(res.Summary)
			res.CityMaxSR = t
			return t, err
		}},
		{"city_batter_stats", func(in *Input, res *Results) (*frame.Table, error) {
			t, err := CityBatterStats(res.BestBatters)
			res.CityBatters = t
			return t, err
		}},
	}
}

// Run executes every stage in order.
func Run(in *Input, season int, log *zap.Logger) (*Results, error) {
	res := &Results{}
	for _, st := range Stages(season, log) {
		if _, err := st.Run(in, res); err != nil {
			return res, err
		}
	}
	return res, nil
}
