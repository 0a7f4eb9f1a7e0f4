package analysis

import (
	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
)

// DefaultSeason is the season the city/match statistics are computed for.
const DefaultSeason = 2023

var strikeRateDecimal = models.FieldConfig{Type: models.KindDecimal, Precision: 10, Scale: 2}

// CityMatchStats totals runs and averages strike rate per city, match and
// batting team for one season.
func CityMatchStats(batting *frame.Table, season int) (*frame.Table, error) {
	return batting.
		CastKind("runs", models.KindInt).
		Filter(frame.Eq("season", season)).
		GroupBy("city", "match_id", "current_innings").
		Agg(
			frame.Sum("runs").As("total_runs"),
			frame.Avg("strikeRate").As("avg_strike_rate"),
		).
		Cast("avg_strike_rate", strikeRateDecimal).
		Result()
}

// CityMatchChartData reports per-column null counts of the city statistics
// and returns them without any row holding a null.
func CityMatchChartData(stats *frame.Table, log *zap.Logger) (*frame.Table, error) {
	for _, nc := range stats.NullCounts() {
		if nc.Nulls > 0 {
			log.Info("null cells in city statistics",
				zap.String("column", nc.Column),
				zap.Int("nulls", nc.Nulls))
		}
	}
	return stats.DropNulls().Result()
}

// InningsTotals sums runs per innings and broadcasts the match total onto
// each innings row. Rows are ordered by match_id descending.
func InningsTotals(batting *frame.Table) (*frame.Table, error) {
	return batting.
		GroupBy("match_id", "match_name", "innings_id").
		Agg(frame.Sum("runs").As("innings_runs")).
		WithWindow(frame.Sum("innings_runs").As("total_runs_per_match"), "match_id").
		OrderBy(frame.Desc("match_id")).
		Result()
}

// BestBatters keeps, per match, the batting row with the highest strike
// rate. Equal strike rates go to the earlier season.
func BestBatters(batting *frame.Table) (*frame.Table, error) {
	return batting.
		Select("season", "match_id", "match_name", "city", "fullName", "current_innings", "strikeRate").
		CastKind("season", models.KindInt).
		DropNulls("season").
		OrderBy(frame.Asc("match_id"), frame.Desc("strikeRate"), frame.Asc("season")).
		DropDuplicates("match_id").
		Result()
}

// BestBowlers keeps, per match, the bowling row with the lowest economy
// rate. Equal rates keep input order; rows without a rate rank last.
func BestBowlers(bowling *frame.Table) (*frame.Table, error) {
	return bowling.
		Select("match_id", "fullName", "bowling_team", "economyRate").
		OrderBy(frame.Asc("match_id"), frame.Asc("economyRate").NullsLast()).
		DropDuplicates("match_id").
		Result()
}

// PerformerSummary pairs the best batter and best bowler of every match
// present on both sides.
func PerformerSummary(batters, bowlers *frame.Table) (*frame.Table, error) {
	bat := batters.Rename(
		"season", "year",
		"match_name", "match",
		"fullName", "batter",
		"current_innings", "batting_team",
		"strikeRate", "strike_rate",
	)
	bowl := bowlers.Rename(
		"fullName", "bowler",
		"bowling_team", "bowling team",
		"economyRate", "economy rate",
	)
	return bat.InnerJoin(bowl, "match_id").Drop("match_id").Result()
}

// CityMaxStrikeRate is the highest best-batter strike rate per city.
func CityMaxStrikeRate(summary *frame.Table) (*frame.Table, error) {
	return summary.
		GroupBy("city").
		Agg(frame.Max("strike_rate").As("max_strike_rate")).
		DropNulls("city").
		Result()
}

// CityBatterStats counts distinct best batters per city and averages their
// strike rate.
func CityBatterStats(batters *frame.Table) (*frame.Table, error) {
	return batters.
		GroupBy("city").
		Agg(
			frame.CountDistinct("fullName").As("num_batters"),
			frame.Avg("strikeRate").As("avg_strike_rate"),
		).
		DropNulls("city").
		CastKind("avg_strike_rate", models.KindDouble).
		Result()
}
