// Package config holds the run configuration: where the two score cards are
// read from, which season is analysed and where results go.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/internal/report"
)

// Source kinds.
const (
	KindCSV       = "csv"
	KindSQLServer = "sqlserver"
	KindMongo     = "mongo"
)

// Config holds all configuration for one run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFile additionally receives every log line when set.
	LogFile string `koanf:"log_file"`

	// BattingKind and BowlingKind select the source type; BattingPath and
	// BowlingPath are a file path, a table name or a collection name
	// accordingly.
	BattingKind string `koanf:"batting_kind"`
	BattingPath string `koanf:"batting_path"`
	BowlingKind string `koanf:"bowling_kind"`
	BowlingPath string `koanf:"bowling_path"`

	// CSVDelimiter is a single character.
	CSVDelimiter string `koanf:"csv_delimiter"`

	SQLConnString string `koanf:"sql_conn"`
	// SQLOrderBy fixes the row order of SQL sources.
	SQLOrderBy string `koanf:"sql_order_by"`

	MongoConnString string `koanf:"mongo_conn"`
	MongoDatabase   string `koanf:"mongo_database"`

	Season int `koanf:"season"`

	// ReportPath is the xlsx file written after a run; empty skips it.
	ReportPath string `koanf:"report_path"`
	// Limit is the number of rows printed per table.
	Limit int `koanf:"limit"`

	MetricsFile    string `koanf:"metrics_file"`
	MetricsPushURL string `koanf:"metrics_push_url"`
	MetricsJob     string `koanf:"metrics_job"`
}

// New returns the defaults. The connection strings fall back to the
// SQL_CONNECTION_STRING and MONGO_CONNECTION_STRING variables.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		BattingKind:     KindCSV,
		BattingPath:     "data/batting_card.csv",
		BowlingKind:     KindCSV,
		BowlingPath:     "data/bowling_card.csv",
		CSVDelimiter:    ",",
		SQLConnString:   os.Getenv("SQL_CONNECTION_STRING"),
		MongoConnString: os.Getenv("MONGO_CONNECTION_STRING"),
		MongoDatabase:   "ipl",
		Season:          analysis.DefaultSeason,
		Limit:           report.DefaultLimit,
		MetricsJob:      "ipla",
	}
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	for _, s := range []struct{ name, kind, path string }{
		{"batting", c.BattingKind, c.BattingPath},
		{"bowling", c.BowlingKind, c.BowlingPath},
	} {
		switch s.kind {
		case KindCSV:
		case KindSQLServer:
			if c.SQLConnString == "" {
				return fmt.Errorf("%w: %s source is sqlserver but sql_conn is empty", ErrInvalidConfig, s.name)
			}
		case KindMongo:
			if c.MongoConnString == "" || c.MongoDatabase == "" {
				return fmt.Errorf("%w: %s source is mongo but mongo_conn or mongo_database is empty", ErrInvalidConfig, s.name)
			}
		default:
			return fmt.Errorf("%w: unknown %s source kind %q", ErrInvalidConfig, s.name, s.kind)
		}
		if strings.TrimSpace(s.path) == "" {
			return fmt.Errorf("%w: %s_path must not be empty", ErrInvalidConfig, s.name)
		}
	}
	if len([]rune(c.CSVDelimiter)) != 1 {
		return fmt.Errorf("%w: csv_delimiter must be one character, got %q", ErrInvalidConfig, c.CSVDelimiter)
	}
	if c.Season <= 0 {
		return fmt.Errorf("%w: season must be positive", ErrInvalidConfig)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Delimiter is the CSV field separator.
func (c *Config) Delimiter() rune {
	return []rune(c.CSVDelimiter)[0]
}
