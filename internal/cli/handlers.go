package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BartekS5/ipla/internal/config"
	"github.com/BartekS5/ipla/internal/etl"
	"github.com/BartekS5/ipla/internal/report"
	"github.com/BartekS5/ipla/pkg/database"
	"github.com/BartekS5/ipla/pkg/logger"
	"github.com/BartekS5/ipla/pkg/metrics"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func runAnalysis(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.L()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conns := &connections{log: log}
	defer conns.close()

	batting, err := conns.extractor(ctx, cfg, cfg.BattingKind, cfg.BattingPath)
	if err != nil {
		return err
	}
	bowling, err := conns.extractor(ctx, cfg, cfg.BowlingKind, cfg.BowlingPath)
	if err != nil {
		return err
	}

	rec := metrics.New()
	session := etl.NewSession(log, rec, batting, bowling)
	session.Season = cfg.Season

	console := report.NewConsole(cmd.OutOrStdout(), cfg.Limit)
	console.Only = opts.Only
	renderers := []etl.Renderer{console}
	if cfg.ReportPath != "" {
		renderers = append(renderers, report.NewWorkbook(cfg.ReportPath, log))
	}

	_, runErr := etl.NewPipeline(session, opts.DryRun, renderers...).Run(ctx)
	exportMetrics(cfg, rec, session.RunID)
	return runErr
}

// loadConfig layers command line flags over the loaded configuration.
func loadConfig(cmd *cobra.Command, opts *AnalyzeOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("season") {
		cfg.Season = opts.Season
	}
	if flags.Changed("batting") {
		cfg.BattingPath = opts.Batting
	}
	if flags.Changed("bowling") {
		cfg.BowlingPath = opts.Bowling
	}
	if flags.Changed("limit") {
		cfg.Limit = opts.Limit
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	if flags.Lookup("report") != nil && flags.Changed("report") {
		cfg.ReportPath = opts.Report
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func exportMetrics(cfg *config.Config, rec *metrics.Recorder, runID string) {
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warnf("metrics not written: %v", err)
		}
	}
	if cfg.MetricsPushURL != "" {
		if err := rec.Push(cfg.MetricsPushURL, cfg.MetricsJob, runID); err != nil {
			logger.Warnf("metrics not pushed: %v", err)
		}
	}
}

// connections opens each database at most once and closes them together.
type connections struct {
	log   *zap.Logger
	db    *sql.DB
	mongo *mongo.Client
}

func (c *connections) extractor(ctx context.Context, cfg *config.Config, kind, path string) (etl.Extractor, error) {
	switch kind {
	case config.KindCSV:
		return &etl.CSVExtractor{Path: path, Comma: cfg.Delimiter(), Log: c.log}, nil
	case config.KindSQLServer:
		if c.db == nil {
			db, err := database.ConnectSQL(ctx, cfg.SQLConnString, c.log)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", etl.ErrSourceUnavailable, err)
			}
			c.db = db
		}
		return &etl.SQLExtractor{DB: c.db, Table: path, OrderBy: cfg.SQLOrderBy, Log: c.log}, nil
	case config.KindMongo:
		if c.mongo == nil {
			client, err := database.ConnectMongo(ctx, cfg.MongoConnString, c.log)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", etl.ErrSourceUnavailable, err)
			}
			c.mongo = client
		}
		return &etl.MongoExtractor{Client: c.mongo, Database: cfg.MongoDatabase, Collection: path, Log: c.log}, nil
	}
	return nil, fmt.Errorf("%w: unknown source kind %q", config.ErrInvalidConfig, kind)
}

func (c *connections) close() {
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.mongo != nil {
		_ = c.mongo.Disconnect(context.Background())
	}
}
