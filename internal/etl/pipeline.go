package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Pipeline struct {
	Session   *Session
	Renderers []Renderer
	DryRun    bool
}

func NewPipeline(s *Session, dryRun bool, renderers ...Renderer) *Pipeline {
	return &Pipeline{
		Session:   s,
		Renderers: renderers,
		DryRun:    dryRun,
	}
}

// Run reads both sources, executes every analysis stage in order and hands
// the results to the renderers. Tables produced before a failing stage are
// returned along with the error.
func (p *Pipeline) Run(ctx context.Context) (*analysis.Results, error) {
	s := p.Session
	log := s.Log
	log.Info("starting pipeline",
		zap.String("batting", s.Batting.Name()),
		zap.String("bowling", s.Bowling.Name()),
		zap.Int("season", s.Season),
		zap.Bool("dry_run", p.DryRun))
	startTime := time.Now()

	in, err := p.Ingest(ctx)
	if err != nil {
		log.Error("ingestion failed", zap.Error(err))
		return nil, err
	}

	res := &analysis.Results{}
	for _, st := range analysis.Stages(s.Season, log.Named("analysis")) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		began := time.Now()
		out, err := st.Run(in, res)
		if err != nil {
			log.Error("stage failed", zap.String("stage", st.Name), zap.Error(err))
			return res, fmt.Errorf("stage %s: %w", st.Name, err)
		}
		took := time.Since(began)
		s.Metrics.ObserveStage(st.Name, out.Len(), took)
		log.Info("stage done",
			zap.String("stage", st.Name),
			zap.Int("rows", out.Len()),
			zap.Duration("took", took))
	}

	if p.DryRun {
		log.Info("[DRY RUN] skipping renderers", zap.Int("renderers", len(p.Renderers)))
	} else {
		for _, r := range p.Renderers {
			if err := r.Render(ctx, res); err != nil {
				log.Error("rendering failed", zap.Error(err))
				return res, fmt.Errorf("render: %w", err)
			}
		}
	}

	log.Info("pipeline finished", zap.Duration("took", time.Since(startTime)))
	return res, nil
}

// Ingest reads both sources concurrently and applies their schemas.
func (p *Pipeline) Ingest(ctx context.Context) (*analysis.Input, error) {
	s := p.Session
	began := time.Now()

	var batting, bowling *frame.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := p.read(gctx, s.Batting, s.BattingSchema)
		batting = t
		return err
	})
	g.Go(func() error {
		t, err := p.read(gctx, s.Bowling, s.BowlingSchema)
		bowling = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in, err := analysis.Ingest(batting, bowling, s.BattingSchema, s.BowlingSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	took := time.Since(began)
	s.Metrics.ObserveStage("ingest", in.Batting.Len()+in.Bowling.Len(), took)
	s.Log.Info("sources read",
		zap.Int("batting_rows", in.Batting.Len()),
		zap.Int("bowling_rows", in.Bowling.Len()),
		zap.Duration("took", took))
	return in, nil
}

func (p *Pipeline) read(ctx context.Context, ext Extractor, schema *models.Schema) (*frame.Table, error) {
	s := p.Session
	batch, err := ext.Extract(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema.Entity, err)
	}
	return NewTransformer(schema, s.Log, s.Metrics).Transform(batch)
}
