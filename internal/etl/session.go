package etl

import (
	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/pkg/metrics"
	"github.com/BartekS5/ipla/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session carries everything one run needs. Stages receive it explicitly;
// nothing is read from package state.
type Session struct {
	RunID         string
	Log           *zap.Logger
	Metrics       *metrics.Recorder
	Batting       Extractor
	Bowling       Extractor
	BattingSchema *models.Schema
	BowlingSchema *models.Schema
	Season        int
}

func NewSession(log *zap.Logger, rec *metrics.Recorder, batting, bowling Extractor) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.New()
	}
	id := uuid.NewString()
	return &Session{
		RunID:         id,
		Log:           log.With(zap.String("run_id", id)),
		Metrics:       rec,
		Batting:       batting,
		Bowling:       bowling,
		BattingSchema: models.BattingCard(),
		BowlingSchema: models.BowlingCard(),
		Season:        analysis.DefaultSeason,
	}
}
