package etl

import (
	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/metrics"
	"github.com/BartekS5/ipla/pkg/models"
	"github.com/BartekS5/ipla/pkg/utils"
	"go.uber.org/zap"
)

// maxCellWarnings bounds per-table debug logging of failed coercions.
const maxCellWarnings = 20

// Transformer applies a schema to a raw batch (schema-on-read).
type Transformer struct {
	Schema  *models.Schema
	Log     *zap.Logger
	Metrics *metrics.Recorder
}

func NewTransformer(schema *models.Schema, log *zap.Logger, rec *metrics.Recorder) *Transformer {
	if rec == nil {
		rec = metrics.New()
	}
	return &Transformer{Schema: schema, Log: orNop(log), Metrics: rec}
}

// Transform coerces every cell to its declared kind. Cells that do not
// coerce become null and are counted.
func (t *Transformer) Transform(batch *RawBatch) (*frame.Table, error) {
	entity := t.Schema.Entity
	cols := make([]frame.Column, len(t.Schema.Fields))
	for i, f := range t.Schema.Fields {
		cols[i] = frame.Column{Field: f, Values: make([]any, len(batch.Rows))}
	}

	nulled := 0
	for r, raw := range batch.Rows {
		for i, f := range t.Schema.Fields {
			var cell interface{}
			if i < len(raw) {
				cell = raw[i]
			}
			v, err := utils.Coerce(cell, f)
			if err != nil {
				nulled++
				t.Metrics.IncCellsNulled(entity)
				if nulled <= maxCellWarnings {
					t.Log.Debug("cell read as null",
						zap.String("table", entity),
						zap.Int("row", r),
						zap.String("column", f.Name),
						zap.Error(err))
				}
				v = nil
			}
			cols[i].Values[r] = v
		}
	}

	for i := 0; i < batch.Malformed; i++ {
		t.Metrics.IncRowsMalformed(entity)
	}
	t.Metrics.AddRowsRead(entity, len(batch.Rows))
	if nulled > 0 || batch.Malformed > 0 {
		t.Log.Warn("data quality issues while reading table",
			zap.String("table", entity),
			zap.String("source", batch.Source),
			zap.Int("cells_nulled", nulled),
			zap.Int("rows_malformed", batch.Malformed))
	}
	return frame.New(cols...)
}
