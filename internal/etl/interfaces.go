package etl

import (
	"context"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
)

// RawBatch is a source table before coercion. Rows are positional and
// aligned with the schema the batch was extracted for.
type RawBatch struct {
	Source    string
	Header    []string
	Rows      [][]interface{}
	Malformed int
}

// Extractor reads one whole table from a storage location.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, schema *models.Schema) (*RawBatch, error)
}

// Renderer consumes the finished tables. Renderers are sinks: nothing they
// do feeds back into the pipeline.
type Renderer interface {
	Render(ctx context.Context, res *analysis.Results) error
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
