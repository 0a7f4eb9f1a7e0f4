package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 4096

// CSVExtractor reads a delimited file with a header row. Columns are bound
// to the schema by position.
type CSVExtractor struct {
	Path  string
	Comma rune
	Log   *zap.Logger
}

func (c *CSVExtractor) Name() string { return c.Path }

func (c *CSVExtractor) Extract(ctx context.Context, schema *models.Schema) (*RawBatch, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return c.extract(ctx, f, schema)
}

func (c *CSVExtractor) extract(ctx context.Context, r io.Reader, schema *models.Schema) (*RawBatch, error) {
	// A leading UTF-8 BOM would otherwise stick to the first header cell.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	if c.Comma != 0 {
		reader.Comma = c.Comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header row", ErrSchemaMismatch, c.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", ErrSourceUnavailable, c.Path, err)
	}
	if err := NewValidator(schema, c.Log).ValidateHeader(c.Path, header); err != nil {
		return nil, err
	}

	width := len(schema.Fields)
	batch := &RawBatch{Source: c.Path, Header: header}
	for line := 0; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			batch.Malformed++
			orNop(c.Log).Debug("skipping unparsable row", zap.String("source", c.Path), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrSourceUnavailable, c.Path, err)
		}
		if len(record) != width {
			batch.Malformed++
		}
		row := make([]interface{}, width)
		for i := 0; i < width && i < len(record); i++ {
			row[i] = record[i]
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}
