package analysis

import (
	"fmt"

	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
)

// Input holds the two typed source tables. RawBatting keeps every schema
// column; Batting and Bowling have the excluded columns removed.
type Input struct {
	RawBatting *frame.Table
	Batting    *frame.Table
	Bowling    *frame.Table
}

// Ingest projects the typed source tables down to the columns the stages
// read.
func Ingest(batting, bowling *frame.Table, battingSchema, bowlingSchema *models.Schema) (*Input, error) {
	b, err := Project(batting, battingSchema)
	if err != nil {
		return nil, fmt.Errorf("batting: %w", err)
	}
	w, err := Project(bowling, bowlingSchema)
	if err != nil {
		return nil, fmt.Errorf("bowling: %w", err)
	}
	return &Input{RawBatting: batting, Batting: b, Bowling: w}, nil
}

// Project drops the schema's excluded columns.
func Project(t *frame.Table, schema *models.Schema) (*frame.Table, error) {
	for _, name := range schema.Exclude {
		if !t.Has(name) {
			return nil, fmt.Errorf("%w: %q", frame.ErrColumnNotFound, name)
		}
	}
	return t.Drop(schema.Exclude...).Result()
}
