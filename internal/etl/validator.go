package etl

import (
	"fmt"
	"strings"

	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
)

type Validator struct {
	Schema *models.Schema
	Log    *zap.Logger
}

func NewValidator(schema *models.Schema, log *zap.Logger) *Validator {
	return &Validator{Schema: schema, Log: orNop(log)}
}

// ValidateHeader checks a positional header. Its width must match the
// schema; differing names only produce a warning because the schema, not the
// header, names the columns.
func (v *Validator) ValidateHeader(source string, header []string) error {
	if len(header) != len(v.Schema.Fields) {
		return fmt.Errorf("%w: %s has %d columns, schema %s declares %d",
			ErrSchemaMismatch, source, len(header), v.Schema.Entity, len(v.Schema.Fields))
	}
	var renamed []string
	for i, f := range v.Schema.Fields {
		if strings.TrimSpace(header[i]) != f.Name {
			renamed = append(renamed, fmt.Sprintf("%s->%s", header[i], f.Name))
		}
	}
	if len(renamed) > 0 {
		v.Log.Warn("header names differ from schema; columns are read by position",
			zap.String("source", source),
			zap.Strings("columns", renamed))
	}
	return nil
}

// ValidateColumns checks a name-addressed source exposes every schema column.
func (v *Validator) ValidateColumns(source string, columns []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	var missing []string
	for _, f := range v.Schema.Fields {
		if _, ok := have[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s lacks columns %s", ErrSchemaMismatch, source, strings.Join(missing, ", "))
	}
	return nil
}
