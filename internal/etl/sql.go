package etl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/BartekS5/ipla/pkg/models"
	"go.uber.org/zap"
)

// SQLExtractor reads a table through database/sql. Columns are bound to the
// schema by name. Without OrderBy the row order is whatever the server
// returns, which makes "first row wins" selections non-reproducible.
type SQLExtractor struct {
	DB      *sql.DB
	Table   string
	OrderBy string
	Log     *zap.Logger
}

func (s *SQLExtractor) Name() string { return "sql:" + s.Table }

func (s *SQLExtractor) Extract(ctx context.Context, schema *models.Schema) (*RawBatch, error) {
	table := quoteIdent(s.Table)

	probe, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", table))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Name(), err)
	}
	cols, err := probe.Columns()
	probe.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Name(), err)
	}
	if err := NewValidator(schema, s.Log).ValidateColumns(s.Name(), cols); err != nil {
		return nil, err
	}

	names := schema.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), table)
	if s.OrderBy != "" {
		query += " ORDER BY " + quoteIdent(s.OrderBy)
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Name(), err)
	}
	defer rows.Close()

	batch := &RawBatch{Source: s.Name(), Header: names}
	for rows.Next() {
		columns := make([]interface{}, len(names))
		columnPointers := make([]interface{}, len(names))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}
		if err := rows.Scan(columnPointers...); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Name(), err)
		}
		for i, val := range columns {
			if b, ok := val.([]byte); ok {
				columns[i] = string(b)
			}
		}
		batch.Rows = append(batch.Rows, columns)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Name(), err)
	}
	return batch, nil
}

// quoteIdent brackets each dot-separated part of an identifier.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "[" + strings.ReplaceAll(p, "]", "]]") + "]"
	}
	return strings.Join(parts, ".")
}
