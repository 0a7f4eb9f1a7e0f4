package etl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openCardTable(t *testing.T, table string, schema *models.Schema, skip string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	var cols []string
	for _, name := range schema.Names() {
		if name != skip {
			cols = append(cols, quoteIdent(name)+" TEXT")
		}
	}
	_, err = db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", ")))
	require.NoError(t, err)
	return db
}

func TestSQLExtractorReadsByName(t *testing.T) {
	schema := models.BowlingCard()
	db := openCardTable(t, "bowling", schema, "")
	_, err := db.Exec(`INSERT INTO bowling ([match_id], [fullName], [economyRate]) VALUES
		('2', 'Second', '7.25'),
		('1', 'First', '5.5')`)
	require.NoError(t, err)

	ext := &SQLExtractor{DB: db, Table: "bowling", OrderBy: "match_id"}
	batch, err := ext.Extract(context.Background(), schema)
	require.NoError(t, err)
	assert.Equal(t, "sql:bowling", ext.Name())
	assert.Equal(t, schema.Names(), batch.Header)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "1", batch.Rows[0][1])
	assert.Equal(t, "First", batch.Rows[0][11])
	assert.Equal(t, "7.25", batch.Rows[1][16])
	assert.Nil(t, batch.Rows[0][0])

	tbl, err := NewTransformer(schema, nil, nil).Transform(batch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tbl.Value(0, "match_id"))
	assert.Equal(t, 5.5, tbl.Value(0, "economyRate"))
}

func TestSQLExtractorMissingColumn(t *testing.T) {
	schema := models.BowlingCard()
	db := openCardTable(t, "bowling", schema, "economyRate")

	_, err := (&SQLExtractor{DB: db, Table: "bowling"}).Extract(context.Background(), schema)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestSQLExtractorMissingTable(t *testing.T) {
	schema := models.BowlingCard()
	db := openCardTable(t, "bowling", schema, "")

	_, err := (&SQLExtractor{DB: db, Table: "nope"}).Extract(context.Background(), schema)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "[dbo].[batting card]", quoteIdent("dbo.batting card"))
	assert.Equal(t, "[a]]b]", quoteIdent("a]b"))
}
