package etl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BartekS5/ipla/pkg/models"
	"github.com/stretchr/testify/require"
)

type record map[string]string

// writeCard writes a comma separated file with the schema's header and one
// line per record; fields missing from a record are left empty.
func writeCard(t *testing.T, schema *models.Schema, records ...record) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(schema.Names(), ","))
	b.WriteString("\n")
	for _, rec := range records {
		cells := make([]string, len(schema.Fields))
		for i, f := range schema.Fields {
			cells[i] = rec[f.Name]
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return writeFile(t, schema.Entity+".csv", b.String())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
