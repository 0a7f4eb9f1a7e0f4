package cli

import (
	"fmt"
	"strconv"

	"github.com/BartekS5/ipla/internal/frame"
	"github.com/BartekS5/ipla/pkg/models"
	"github.com/spf13/cobra"
)

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [batting|bowling]",
		Short:     "Print the column layout the score cards are read with",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"batting", "bowling"},
		RunE: func(c *cobra.Command, args []string) error {
			schemas := []*models.Schema{models.BattingCard(), models.BowlingCard()}
			if len(args) == 1 {
				switch args[0] {
				case "batting":
					schemas = schemas[:1]
				case "bowling":
					schemas = schemas[1:]
				default:
					return fmt.Errorf("unknown schema %q, want batting or bowling", args[0])
				}
			}
			for _, s := range schemas {
				t, err := schemaTable(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), s.Entity)
				if err := t.Show(c.OutOrStdout(), 0, false); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// schemaTable lists one row per column: position, name, type and whether
// ingestion drops it.
func schemaTable(s *models.Schema) (*frame.Table, error) {
	excluded := make(map[string]bool, len(s.Exclude))
	for _, n := range s.Exclude {
		excluded[n] = true
	}
	var pos, names, kinds, dropped []any
	for i, f := range s.Fields {
		kind := string(f.Type)
		if f.Type == models.KindDecimal {
			kind = "decimal(" + strconv.Itoa(int(f.Precision)) + "," + strconv.Itoa(int(f.Scale)) + ")"
		}
		pos = append(pos, int64(i+1))
		names = append(names, f.Name)
		kinds = append(kinds, kind)
		dropped = append(dropped, excluded[f.Name])
	}
	return frame.New(
		frame.Col("#", models.KindInt, pos...),
		frame.Col("column", models.KindString, names...),
		frame.Col("type", models.KindString, kinds...),
		frame.Col("excluded", models.KindBool, dropped...),
	)
}
