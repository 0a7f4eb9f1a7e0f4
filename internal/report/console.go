package report

import (
	"context"
	"fmt"
	"io"

	"github.com/BartekS5/ipla/internal/analysis"
)

// DefaultLimit is the number of rows printed per table.
const DefaultLimit = 20

// Console prints derived tables as text grids.
type Console struct {
	W        io.Writer
	Limit    int
	Truncate bool
	// Only restricts output to the named tables; empty prints all of them.
	Only []string
}

func NewConsole(w io.Writer, limit int) *Console {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Console{W: w, Limit: limit, Truncate: true}
}

func (c *Console) Render(ctx context.Context, res *analysis.Results) error {
	for _, n := range res.Tables() {
		if !c.wants(n.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.W, "%s (%s)\n", n.Title, n.Name); err != nil {
			return err
		}
		if err := n.Table.Show(c.W, c.Limit, c.Truncate); err != nil {
			return fmt.Errorf("show %s: %w", n.Name, err)
		}
		if n.Name == "city-stats" {
			if _, err := fmt.Fprintf(c.W, "Number of rows: %d\n", n.Table.Len()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(c.W); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) wants(name string) bool {
	if len(c.Only) == 0 {
		return true
	}
	for _, o := range c.Only {
		if o == name {
			return true
		}
	}
	return false
}
