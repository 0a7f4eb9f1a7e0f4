package cli

import (
	"fmt"
	"strings"

	"github.com/BartekS5/ipla/internal/analysis"
	"github.com/spf13/cobra"
)

type AnalyzeOptions struct {
	ConfigFile string
	Season     int
	Batting    string
	Bowling    string
	Report     string
	Limit      int
	LogLevel   string
	DryRun     bool
	// Only restricts console output to the named tables.
	Only []string
}

func addRunFlags(cmd *cobra.Command, opts *AnalyzeOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "Path to a YAML config file (default $IPLA_CONFIG)")
	f.IntVarP(&opts.Season, "season", "s", analysis.DefaultSeason, "Season for the city/match statistics")
	f.StringVar(&opts.Batting, "batting", "", "Batting card location (file, table or collection)")
	f.StringVar(&opts.Bowling, "bowling", "", "Bowling card location (file, table or collection)")
	f.IntVarP(&opts.Limit, "limit", "n", 20, "Rows printed per table, 0 for the configured default")
	f.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and print every derived table",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runAnalysis(c, opts)
		},
	}

	addRunFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.Report, "report", "r", "", "Write an xlsx workbook with tables and charts to this path")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute every table but skip all output")

	return cmd
}

func NewShowCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:       "show <table>",
		Short:     "Run the analysis and print a single derived table",
		Long:      "Tables: " + strings.Join(analysis.TableNames, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: analysis.TableNames,
		RunE: func(c *cobra.Command, args []string) error {
			if !validTable(args[0]) {
				return fmt.Errorf("unknown table %q, want one of %s", args[0], strings.Join(analysis.TableNames, ", "))
			}
			opts.Only = []string{args[0]}
			return runAnalysis(c, opts)
		},
	}

	addRunFlags(cmd, opts)

	return cmd
}

func validTable(name string) bool {
	for _, n := range analysis.TableNames {
		if n == name {
			return true
		}
	}
	return false
}
