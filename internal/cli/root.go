// Package cli wires the cobra commands to the pipeline.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ipla",
		Short: "ipla - IPL batting and bowling card analysis",
		Long: `ipla reads the batting and bowling cards of IPL matches from CSV files,
SQL Server or MongoDB and derives per city, per innings and per match
statistics, including the best batter and bowler of every match.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewAnalyzeCmd(), NewShowCmd(), NewSchemaCmd())

	return rootCmd
}
