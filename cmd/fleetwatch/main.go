package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fleetwatch/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetwatch",
		Short: "Fleet identity resolution and compliance screening",
		Long: `fleetwatch resolves a seed list of fishing vessels against the Global
Fishing Watch registry, aggregates a year of activity (fishing effort,
port visits, AIS gaps, encounters, flag history), and classifies each
vessel as Compliant, Suspect, Flagged-Foreign, or Unresolved.`,
	}

	rootCmd.AddCommand(cli.AnalyzeCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
