package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fleetwatch/internal/app"
	"fleetwatch/internal/config"
	"fleetwatch/internal/report"
)

// AnalyzeCmd returns the analyze command
func AnalyzeCmd() *cobra.Command {
	var seedPath string
	var output string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Resolve and classify every vessel in a seed list",
		Long: `Resolve each vessel in the seed CSV against the Global Fishing Watch
registry, fetch its activity for the configured window, and classify it.
Writes one CSV row per input vessel and prints a summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if output != "" {
				cfg.OutputPath = output
			}

			summary, err := app.RunOnce(cmd.Context(), cfg, seedPath)
			if err != nil {
				return err
			}
			printSummary(summary, cfg.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedPath, "seeds", "s", "", "path to the seed vessel CSV (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report path (overrides output_path config)")
	_ = cmd.MarkFlagRequired("seeds")
	return cmd
}

func printSummary(s report.Summary, outputPath string) {
	fmt.Println()
	fmt.Println(s.Format())
	fmt.Println()
	if s.Suspect > 0 || s.Foreign > 0 {
		fmt.Printf("%s %d vessels need review\n",
			color.New(color.FgYellow).Sprint("!"), s.Suspect+s.Foreign)
	} else if s.Errors == 0 && s.Unresolved == 0 {
		fmt.Printf("%s fleet looks clean\n", color.New(color.FgGreen).Sprint("✓"))
	}
	if s.Errors > 0 {
		fmt.Printf("%s %d vessels failed, see the Reasons column\n",
			color.New(color.FgRed).Sprint("✗"), s.Errors)
	}
	fmt.Printf("Report: %s\n", outputPath)
}
