package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetwatch/internal/app"
	"fleetwatch/internal/config"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis on the configured cron schedule",
		Long: `Run the fleet analysis on the watch_schedule cron expression (5-field,
minute hour day-of-month month day-of-week) until interrupted.
Example: "0 6 * * 1" runs every Monday at 06:00.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := app.Watch(ctx, cfg, seedPath)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&seedPath, "seeds", "s", "", "path to the seed vessel CSV (required)")
	_ = cmd.MarkFlagRequired("seeds")
	return cmd
}
