// Package app wires the configured collaborators into the two entry
// points: a single analysis run and the scheduled watch loop.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"fleetwatch/internal/analyze"
	"fleetwatch/internal/config"
	"fleetwatch/internal/gfw"
	"fleetwatch/internal/input"
	"fleetwatch/internal/llm"
	"fleetwatch/internal/notify"
	"fleetwatch/internal/report"
	"fleetwatch/internal/resolve"
	"fleetwatch/internal/storage/sqlite"
)

// RunOnce analyzes every seed in the list at seedPath and writes the
// CSV report, plus whichever optional sinks are configured.
func RunOnce(ctx context.Context, cfg config.Config, seedPath string) (report.Summary, error) {
	seeds, err := input.ReadSeeds(seedPath)
	if err != nil {
		return report.Summary{}, err
	}
	if len(seeds) == 0 {
		return report.Summary{}, fmt.Errorf("seed list %s has no usable rows", seedPath)
	}

	client := gfw.New(gfw.Config{
		BaseURL:    cfg.GFWBaseURL,
		Token:      cfg.GFWAPIToken,
		PageSize:   cfg.PageSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
	})
	analyzer := analyze.New(resolve.New(client), client, cfg.Thresholds(), cfg.Window(), cfg.Workers)

	runID := uuid.NewString()
	win := cfg.Window()
	log.Printf("run %s: %d vessels, window %s to %s", runID, len(seeds),
		win.Start.Format(time.DateOnly), win.End.Format(time.DateOnly))

	reports := analyzer.Run(ctx, seeds)

	if err := report.WriteCSV(cfg.OutputPath, reports, cfg.OwnershipKeywords); err != nil {
		return report.Summary{}, err
	}
	log.Printf("run %s: report written to %s", runID, cfg.OutputPath)

	summary := report.Summarize(reports)

	// Optional sinks; none of them can fail a completed run.
	if cfg.DBPath != "" {
		if err := appendToDB(cfg.DBPath, runID, win, reports); err != nil {
			log.Printf("run %s: db sink error: %v", runID, err)
		}
	}
	if analyst := llm.New(cfg.AnthropicAPIKey, cfg.LLMModel); analyst != nil && cfg.NotesPath != "" {
		if err := analyst.WriteNotes(ctx, cfg.NotesPath, reports); err != nil {
			log.Printf("run %s: analyst notes error: %v", runID, err)
		}
	}
	if n := notify.New(cfg.SlackBotToken, cfg.SlackChannelID); n != nil {
		if err := n.PostRunSummary(summary.Format(), cfg.OutputPath); err != nil {
			log.Printf("run %s: notify error: %v", runID, err)
		}
	}

	return summary, nil
}

func appendToDB(path, runID string, win gfw.Window, reports []analyze.Report) error {
	db, err := sqlite.InitDB(path)
	if err != nil {
		return err
	}
	defer db.Close()
	n, err := sqlite.InsertResults(db, runID, win, reports)
	if err != nil {
		return err
	}
	log.Printf("run %s: %d rows appended to %s", runID, n, path)
	return nil
}

// Watch re-runs the analysis on the configured 5-field cron schedule
// until the context is cancelled. A failed run is logged and the loop
// keeps going; the next tick gets a fresh chance.
func Watch(ctx context.Context, cfg config.Config, seedPath string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(cfg.WatchSchedule)
	if err != nil {
		return fmt.Errorf("invalid watch_schedule '%s': %w", cfg.WatchSchedule, err)
	}
	log.Printf("watch scheduled (cron: %s)", cfg.WatchSchedule)

	for {
		now := time.Now()
		next := sched.Next(now)
		log.Printf("next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), next.Sub(now).Round(time.Minute))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next.Sub(now)):
		}

		summary, err := RunOnce(ctx, cfg, seedPath)
		if err != nil {
			log.Printf("scheduled run error: %v", err)
			continue
		}
		log.Printf("scheduled run complete: %d vessels, %d suspect, %d flagged foreign",
			summary.Total, summary.Suspect, summary.Foreign)
	}
}
