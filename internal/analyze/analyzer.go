// Package analyze orchestrates the per-vessel pipeline: resolve the
// identity, fetch each activity category for the analysis window,
// extract signals, and classify. Batch runs execute vessels with
// bounded parallelism to respect the upstream rate-limit budget.
package analyze

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"fleetwatch/internal/classify"
	"fleetwatch/internal/domain"
	"fleetwatch/internal/gfw"
	"fleetwatch/internal/resolve"
	"fleetwatch/internal/signals"
)

const progressEvery = 5

// EventSource is the activity-data capability the analyzer needs.
// *gfw.Client satisfies it.
type EventSource interface {
	FetchAllEvents(ctx context.Context, category gfw.EventCategory, vesselID string, win gfw.Window) ([]gfw.Event, bool, error)
	FlagHistory(ctx context.Context, vesselID string) ([]gfw.FlagEntry, error)
}

// Resolver abstracts identity resolution. *resolve.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, seed domain.SeedIdentity) (*domain.Vessel, error)
}

type Analyzer struct {
	resolver   Resolver
	events     EventSource
	thresholds classify.Thresholds
	window     gfw.Window
	workers    int
}

func New(resolver Resolver, events EventSource, th classify.Thresholds, win gfw.Window, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		resolver:   resolver,
		events:     events,
		thresholds: th,
		window:     win,
		workers:    workers,
	}
}

// Report is the full per-vessel outcome: the seed it came from, the
// resolved record and signals when available, and the classification.
type Report struct {
	Seed    domain.SeedIdentity
	Vessel  *domain.Vessel // nil when unresolved or errored
	Signals signals.Set
	Result  domain.Result
	Partial bool // some event pages were lost to exhausted retries
}

var _ Resolver = (*resolve.Resolver)(nil)
var _ EventSource = (*gfw.Client)(nil)

// AnalyzeVessel runs the whole pipeline for one seed. Failures never
// escape: they come back as an Error-labelled report.
func (a *Analyzer) AnalyzeVessel(ctx context.Context, seed domain.SeedIdentity) Report {
	rep := Report{Seed: seed}

	vessel, err := a.resolver.Resolve(ctx, seed)
	if err != nil {
		rep.Result = classify.ErrorResult("", fmt.Errorf("resolving vessel: %w", err))
		return rep
	}
	if vessel == nil {
		rep.Result = classify.Classify(nil, signals.Set{}, a.thresholds)
		return rep
	}
	rep.Vessel = vessel

	// The category fetches are independent; run them concurrently and
	// join before classification.
	var (
		fishing, visits, gaps, encounters []gfw.Event
		history                           []gfw.FlagEntry
		partial                           atomic.Bool
	)
	// One category failing permanently cancels this vessel's remaining
	// fetches; sibling vessels are unaffected.
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(category gfw.EventCategory, out *[]gfw.Event) func() error {
		return func() error {
			events, p, err := a.events.FetchAllEvents(gctx, category, vessel.ID, a.window)
			if err != nil {
				return err
			}
			if p {
				partial.Store(true)
			}
			*out = events
			return nil
		}
	}

	g.Go(fetch(gfw.EventFishing, &fishing))
	g.Go(fetch(gfw.EventPortVisit, &visits))
	g.Go(fetch(gfw.EventGap, &gaps))
	g.Go(fetch(gfw.EventEncounter, &encounters))
	g.Go(func() error {
		entries, err := a.events.FlagHistory(gctx, vessel.ID)
		if err != nil {
			return err
		}
		history = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		rep.Result = classify.ErrorResult(vessel.ID, fmt.Errorf("fetching activity: %w", err))
		return rep
	}

	rep.Partial = partial.Load()
	rep.Signals = signals.Set{
		Activity:    signals.Activity(fishing),
		PortVisits:  signals.PortVisits(visits, a.thresholds.HomeFlag),
		Gaps:        signals.Gaps(gaps, a.thresholds.GapThreshold()),
		Encounters:  signals.Encounters(encounters, a.thresholds.HomeFlag),
		FlagHistory: signals.FlagHistory(history, a.thresholds.HomeFlag),
	}
	rep.Result = classify.Classify(vessel, rep.Signals, a.thresholds)
	return rep
}

// Run analyzes all seeds with at most the configured number of vessels
// in flight. Every seed yields exactly one report; reports arrive in
// completion order. Cancelling ctx stops vessels that have not started
// yet and lets in-flight ones finish on their own.
func (a *Analyzer) Run(ctx context.Context, seeds []domain.SeedIdentity) []Report {
	sem := semaphore.NewWeighted(int64(a.workers))
	var (
		mu      sync.Mutex
		reports = make([]Report, 0, len(seeds))
		wg      sync.WaitGroup
		done    atomic.Int32
	)

	total := len(seeds)
	log.Printf("analyze start vessels=%d workers=%d window=%s..%s",
		total, a.workers, a.window.Start.Format("2006-01-02"), a.window.End.Format("2006-01-02"))

	for _, seed := range seeds {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			reports = append(reports, Report{
				Seed:   seed,
				Result: classify.ErrorResult("", fmt.Errorf("run cancelled before start: %w", err)),
			})
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(seed domain.SeedIdentity) {
			defer wg.Done()
			defer sem.Release(1)
			// Started vessels run to completion even if the run-level
			// context is cancelled meanwhile.
			rep := a.AnalyzeVessel(context.WithoutCancel(ctx), seed)
			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()
			if n := done.Add(1); n%progressEvery == 0 || int(n) == total {
				log.Printf("analyze progress %d/%d", n, total)
			}
		}(seed)
	}
	wg.Wait()

	log.Printf("analyze done total=%d", len(reports))
	return reports
}
