// Package signals turns raw activity events into the normalized
// per-category summaries the classifier consumes. Extractors are pure
// functions; empty input always yields a zero-valued bundle so the
// classifier never has to null-check.
package signals

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fleetwatch/internal/gfw"
	"fleetwatch/internal/intervals"
)

const topFlagCount = 5

type ActivitySignal struct {
	TotalHours       float64 // union of merged event intervals
	EventCount       int
	AvgDurationHours float64 // mean of raw, unmerged event durations
}

type PortVisitSignal struct {
	TotalVisits   int
	ForeignVisits int
	ForeignPct    float64  // 0 when no visits
	TopCountries  []string // "CODE:count", most visited first
	MostVisited   string   // enrichment only, never a classification input
}

type GapSignal struct {
	TotalGaps      int
	TotalGapHours  float64
	MaxGapHours    float64
	SuspiciousGaps int // gaps longer than the configured threshold
}

type EncounterSignal struct {
	TotalEncounters   int
	ForeignEncounters int
	CounterpartFlags  []string // "CODE:count", most frequent foreign flags first
}

type FlagHistorySignal struct {
	ChangeCount   int
	PreviousFlags []string // distinct non-home flags, first-seen order
	Sequence      string   // chronological trail, e.g. "ESP → SEN"
}

// Set bundles all five signals for one vessel.
type Set struct {
	Activity    ActivitySignal
	PortVisits  PortVisitSignal
	Gaps        GapSignal
	Encounters  EncounterSignal
	FlagHistory FlagHistorySignal
}

// Activity summarizes fishing effort. Total hours use the interval
// union so overlapping reports from multiple sources are not double
// counted; the mean stays per raw event.
func Activity(events []gfw.Event) ActivitySignal {
	sig := ActivitySignal{EventCount: len(events)}
	if len(events) == 0 {
		return sig
	}

	ivs := make([]intervals.Interval, 0, len(events))
	var rawTotal time.Duration
	for _, ev := range events {
		ivs = append(ivs, intervals.Interval{Start: ev.Start, End: ev.End})
		rawTotal += ev.End.Sub(ev.Start)
	}
	sig.TotalHours = intervals.UnionDuration(ivs).Hours()
	sig.AvgDurationHours = rawTotal.Hours() / float64(len(events))
	return sig
}

// PortVisits counts visits by anchorage country. Foreign means any
// anchorage flag other than the home flag; visits without an anchorage
// flag count as foreign since they cannot be shown to be domestic.
func PortVisits(events []gfw.Event, homeFlag string) PortVisitSignal {
	sig := PortVisitSignal{TotalVisits: len(events)}
	if len(events) == 0 {
		return sig
	}

	counts := make(map[string]int)
	home := 0
	for _, ev := range events {
		if ev.PortFlag != "" {
			counts[ev.PortFlag]++
		}
		if ev.PortFlag == homeFlag {
			home++
		}
	}
	sig.ForeignVisits = sig.TotalVisits - home
	sig.ForeignPct = float64(sig.ForeignVisits) / float64(sig.TotalVisits)
	sig.TopCountries = topCounts(counts, topFlagCount)
	if len(sig.TopCountries) > 0 {
		sig.MostVisited = strings.SplitN(sig.TopCountries[0], ":", 2)[0]
	}
	return sig
}

// Gaps summarizes AIS transmission gaps. Gaps are non-overlapping by
// construction upstream, so durations are taken per event rather than
// merged with each other.
func Gaps(events []gfw.Event, threshold time.Duration) GapSignal {
	sig := GapSignal{TotalGaps: len(events)}
	for _, ev := range events {
		d := ev.End.Sub(ev.Start)
		if d < 0 {
			continue
		}
		hours := d.Hours()
		sig.TotalGapHours += hours
		if hours > sig.MaxGapHours {
			sig.MaxGapHours = hours
		}
		if d > threshold {
			sig.SuspiciousGaps++
		}
	}
	return sig
}

// Encounters counts vessel-to-vessel meetings with foreign-flagged
// counterparts.
func Encounters(events []gfw.Event, homeFlag string) EncounterSignal {
	sig := EncounterSignal{TotalEncounters: len(events)}
	counts := make(map[string]int)
	for _, ev := range events {
		if ev.CounterpartFlag == "" || ev.CounterpartFlag == homeFlag {
			continue
		}
		sig.ForeignEncounters++
		counts[ev.CounterpartFlag]++
	}
	sig.CounterpartFlags = topCounts(counts, topFlagCount)
	return sig
}

// FlagHistory summarizes registration changes: how often the vessel
// re-flagged and which non-home flags it ever held.
func FlagHistory(entries []gfw.FlagEntry, homeFlag string) FlagHistorySignal {
	var sig FlagHistorySignal
	var flags []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Flag == "" {
			continue
		}
		flags = append(flags, e.Flag)
		if e.Flag != homeFlag && !seen[e.Flag] {
			seen[e.Flag] = true
			sig.PreviousFlags = append(sig.PreviousFlags, e.Flag)
		}
	}
	if len(flags) > 0 {
		sig.ChangeCount = len(flags) - 1
	}
	sig.Sequence = strings.Join(flags, " → ")
	return sig
}

// topCounts renders the n most frequent codes as "CODE:count", counts
// descending with code order breaking ties deterministically.
func topCounts(counts map[string]int, n int) []string {
	type pair struct {
		code  string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for code, count := range counts {
		pairs = append(pairs, pair{code, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].code < pairs[j].code
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, fmt.Sprintf("%s:%d", p.code, p.count))
	}
	return out
}
