// Package intervals reduces possibly-overlapping time ranges to their
// union so that activity reported by multiple sources is never double
// counted.
package intervals

import (
	"sort"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) valid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && !iv.End.Before(iv.Start)
}

// Merge returns the union of the given intervals as a sorted,
// pairwise non-overlapping slice. Adjacent intervals (end == next start)
// coalesce. Malformed intervals (zero endpoints, end before start) are
// dropped. Merge is idempotent.
func Merge(in []Interval) []Interval {
	sorted := make([]Interval, 0, len(in))
	for _, iv := range in {
		if iv.valid() {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start.After(cur.End) {
			merged = append(merged, cur)
			cur = iv
			continue
		}
		if iv.End.After(cur.End) {
			cur.End = iv.End
		}
	}
	return append(merged, cur)
}

// TotalDuration sums the durations of a merged interval set.
func TotalDuration(merged []Interval) time.Duration {
	var total time.Duration
	for _, iv := range merged {
		total += iv.Duration()
	}
	return total
}

// UnionDuration merges and sums in one step.
func UnionDuration(in []Interval) time.Duration {
	return TotalDuration(Merge(in))
}
