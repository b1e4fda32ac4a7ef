package intervals

import (
	"testing"
	"time"
)

var t0 = time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

func iv(startHours, endHours int) Interval {
	return Interval{
		Start: t0.Add(time.Duration(startHours) * time.Hour),
		End:   t0.Add(time.Duration(endHours) * time.Hour),
	}
}

func TestMergeOverlapping(t *testing.T) {
	// Two overlapping reports of the same activity must union to 12h, not 17h.
	merged := Merge([]Interval{iv(0, 10), iv(5, 12)})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged interval, got %d", len(merged))
	}
	if got := TotalDuration(merged); got != 12*time.Hour {
		t.Fatalf("total duration = %s, want 12h", got)
	}
}

func TestMergeBackToBackCoalesce(t *testing.T) {
	merged := Merge([]Interval{iv(0, 5), iv(5, 8)})
	if len(merged) != 1 {
		t.Fatalf("back-to-back intervals must coalesce, got %d intervals", len(merged))
	}
	if got := TotalDuration(merged); got != 8*time.Hour {
		t.Fatalf("total duration = %s, want 8h", got)
	}
}

func TestMergeDisjointStaysSorted(t *testing.T) {
	merged := Merge([]Interval{iv(20, 24), iv(0, 2), iv(10, 12)})
	if len(merged) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Start.Before(merged[i-1].End) {
			t.Fatalf("merged output overlaps or is unsorted at %d", i)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	in := []Interval{iv(0, 10), iv(5, 12), iv(30, 31), iv(12, 13)}
	once := Merge(in)
	twice := Merge(once)
	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %d vs %d intervals", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Start.Equal(twice[i].Start) || !once[i].End.Equal(twice[i].End) {
			t.Fatalf("merge not idempotent at %d: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestMergeDropsMalformed(t *testing.T) {
	merged := Merge([]Interval{
		iv(0, 2),
		{Start: t0.Add(5 * time.Hour), End: t0.Add(3 * time.Hour)}, // end before start
		{},          // zero endpoints
		{Start: t0}, // zero end
	})
	if len(merged) != 1 {
		t.Fatalf("malformed intervals must be dropped, got %d intervals", len(merged))
	}
	if got := TotalDuration(merged); got != 2*time.Hour {
		t.Fatalf("total duration = %s, want 2h", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	if merged := Merge(nil); len(merged) != 0 {
		t.Fatalf("empty input must produce empty output, got %d", len(merged))
	}
	if d := TotalDuration(nil); d != 0 {
		t.Fatalf("empty input must have zero duration, got %s", d)
	}
}

func TestUnionNeverExceedsRawSum(t *testing.T) {
	cases := [][]Interval{
		{iv(0, 10), iv(5, 12)},
		{iv(0, 1), iv(2, 3), iv(4, 5)},
		{iv(0, 24), iv(0, 24), iv(0, 24)},
	}
	for i, in := range cases {
		var raw time.Duration
		for _, x := range in {
			raw += x.Duration()
		}
		union := UnionDuration(in)
		if union > raw {
			t.Fatalf("case %d: union %s exceeds raw sum %s", i, union, raw)
		}
	}
}
