// Package classify applies the composite flag-state and behavioral rule
// chain that labels a vessel Compliant, Suspect, or Flagged-Foreign.
// Pure domain logic: no I/O, no side effects.
package classify

import (
	"fmt"
	"strings"
	"time"

	"fleetwatch/internal/domain"
	"fleetwatch/internal/signals"
)

// Thresholds parameterizes the rule chain. HomeFlag is the registration
// country treated as the non-suspicious baseline.
type Thresholds struct {
	HomeFlag          string
	MinFishingHours   float64
	MaxEnginePowerKw  float64
	MaxLengthMeters   float64
	MaxForeignPortPct float64
	MaxGapHours       float64
	// OwnershipKeywords maps a lowercase substring of the ownership
	// descriptor to the country it implies, e.g. "spain" -> "ESP".
	OwnershipKeywords map[string]string
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HomeFlag:          "SEN",
		MinFishingHours:   200,
		MaxEnginePowerKw:  3000,
		MaxLengthMeters:   50,
		MaxForeignPortPct: 0.3,
		MaxGapHours:       48,
		OwnershipKeywords: map[string]string{
			"spain":  "ESP",
			"(esp)":  "ESP",
			"china":  "CHN",
			"(chn)":  "CHN",
			"france": "FRA",
			"(fra)":  "FRA",
		},
	}
}

func (t Thresholds) GapThreshold() time.Duration {
	return time.Duration(t.MaxGapHours * float64(time.Hour))
}

// Classify combines the canonical record's static attributes and the
// signal bundles into a label, score, and ordered reasons. Rules only
// escalate severity, never downgrade. A nil vessel means resolution
// found nothing and short-circuits to Unresolved.
//
// The score counts triggered secondary signals only; a foreign flag
// carries the Flagged-Foreign label but contributes nothing to the
// score. TODO: confirm with the product owner whether the flag mismatch
// should stay unscored or count like the secondary signals.
func Classify(v *domain.Vessel, sig signals.Set, th Thresholds) domain.Result {
	if v == nil {
		return domain.Result{
			Label:   domain.LabelUnresolved,
			Reasons: []string{"no match in vessel registry"},
		}
	}

	result := domain.Result{VesselID: v.ID, Label: domain.LabelCompliant}

	if v.Flag != "" && v.Flag != th.HomeFlag {
		result.Label = domain.LabelForeign
		result.Reasons = append(result.Reasons, fmt.Sprintf("Foreign flag (%s)", v.Flag))
	}

	suspect := func(reason string) {
		result.Score++
		result.Reasons = append(result.Reasons, reason)
		if result.Label == domain.LabelCompliant {
			result.Label = domain.LabelSuspect
		}
	}

	if len(sig.FlagHistory.PreviousFlags) > 0 {
		suspect(fmt.Sprintf("Previous flags: %s", strings.Join(sig.FlagHistory.PreviousFlags, ", ")))
	}
	if sig.Activity.TotalHours < th.MinFishingHours {
		suspect(fmt.Sprintf("Low activity (%.1f fishing hours)", sig.Activity.TotalHours))
	}
	if v.EnginePowerKw != nil && *v.EnginePowerKw > th.MaxEnginePowerKw {
		suspect(fmt.Sprintf("High engine power (%.0f kW)", *v.EnginePowerKw))
	}
	if v.LengthMeters != nil && *v.LengthMeters > th.MaxLengthMeters {
		suspect(fmt.Sprintf("Large vessel length (%.1f m)", *v.LengthMeters))
	}
	if sig.PortVisits.ForeignPct > th.MaxForeignPortPct {
		suspect(fmt.Sprintf("Predominantly foreign port visits (%.1f%%)", sig.PortVisits.ForeignPct*100))
	}
	if sig.Gaps.SuspiciousGaps > 0 {
		suspect(fmt.Sprintf("%d suspicious AIS gaps", sig.Gaps.SuspiciousGaps))
	}
	if country := OwnerCountry(v.Ownership, th.OwnershipKeywords); country != "" && country != th.HomeFlag {
		suspect(fmt.Sprintf("Foreign ownership (%s)", country))
	}

	return result
}

// ErrorResult wraps a per-vessel processing failure as a classification
// so the batch keeps its one-result-per-input contract.
func ErrorResult(vesselID string, err error) domain.Result {
	return domain.Result{
		VesselID: vesselID,
		Label:    domain.LabelError,
		Reasons:  []string{fmt.Sprintf("Processing error: %v", err)},
	}
}

// OwnerCountry infers an owner country from the free-text ownership
// descriptor via keyword matching. Empty when nothing matches.
func OwnerCountry(ownership string, keywords map[string]string) string {
	if ownership == "" {
		return ""
	}
	lower := strings.ToLower(ownership)
	var matches []string
	for keyword, country := range keywords {
		if strings.Contains(lower, keyword) {
			matches = append(matches, country)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	// Deterministic pick when several keywords match.
	best := matches[0]
	for _, m := range matches[1:] {
		if m < best {
			best = m
		}
	}
	return best
}
