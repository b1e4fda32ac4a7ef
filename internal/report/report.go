// Package report renders a batch of vessel reports as the CSV analysis
// file and the end-of-run summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fleetwatch/internal/analyze"
	"fleetwatch/internal/classify"
	"fleetwatch/internal/domain"
)

var columns = []string{
	"IMO",
	"Vessel Name",
	"SSID",
	"Flag",
	"Classification",
	"Score",
	"Reasons",
	"Fishing Hours",
	"Fishing Events",
	"Vessel Length (m)",
	"Engine Power (kW)",
	"Gross Tonnage (GT)",
	"Gear Type",
	"Ship Type",
	"Port Visits",
	"Foreign Port %",
	"Countries Visited",
	"AIS Gaps",
	"Suspicious Gaps",
	"Max Gap (h)",
	"Encounters",
	"Foreign Encounters",
	"Encounter Flags",
	"Flag Changes",
	"Previous Flags",
	"Ownership",
	"Owner Country",
	"Partial Data",
}

// WriteCSV writes one row per report to path, overwriting any previous
// run.
func WriteCSV(path string, reports []analyze.Report, keywords map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, rep := range reports {
		if err := w.Write(row(rep, keywords)); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

func row(rep analyze.Report, keywords map[string]string) []string {
	name := rep.Seed.Name
	flag, ssid := "", ""
	length, power, tonnage := "", "", ""
	gear, shipType, ownership, ownerCountry := "", "", "", ""
	if v := rep.Vessel; v != nil {
		if v.Name != "" {
			name = v.Name
		}
		ssid = v.ID
		flag = v.Flag
		length = formatFloat(v.LengthMeters)
		power = formatFloat(v.EnginePowerKw)
		tonnage = formatFloat(v.GrossTonnage)
		gear = v.GearType
		shipType = v.ShipType
		ownership = v.Ownership
		ownerCountry = classify.OwnerCountry(v.Ownership, keywords)
	}

	sig := rep.Signals
	return []string{
		rep.Seed.RegistryNumber,
		name,
		ssid,
		flag,
		string(rep.Result.Label),
		strconv.Itoa(rep.Result.Score),
		strings.Join(rep.Result.Reasons, "; "),
		hours(sig.Activity.TotalHours),
		strconv.Itoa(sig.Activity.EventCount),
		length,
		power,
		tonnage,
		gear,
		shipType,
		strconv.Itoa(sig.PortVisits.TotalVisits),
		fmt.Sprintf("%.2f", sig.PortVisits.ForeignPct),
		strings.Join(sig.PortVisits.TopCountries, ", "),
		strconv.Itoa(sig.Gaps.TotalGaps),
		strconv.Itoa(sig.Gaps.SuspiciousGaps),
		hours(sig.Gaps.MaxGapHours),
		strconv.Itoa(sig.Encounters.TotalEncounters),
		strconv.Itoa(sig.Encounters.ForeignEncounters),
		strings.Join(sig.Encounters.CounterpartFlags, ", "),
		strconv.Itoa(sig.FlagHistory.ChangeCount),
		strings.Join(sig.FlagHistory.PreviousFlags, ", "),
		ownership,
		ownerCountry,
		strconv.FormatBool(rep.Partial),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', 1, 64)
}

// Summary aggregates per-label counts for a run.
type Summary struct {
	Total      int
	Compliant  int
	Suspect    int
	Foreign    int
	Unresolved int
	Errors     int
	Partial    int
}

func Summarize(reports []analyze.Report) Summary {
	s := Summary{Total: len(reports)}
	for _, rep := range reports {
		switch rep.Result.Label {
		case domain.LabelCompliant:
			s.Compliant++
		case domain.LabelSuspect:
			s.Suspect++
		case domain.LabelForeign:
			s.Foreign++
		case domain.LabelUnresolved:
			s.Unresolved++
		case domain.LabelError:
			s.Errors++
		}
		if rep.Partial {
			s.Partial++
		}
	}
	return s
}

// Format renders the summary block printed and posted at the end of a
// run.
func (s Summary) Format() string {
	var b strings.Builder
	b.WriteString("=== ANALYSIS COMPLETE ===\n")
	fmt.Fprintf(&b, "Total vessels analyzed: %d\n", s.Total)
	fmt.Fprintf(&b, "Compliant: %d (%s)\n", s.Compliant, s.pct(s.Compliant))
	fmt.Fprintf(&b, "Suspect: %d (%s)\n", s.Suspect, s.pct(s.Suspect))
	fmt.Fprintf(&b, "Flagged foreign: %d (%s)\n", s.Foreign, s.pct(s.Foreign))
	fmt.Fprintf(&b, "Unresolved: %d (%s)\n", s.Unresolved, s.pct(s.Unresolved))
	fmt.Fprintf(&b, "Errors: %d (%s)", s.Errors, s.pct(s.Errors))
	if s.Partial > 0 {
		fmt.Fprintf(&b, "\nPartial data: %d", s.Partial)
	}
	return b.String()
}

func (s Summary) pct(n int) string {
	if s.Total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(s.Total)*100)
}
