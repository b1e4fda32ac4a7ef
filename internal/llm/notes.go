// Package llm drafts short analyst notes for vessels that did not come
// back Compliant. Notes are advisory context for a human reviewer; they
// never feed back into classification.
package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"fleetwatch/internal/analyze"
	"fleetwatch/internal/domain"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are a fisheries compliance analyst. Given a vessel's
identity, activity signals, and rule-based findings, write a short note (3-5
sentences) for a human reviewer: what stands out, what could explain it
innocently, and what to verify first. Be concrete and neutral. Do not invent
facts beyond the data given.`

type Analyst struct {
	client anthropic.Client
	model  string
}

// New returns nil when no API key is configured; callers treat a nil
// analyst as "notes disabled".
func New(apiKey, model string) *Analyst {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = defaultModel
	}
	return &Analyst{client: anthropic.NewClient(option.WithAPIKey(apiKey)), model: model}
}

// WriteNotes drafts one note per non-compliant, non-error report and
// writes them all to a markdown file at path. Per-vessel failures are
// logged and skipped so one bad call cannot lose the rest.
func (a *Analyst) WriteNotes(ctx context.Context, path string, reports []analyze.Report) error {
	var b strings.Builder
	b.WriteString("# Analyst Notes\n")

	noted := 0
	for _, rep := range reports {
		switch rep.Result.Label {
		case domain.LabelCompliant, domain.LabelError:
			continue
		}
		note, err := a.draftNote(ctx, rep)
		if err != nil {
			log.Printf("llm note for %s failed: %v", vesselTitle(rep), err)
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n%s\n", vesselTitle(rep), rep.Result.Label, note)
		noted++
	}
	if noted == 0 {
		return nil
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing notes file: %w", err)
	}
	log.Printf("llm wrote %d analyst notes to %s", noted, path)
	return nil
}

func (a *Analyst) draftNote(ctx context.Context, rep analyze.Report) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(vesselPrompt(rep))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

func vesselTitle(rep analyze.Report) string {
	name := rep.Seed.Name
	if rep.Vessel != nil && rep.Vessel.Name != "" {
		name = rep.Vessel.Name
	}
	if name == "" {
		name = rep.Seed.RegistryNumber
	}
	if rep.Seed.RegistryNumber != "" && name != rep.Seed.RegistryNumber {
		return fmt.Sprintf("%s / IMO %s", name, rep.Seed.RegistryNumber)
	}
	return name
}

func vesselPrompt(rep analyze.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vessel: %s\n", vesselTitle(rep))
	if v := rep.Vessel; v != nil {
		fmt.Fprintf(&b, "Flag: %s\n", v.Flag)
		if v.Ownership != "" {
			fmt.Fprintf(&b, "Ownership: %s\n", v.Ownership)
		}
		if v.GearType != "" {
			fmt.Fprintf(&b, "Gear: %s\n", v.GearType)
		}
	}
	sig := rep.Signals
	fmt.Fprintf(&b, "Fishing: %.1f hours over %d events\n", sig.Activity.TotalHours, sig.Activity.EventCount)
	fmt.Fprintf(&b, "Port visits: %d total, %.0f%% foreign (%s)\n",
		sig.PortVisits.TotalVisits, sig.PortVisits.ForeignPct*100, strings.Join(sig.PortVisits.TopCountries, ", "))
	fmt.Fprintf(&b, "AIS gaps: %d total, %d suspicious, longest %.1f h\n",
		sig.Gaps.TotalGaps, sig.Gaps.SuspiciousGaps, sig.Gaps.MaxGapHours)
	fmt.Fprintf(&b, "Encounters: %d total, %d with foreign vessels\n",
		sig.Encounters.TotalEncounters, sig.Encounters.ForeignEncounters)
	if sig.FlagHistory.ChangeCount > 0 {
		fmt.Fprintf(&b, "Flag history: %s\n", sig.FlagHistory.Sequence)
	}
	fmt.Fprintf(&b, "Classification: %s (score %d)\n", rep.Result.Label, rep.Result.Score)
	fmt.Fprintf(&b, "Findings: %s\n", strings.Join(rep.Result.Reasons, "; "))
	if rep.Partial {
		b.WriteString("Note: activity data is partial for this vessel.\n")
	}
	return b.String()
}
