// Package notify posts the end-of-run summary to Slack. It is optional
// and failures are logged, never fatal: a missed notification must not
// fail a completed analysis.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

type Notifier struct {
	api     *slack.Client
	channel string
}

// New returns nil when no bot token is configured, and callers treat a
// nil notifier as "notifications disabled".
func New(botToken, channelID string) *Notifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &Notifier{api: slack.New(botToken), channel: channelID}
}

// PostRunSummary sends the summary block followed by the report path.
func (n *Notifier) PostRunSummary(summary, reportPath string) error {
	text := summary
	if reportPath != "" {
		text = fmt.Sprintf("%s\nReport written to `%s`", summary, reportPath)
	}
	_, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting run summary to Slack: %w", err)
	}
	log.Printf("notify posted run summary channel=%s", n.channel)
	return nil
}
