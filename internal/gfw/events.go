package gfw

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"
)

// EventCategory selects one of the activity event datasets.
type EventCategory string

const (
	EventFishing   EventCategory = "fishing"
	EventPortVisit EventCategory = "port-visit"
	EventGap       EventCategory = "ais-gap"
	EventEncounter EventCategory = "encounter"
)

var categoryDatasets = map[EventCategory]string{
	EventFishing:   "public-global-fishing-events:latest",
	EventPortVisit: "public-global-port-visits-events:latest",
	EventGap:       "public-global-gaps-events:latest",
	EventEncounter: "public-global-encounters-events:latest",
}

func Categories() []EventCategory {
	return []EventCategory{EventFishing, EventPortVisit, EventGap, EventEncounter}
}

// Window is the analysis date range, inclusive of both days.
type Window struct {
	Start time.Time
	End   time.Time
}

func YearWindow(year int) Window {
	return Window{
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Event is one time-windowed activity record. Only the fields the
// analysis consumes are decoded; the category-specific counterpart flags
// are empty for categories that do not carry them.
type Event struct {
	Start           time.Time
	End             time.Time
	PortFlag        string // anchorage country, port visits only
	CounterpartFlag string // second vessel's flag, encounters only
}

type eventRecord struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Anchorage *struct {
		Flag string `json:"flag"`
	} `json:"anchorage"`
	Vessel2 *struct {
		Flag string `json:"flag"`
	} `json:"vessel2"`
}

type eventsResponse struct {
	Entries    []eventRecord `json:"entries"`
	NextOffset *int          `json:"nextOffset"`
}

// EventPage is one page of events. Returned counts the raw upstream
// records so pagination stays correct even when malformed records were
// dropped during decoding.
type EventPage struct {
	Events     []Event
	Returned   int
	NextOffset *int
}

// ListEvents fetches a single page of events for a vessel. Records whose
// timestamps fail to parse are dropped, never defaulted.
func (c *Client) ListEvents(ctx context.Context, category EventCategory, vesselID string, win Window, offset int) (EventPage, error) {
	dataset, ok := categoryDatasets[category]
	if !ok {
		return EventPage{}, fmt.Errorf("unknown event category %q", category)
	}

	params := url.Values{}
	params.Set("vessels[0]", vesselID)
	params.Set("datasets[0]", dataset)
	params.Set("start-date", win.Start.Format("2006-01-02"))
	params.Set("end-date", win.End.Format("2006-01-02"))
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))

	var resp eventsResponse
	if err := c.getJSON(ctx, "/events", params, &resp); err != nil {
		return EventPage{}, err
	}

	page := EventPage{Returned: len(resp.Entries), NextOffset: resp.NextOffset}
	for _, rec := range resp.Entries {
		ev, err := rec.parse()
		if err != nil {
			log.Printf("gfw drop %s event: %v", category, err)
			continue
		}
		page.Events = append(page.Events, ev)
	}
	return page, nil
}

// FetchAllEvents drives ListEvents until exhaustion. The cursor advances
// by the number of records actually returned; pagination ends on an
// empty page, a missing continuation indicator, or a short page.
//
// When retries are exhausted mid-stream the records accumulated so far
// are returned with partial=true, distinguishable from zero activity.
// A failure before any page succeeded is returned as an error.
func (c *Client) FetchAllEvents(ctx context.Context, category EventCategory, vesselID string, win Window) ([]Event, bool, error) {
	var all []Event
	fetched := 0
	offset := 0
	for {
		page, err := c.ListEvents(ctx, category, vesselID, win, offset)
		if err != nil {
			if fetched > 0 {
				log.Printf("gfw %s pagination aborted for %s after %d records: %v", category, vesselID, fetched, err)
				return all, true, nil
			}
			return nil, false, fmt.Errorf("fetching %s events: %w", category, err)
		}
		all = append(all, page.Events...)
		fetched += page.Returned
		if page.Returned == 0 || page.NextOffset == nil || page.Returned < c.pageSize {
			break
		}
		offset += page.Returned
	}
	return all, false, nil
}

// Two timestamp encodings exist upstream, with and without fractional
// seconds; RFC3339Nano parses both to the same instant.
func parseEventTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return ts, nil
}

func (r eventRecord) parse() (Event, error) {
	start, err := parseEventTime(r.Start)
	if err != nil {
		return Event{}, err
	}
	end, err := parseEventTime(r.End)
	if err != nil {
		return Event{}, err
	}
	ev := Event{Start: start, End: end}
	if r.Anchorage != nil {
		ev.PortFlag = r.Anchorage.Flag
	}
	if r.Vessel2 != nil {
		ev.CounterpartFlag = r.Vessel2.Flag
	}
	return ev, nil
}
