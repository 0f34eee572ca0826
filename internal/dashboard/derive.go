// Package dashboard serves the interactive event explorer: it loads the
// latest structured events, derives display rows, applies user filters, and
// renders a jittered timeline plus a detail table.
package dashboard

import (
	"math/rand"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
)

// Display formats for derived timestamp columns.
const (
	displayTimeFormat = "2006/01/02 15:04:05"
	dateFormat        = "2006-01-02"
)

// DisplayRow is a StructuredEvent augmented with derived display columns.
// Derived fields are recomputed on every load and never persisted.
type DisplayRow struct {
	event.StructuredEvent

	CreatedAt   time.Time // parsed tweet_created_at; zero when unparsable
	DisplayTime string    // CreatedAt formatted for the table and tooltips
	Date        string    // calendar date extracted from CreatedAt
	TypeLabel   string    // human-readable event type
	Size        float64   // timeline marker size from the impact level

	// Jittered holds CreatedAt shifted by a random offset, used only for the
	// x position on the timeline plot. Tooltips and the table always show
	// CreatedAt.
	Jittered time.Time
}

// parseCreatedAt handles the ISO-8601 timestamps the X API emits, e.g.
// "2025-11-22T02:34:36.000Z".
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Derive builds one DisplayRow per structured event.
func Derive(events []event.StructuredEvent) []DisplayRow {
	rows := make([]DisplayRow, len(events))
	for i, e := range events {
		t := parseCreatedAt(e.TweetCreatedAt)
		row := DisplayRow{
			StructuredEvent: e,
			CreatedAt:       t,
			TypeLabel:       event.PrettyEventType(e.EventType),
			Size:            event.ImpactSize(e.Impact),
		}
		if !t.IsZero() {
			row.DisplayTime = t.Format(displayTimeFormat)
			row.Date = t.Format(dateFormat)
		}
		rows[i] = row
	}
	return rows
}

// ApplyJitter shifts each row's plotted time by a uniform random offset in
// [-60s, +60s], purely for visual de-overlapping on the timeline.
func ApplyJitter(rows []DisplayRow, rng *rand.Rand) {
	for i := range rows {
		offset := time.Duration((rng.Float64()*120 - 60) * float64(time.Second))
		rows[i].Jittered = rows[i].CreatedAt.Add(offset)
	}
}
