package dashboard

import (
	"math/rand"
	"testing"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
)

func TestDerive(t *testing.T) {
	events := []event.StructuredEvent{
		{
			TweetID:        "1",
			TweetCreatedAt: "2025-11-22T02:34:36.000Z",
			TweetText:      "CPI above forecast",
			EventType:      "MACRO_DATA",
			CountryRegion:  "US",
			Impact:         "Élevé",
		},
		{
			TweetID:        "2",
			TweetCreatedAt: "not a timestamp",
			EventType:      "OTHER",
			Impact:         "mystery",
		},
	}

	rows := Derive(events)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	r := rows[0]
	if r.DisplayTime != "2025/11/22 02:34:36" {
		t.Errorf("DisplayTime = %q", r.DisplayTime)
	}
	if r.Date != "2025-11-22" {
		t.Errorf("Date = %q", r.Date)
	}
	if r.TypeLabel != "Macro data" {
		t.Errorf("TypeLabel = %q", r.TypeLabel)
	}
	if r.Size != 160 {
		t.Errorf("Size = %v, want 160", r.Size)
	}

	// Unparsable timestamps yield zero-time rows without display strings.
	if !rows[1].CreatedAt.IsZero() || rows[1].DisplayTime != "" || rows[1].Date != "" {
		t.Errorf("unparsable timestamp row = %+v", rows[1])
	}
	if rows[1].Size != 60 {
		t.Errorf("unknown impact size = %v, want 60", rows[1].Size)
	}
}

func TestApplyJitterStaysWithinBoundsAndNeverTouchesTrueTime(t *testing.T) {
	base := time.Date(2025, 11, 22, 12, 0, 0, 0, time.UTC)
	rows := make([]DisplayRow, 50)
	for i := range rows {
		rows[i].CreatedAt = base
		rows[i].DisplayTime = base.Format(displayTimeFormat)
	}

	ApplyJitter(rows, rand.New(rand.NewSource(1)))

	for i, r := range rows {
		offset := r.Jittered.Sub(r.CreatedAt)
		if offset < -60*time.Second || offset > 60*time.Second {
			t.Errorf("row %d jitter offset %v out of ±60s", i, offset)
		}
		if !r.CreatedAt.Equal(base) {
			t.Errorf("row %d true timestamp was modified", i)
		}
		if r.DisplayTime != "2025/11/22 12:00:00" {
			t.Errorf("row %d display time was modified: %q", i, r.DisplayTime)
		}
	}
}
