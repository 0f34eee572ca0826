package dashboard

import (
	"net/url"
	"time"
)

// Time-window choices, relative to the newest event in the loaded file.
const (
	WindowAll = "all"
	Window30m = "30m"
	Window1h  = "1h"
	Window2h  = "2h"
	Window24h = "24h"
	Window5d  = "5d"
)

// windowDurations maps window choices to their span. WindowAll is absent:
// it disables the time filter.
var windowDurations = map[string]time.Duration{
	Window30m: 30 * time.Minute,
	Window1h:  time.Hour,
	Window2h:  2 * time.Hour,
	Window24h: 24 * time.Hour,
	Window5d:  5 * 24 * time.Hour,
}

// WindowChoice is one entry of the time-window selector.
type WindowChoice struct {
	Value string
	Label string
}

// WindowChoices lists the selector entries in display order.
var WindowChoices = []WindowChoice{
	{WindowAll, "All"},
	{Window30m, "Last 30 minutes"},
	{Window1h, "Last 1 hour"},
	{Window2h, "Last 2 hours"},
	{Window24h, "Last 24 hours"},
	{Window5d, "Last 5 days"},
}

// Filters holds the user's display filter selection. An empty slice for a
// membership filter means "no restriction" on that dimension.
type Filters struct {
	Window  string   // one of the Window* constants; unknown values act as WindowAll
	Day     string   // exact date (2006-01-02) or "" for all days
	Impacts []string // impact-level membership
	Types   []string // event-type membership (taxonomy codes)
	Regions []string // region membership
}

// FiltersFromQuery decodes the filter selection from URL query parameters.
func FiltersFromQuery(q url.Values) Filters {
	return Filters{
		Window:  q.Get("window"),
		Day:     q.Get("day"),
		Impacts: q["impact"],
		Types:   q["type"],
		Regions: q["region"],
	}
}

func memberOf(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Apply filters rows, ANDing all criteria in a fixed order: time window
// relative to the max timestamp, exact day, impact membership, event-type
// membership, region membership.
func (f Filters) Apply(rows []DisplayRow) []DisplayRow {
	out := rows

	if delta, ok := windowDurations[f.Window]; ok {
		var maxTime time.Time
		for _, r := range out {
			if r.CreatedAt.After(maxTime) {
				maxTime = r.CreatedAt
			}
		}
		if !maxTime.IsZero() {
			threshold := maxTime.Add(-delta)
			out = keep(out, func(r DisplayRow) bool {
				return !r.CreatedAt.Before(threshold)
			})
		}
	}

	if f.Day != "" {
		out = keep(out, func(r DisplayRow) bool { return r.Date == f.Day })
	}

	if len(f.Impacts) > 0 {
		out = keep(out, func(r DisplayRow) bool { return memberOf(f.Impacts, r.Impact) })
	}

	if len(f.Types) > 0 {
		out = keep(out, func(r DisplayRow) bool { return memberOf(f.Types, r.EventType) })
	}

	if len(f.Regions) > 0 {
		out = keep(out, func(r DisplayRow) bool { return memberOf(f.Regions, r.CountryRegion) })
	}

	return out
}

func keep(rows []DisplayRow, pred func(DisplayRow) bool) []DisplayRow {
	var out []DisplayRow
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
