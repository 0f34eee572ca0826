package dashboard

import (
	"sort"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
)

// ImpactCount is one line of the impact breakdown.
type ImpactCount struct {
	Impact string
	Count  int
}

// TypeCount is one line of the event-type frequency ranking.
type TypeCount struct {
	Label string
	Count int
}

// Summary holds the statistics computed over the filtered row set.
type Summary struct {
	Count    int
	MinTime  time.Time
	MaxTime  time.Time
	Impacts  []ImpactCount // every level in severity order, zeros included
	TopTypes []TypeCount   // top 5 by count, descending
}

// Summarize computes the summary statistics for the filtered rows.
func Summarize(rows []DisplayRow) Summary {
	s := Summary{Count: len(rows)}

	impactCounts := make(map[string]int)
	typeCounts := make(map[string]int)
	for _, r := range rows {
		impactCounts[r.Impact]++
		typeCounts[r.TypeLabel]++
		if r.CreatedAt.IsZero() {
			continue
		}
		if s.MinTime.IsZero() || r.CreatedAt.Before(s.MinTime) {
			s.MinTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.MaxTime) {
			s.MaxTime = r.CreatedAt
		}
	}

	// The breakdown always lists every level, so a zero reads as "none"
	// rather than looking like a missing line.
	for _, impact := range event.Impacts {
		s.Impacts = append(s.Impacts, ImpactCount{Impact: impact, Count: impactCounts[impact]})
	}

	for label, n := range typeCounts {
		s.TopTypes = append(s.TopTypes, TypeCount{Label: label, Count: n})
	}
	sort.Slice(s.TopTypes, func(i, j int) bool {
		if s.TopTypes[i].Count != s.TopTypes[j].Count {
			return s.TopTypes[i].Count > s.TopTypes[j].Count
		}
		return s.TopTypes[i].Label < s.TopTypes[j].Label
	})
	if len(s.TopTypes) > 5 {
		s.TopTypes = s.TopTypes[:5]
	}

	return s
}

// MinTimeDisplay formats the earliest timestamp for the context panel.
func (s Summary) MinTimeDisplay() string {
	if s.MinTime.IsZero() {
		return ""
	}
	return s.MinTime.Format(displayTimeFormat)
}

// MaxTimeDisplay formats the latest timestamp for the context panel.
func (s Summary) MaxTimeDisplay() string {
	if s.MaxTime.IsZero() {
		return ""
	}
	return s.MaxTime.Format(displayTimeFormat)
}
