// Package console renders structured events in the terminal, grouped by
// event type with ANSI colors keyed on impact.
package console

import (
	"fmt"
	"io"

	"github.com/HugoVuach/finjuice/internal/event"
)

// ANSI color codes.
const (
	red    = "\033[91m"
	yellow = "\033[93m"
	grey   = "\033[90m"
	reset  = "\033[0m"
)

func colorForImpact(impact string) string {
	switch impact {
	case "Élevé":
		return red
	case "Moyen":
		return yellow
	default:
		return grey
	}
}

// Render writes a grouped, colored listing of events to w. path names the
// source file shown in the header.
func Render(w io.Writer, path string, events []event.StructuredEvent) {
	fmt.Fprintf(w, "\nVisualization of events (%s):\n\n", path)

	// Group in taxonomy order so the output is stable across runs.
	byType := make(map[string][]event.StructuredEvent)
	for _, e := range events {
		byType[e.EventType] = append(byType[e.EventType], e)
	}

	for _, code := range event.EventTypes {
		group := byType[code]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "=== %s (%d) ===\n", code, len(group))
		for _, e := range group {
			color := colorForImpact(e.Impact)
			fmt.Fprintf(w, "%s- [%s] %s | %s%s\n", color, e.Impact, e.CountryRegion, e.TweetText, reset)
		}
		fmt.Fprintln(w)
	}
}
