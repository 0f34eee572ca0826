// Package timeline renders a scatter timeline of structured events as SVG:
// x is time, y is the event category, color and size follow the impact
// level. Used inline by the dashboard and by the timeline subcommand for
// static export.
package timeline

import (
	"fmt"
	"html"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
)

// Point is one marker on the timeline.
type Point struct {
	At       time.Time // plotted x position (the dashboard passes jittered times)
	Category string    // taxonomy code, defines the y lane
	Impact   string
	Size     float64  // marker size from the impact mapping
	Tooltip  []string // lines shown on hover
}

// EventPoints converts structured events directly to plot points with their
// true timestamps. Events whose timestamp does not parse are skipped.
func EventPoints(events []event.StructuredEvent) []Point {
	var points []Point
	for _, e := range events {
		t, err := time.Parse(time.RFC3339, e.TweetCreatedAt)
		if err != nil {
			continue
		}
		points = append(points, Point{
			At:       t.UTC(),
			Category: e.EventType,
			Impact:   e.Impact,
			Size:     event.ImpactSize(e.Impact),
			Tooltip: []string{
				"Time: " + t.UTC().Format("2006/01/02 15:04:05"),
				"Region: " + e.CountryRegion,
				"Impact: " + e.Impact,
				"Tweet: " + e.TweetText,
			},
		})
	}
	return points
}

// impactColors is the fixed 3-color scale: grey, yellow, red.
var impactColors = map[string]string{
	"Faible": "#B0B0B0",
	"Moyen":  "#FFC300",
	"Élevé":  "#FF0000",
}

const fallbackColor = "#808080"

// ImpactColor returns the marker color for an impact level.
func ImpactColor(impact string) string {
	if c, ok := impactColors[impact]; ok {
		return c
	}
	return fallbackColor
}

// Layout constants. The lane area grows with the number of categories.
const (
	width      = 1100
	laneHeight = 52
	marginL    = 170
	marginR    = 30
	marginT    = 20
	marginB    = 50
)

// lanes returns the category codes present in points, in taxonomy order,
// unknown codes last.
func lanes(points []Point) []string {
	present := make(map[string]bool)
	for _, p := range points {
		present[p.Category] = true
	}

	var out []string
	for _, code := range event.EventTypes {
		if present[code] {
			out = append(out, code)
			delete(present, code)
		}
	}
	var rest []string
	for code := range present {
		rest = append(rest, code)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// WriteSVG renders the timeline for the given points.
func WriteSVG(w io.Writer, points []Point) error {
	if len(points) == 0 {
		_, err := fmt.Fprint(w, `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="40"><text x="10" y="25" font-size="14">No events to plot.</text></svg>`)
		return err
	}

	cats := lanes(points)
	laneIndex := make(map[string]int, len(cats))
	for i, c := range cats {
		laneIndex[c] = i
	}

	height := marginT + laneHeight*len(cats) + marginB

	minT, maxT := points[0].At, points[0].At
	for _, p := range points {
		if p.At.Before(minT) {
			minT = p.At
		}
		if p.At.After(maxT) {
			maxT = p.At
		}
	}
	span := maxT.Sub(minT)
	if span <= 0 {
		span = time.Minute // all points coincide; give the axis some width
	}

	xFor := func(t time.Time) float64 {
		frac := float64(t.Sub(minT)) / float64(span)
		return marginL + frac*float64(width-marginL-marginR)
	}
	yFor := func(cat string) float64 {
		return float64(marginT + laneIndex[cat]*laneHeight + laneHeight/2)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`, width, height)
	sb.WriteString("\n")

	// Lane labels and separators.
	for i, c := range cats {
		y := marginT + i*laneHeight
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#eee"/>`, marginL, y, width-marginR, y)
		fmt.Fprintf(&sb, `<text x="%d" y="%.0f" font-size="12" text-anchor="end" fill="#444">%s</text>`,
			marginL-8, yFor(c)+4, html.EscapeString(event.PrettyEventType(c)))
		sb.WriteString("\n")
	}

	// X axis with a handful of time ticks.
	axisY := marginT + laneHeight*len(cats)
	fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#999"/>`, marginL, axisY, width-marginR, axisY)
	sb.WriteString("\n")
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		t := minT.Add(time.Duration(float64(span) * float64(i) / ticks))
		x := xFor(t)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999"/>`, x, axisY, x, axisY+5)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="10" text-anchor="middle" fill="#444">%s</text>`,
			x, axisY+20, t.Format("01/02 15:04"))
		sb.WriteString("\n")
	}

	// Markers. Radius from the area-like size mapping.
	for _, p := range points {
		r := math.Sqrt(p.Size)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.8">`,
			xFor(p.At), yFor(p.Category), r, ImpactColor(p.Impact))
		if len(p.Tooltip) > 0 {
			fmt.Fprintf(&sb, `<title>%s</title>`, html.EscapeString(strings.Join(p.Tooltip, "\n")))
		}
		sb.WriteString(`</circle>`)
		sb.WriteString("\n")
	}

	sb.WriteString(`</svg>`)
	_, err := io.WriteString(w, sb.String())
	return err
}
