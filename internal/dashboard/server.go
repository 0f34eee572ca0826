package dashboard

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HugoVuach/finjuice/internal/config"
	"github.com/HugoVuach/finjuice/internal/event"
	"github.com/HugoVuach/finjuice/internal/store"
	"github.com/HugoVuach/finjuice/internal/timeline"
)

//go:embed templates/*.html
var templateFS embed.FS

// Runner triggers one synchronous pipeline run. Satisfied by
// *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, username string, maxTweets int) error
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg    *config.Config
	runner Runner
	runs   *store.Runs // may be nil
	tmpl   *template.Template
	router *chi.Mux
}

// NewServer builds the dashboard for the given config. runner handles the
// interactive pipeline trigger; runs supplies the recent-runs panel and may
// be nil.
func NewServer(cfg *config.Config, runner Runner, runs *store.Runs) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		runs:   runs,
		tmpl:   tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Post("/run", s.handleRun)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler for the dashboard.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) structuredDir() string {
	return filepath.Join(s.cfg.Pipeline.OutputDir, store.StructuredDirName)
}

// option is one entry of a multi-select filter control.
type option struct {
	Value    string
	Label    string
	Selected bool
}

// indexData is the template model for the main page.
type indexData struct {
	Username   string
	TweetLimit int
	SourceFile string
	Flash      string
	FlashError string

	Empty   bool // no events loaded at all
	NoMatch bool // filters excluded every row

	Filters       Filters
	WindowChoices []WindowChoice
	Days          []string
	ImpactOptions []option
	TypeOptions   []option
	RegionOptions []option

	Summary     Summary
	TimelineSVG template.HTML
	Rows        []DisplayRow
	SortKey     string
	SortDir     string
	SortLinks   map[string]string

	Runs []store.RunRecord
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := indexData{
		Username:      s.cfg.Pipeline.Username,
		TweetLimit:    s.cfg.Pipeline.TweetLimit,
		Flash:         q.Get("msg"),
		FlashError:    q.Get("err"),
		WindowChoices: WindowChoices,
	}
	if s.runs != nil {
		recs, err := s.runs.Recent(s.cfg.Dashboard.RecentRuns)
		if err != nil {
			slog.Error("loading run history", "error", err)
		}
		data.Runs = recs
	}

	path, events := store.ReadLatestStructured(s.structuredDir())
	data.SourceFile = path
	if len(events) == 0 {
		data.Empty = true
		s.render(w, data)
		return
	}

	rows := Derive(events)
	data.Days = uniqueDays(rows)
	data.Filters = FiltersFromQuery(q)
	data.ImpactOptions = impactOptions(rows, data.Filters.Impacts)
	data.TypeOptions = typeOptions(rows, data.Filters.Types)
	data.RegionOptions = regionOptions(rows, data.Filters.Regions)

	filtered := data.Filters.Apply(rows)
	if len(filtered) == 0 {
		data.NoMatch = true
		s.render(w, data)
		return
	}

	data.Summary = Summarize(filtered)

	// Requests are served concurrently and rand.Rand is not goroutine-safe,
	// so each request jitters with its own generator.
	ApplyJitter(filtered, rand.New(rand.NewSource(time.Now().UnixNano())))
	var svg strings.Builder
	if err := timeline.WriteSVG(&svg, timelinePoints(filtered)); err != nil {
		slog.Error("rendering timeline", "error", err)
	}
	data.TimelineSVG = template.HTML(svg.String())

	data.SortKey = q.Get("sort")
	data.SortDir = q.Get("dir")
	data.SortLinks = sortLinks(q, data.SortKey, data.SortDir)
	sortRows(filtered, data.SortKey, data.SortDir)
	data.Rows = filtered

	s.render(w, data)
}

func (s *Server) render(w http.ResponseWriter, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.Error("rendering page", "error", err)
	}
}

// handleRun triggers the pipeline synchronously. This is the single place
// that catches propagated pipeline errors: they become a flash message and
// the previously loaded data stays on screen.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	username = strings.TrimSpace(strings.TrimPrefix(username, "@"))
	if username == "" {
		http.Redirect(w, r, "/?err="+url.QueryEscape("Please provide a valid X username."), http.StatusSeeOther)
		return
	}
	maxTweets, err := strconv.Atoi(r.FormValue("max_tweets"))
	if err != nil || maxTweets < 1 {
		maxTweets = s.cfg.Pipeline.TweetLimit
	}

	slog.Info("pipeline triggered from dashboard", "username", username, "max_tweets", maxTweets)
	if err := s.runner.Run(r.Context(), username, maxTweets); err != nil {
		slog.Error("pipeline run failed", "error", err)
		http.Redirect(w, r, "/?err="+url.QueryEscape("Pipeline failed: "+err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?msg="+url.QueryEscape("Pipeline completed. Latest results reloaded below."), http.StatusSeeOther)
}

// timelinePoints converts jittered rows to plot points. Tooltips carry the
// true timestamp, never the jittered one.
func timelinePoints(rows []DisplayRow) []timeline.Point {
	points := make([]timeline.Point, len(rows))
	for i, r := range rows {
		points[i] = timeline.Point{
			At:       r.Jittered,
			Category: r.EventType,
			Impact:   r.Impact,
			Size:     r.Size,
			Tooltip: []string{
				"Time: " + r.DisplayTime,
				"Event type: " + r.TypeLabel,
				"Region: " + r.CountryRegion,
				"Impact: " + r.Impact,
				"Tweet: " + r.TweetText,
				"Explanation: " + r.Explanation,
			},
		}
	}
	return points
}

func uniqueDays(rows []DisplayRow) []string {
	seen := make(map[string]bool)
	var days []string
	for _, r := range rows {
		if r.Date != "" && !seen[r.Date] {
			seen[r.Date] = true
			days = append(days, r.Date)
		}
	}
	sort.Strings(days)
	return days
}

// selectedOrAll reports whether value should render as selected: either it
// is in the selection, or nothing is selected on that dimension.
func selectedOrAll(selection []string, value string) bool {
	return len(selection) == 0 || memberOf(selection, value)
}

func impactOptions(rows []DisplayRow, selection []string) []option {
	present := make(map[string]bool)
	for _, r := range rows {
		present[r.Impact] = true
	}
	var opts []option
	for _, impact := range event.Impacts {
		if present[impact] {
			opts = append(opts, option{Value: impact, Label: impact, Selected: selectedOrAll(selection, impact)})
		}
	}
	return opts
}

func typeOptions(rows []DisplayRow, selection []string) []option {
	present := make(map[string]bool)
	for _, r := range rows {
		present[r.EventType] = true
	}
	var opts []option
	for _, code := range event.EventTypes {
		if present[code] {
			opts = append(opts, option{Value: code, Label: event.PrettyEventType(code), Selected: selectedOrAll(selection, code)})
			delete(present, code)
		}
	}
	var rest []string
	for code := range present {
		rest = append(rest, code)
	}
	sort.Strings(rest)
	for _, code := range rest {
		opts = append(opts, option{Value: code, Label: event.PrettyEventType(code), Selected: selectedOrAll(selection, code)})
	}
	return opts
}

func regionOptions(rows []DisplayRow, selection []string) []option {
	present := make(map[string]bool)
	for _, r := range rows {
		present[r.CountryRegion] = true
	}
	var regions []string
	for region := range present {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	var opts []option
	for _, region := range regions {
		opts = append(opts, option{Value: region, Label: region, Selected: selectedOrAll(selection, region)})
	}
	return opts
}

// sortLinks builds one header link per sortable column, preserving the
// current filter selection and toggling direction on the active column.
func sortLinks(q url.Values, activeKey, activeDir string) map[string]string {
	links := make(map[string]string)
	for _, key := range []string{"time", "type", "region", "impact", "text"} {
		params := url.Values{}
		for k, vs := range q {
			if k == "sort" || k == "dir" || k == "msg" || k == "err" {
				continue
			}
			params[k] = vs
		}
		params.Set("sort", key)
		if key == activeKey && activeDir != "desc" {
			params.Set("dir", "desc")
		}
		links[key] = "/?" + params.Encode()
	}
	return links
}

// sortRows orders the detail table. Default is chronological ascending.
func sortRows(rows []DisplayRow, key, dir string) {
	less := func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) }
	switch key {
	case "type":
		less = func(i, j int) bool { return rows[i].TypeLabel < rows[j].TypeLabel }
	case "region":
		less = func(i, j int) bool { return rows[i].CountryRegion < rows[j].CountryRegion }
	case "impact":
		less = func(i, j int) bool { return event.ImpactRank(rows[i].Impact) < event.ImpactRank(rows[j].Impact) }
	case "text":
		less = func(i, j int) bool { return rows[i].TweetText < rows[j].TweetText }
	}
	if dir == "desc" {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.SliceStable(rows, less)
}
