package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/HugoVuach/finjuice/internal/config"
	"github.com/HugoVuach/finjuice/internal/event"
	"github.com/HugoVuach/finjuice/internal/store"
)

// mockRunner records trigger calls and optionally fails.
type mockRunner struct {
	err      error
	username string
	max      int
	calls    int
}

func (m *mockRunner) Run(_ context.Context, username string, maxTweets int) error {
	m.calls++
	m.username = username
	m.max = maxTweets
	return m.err
}

func newTestDashboard(t *testing.T, events []event.StructuredEvent) (*Server, string) {
	t.Helper()
	root := t.TempDir()

	if events != nil {
		dir := filepath.Join(root, store.StructuredDirName)
		if _, err := store.WriteStructured(events, dir, "financialjuice_20251122_023500"); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Pipeline.OutputDir = root

	srv, err := NewServer(cfg, &mockRunner{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, root
}

func get(t *testing.T, srv *Server, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(body)
}

func TestIndexEmptyState(t *testing.T) {
	srv, _ := newTestDashboard(t, nil)

	code, body := get(t, srv, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "No structured events found yet") {
		t.Error("missing empty-state notice")
	}
}

func TestIndexRendersEventsAndSummary(t *testing.T) {
	events := []event.StructuredEvent{
		{TweetID: "1", TweetCreatedAt: "2025-11-22T02:34:36.000Z", TweetText: "BoE decision", EventType: "CENTRAL_BANK", CountryRegion: "UK", Impact: "Élevé", Explanation: "Rates."},
		{TweetID: "2", TweetCreatedAt: "2025-11-22T02:30:00.000Z", TweetText: "BTC pops", EventType: "CRYPTO", CountryRegion: "Global", Impact: "Faible", Explanation: "Vol."},
	}
	srv, _ := newTestDashboard(t, events)

	code, body := get(t, srv, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		"Central banks",          // pretty label in table and options
		"BoE decision",           // tweet text
		"2025/11/22 02:34:36",    // true display timestamp
		"<svg",                   // inline timeline
		"#FF0000",                // Élevé marker color
		"Number of events",       // context panel
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

// Exercises the jitter path from many goroutines at once; run with -race.
func TestIndexConcurrentRequests(t *testing.T) {
	events := []event.StructuredEvent{
		{TweetID: "1", TweetCreatedAt: "2025-11-22T02:34:36.000Z", TweetText: "BoE decision", EventType: "CENTRAL_BANK", CountryRegion: "UK", Impact: "Élevé"},
		{TweetID: "2", TweetCreatedAt: "2025-11-22T02:30:00.000Z", TweetText: "BTC pops", EventType: "CRYPTO", CountryRegion: "Global", Impact: "Faible"},
	}
	srv, _ := newTestDashboard(t, events)

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: status = %d", i, code)
		}
	}
}

func TestIndexNoMatchNotice(t *testing.T) {
	events := []event.StructuredEvent{
		{TweetID: "1", TweetCreatedAt: "2025-11-22T02:34:36.000Z", EventType: "CRYPTO", CountryRegion: "Global", Impact: "Faible"},
	}
	srv, _ := newTestDashboard(t, events)

	code, body := get(t, srv, "/?impact="+url.QueryEscape("Élevé"))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "No events match the current filter selection") {
		t.Error("missing no-match notice")
	}
}

func TestRunTriggerSuccessRedirects(t *testing.T) {
	srv, _ := newTestDashboard(t, nil)
	runner := &mockRunner{}
	srv.runner = runner

	form := url.Values{"username": {"@financialjuice"}, "max_tweets": {"25"}}
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if runner.calls != 1 || runner.username != "financialjuice" || runner.max != 25 {
		t.Errorf("runner called with %q/%d (%d calls)", runner.username, runner.max, runner.calls)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "msg=") {
		t.Errorf("Location = %q, want success flash", loc)
	}
}

func TestRunTriggerFailureBecomesFlashMessage(t *testing.T) {
	srv, _ := newTestDashboard(t, nil)
	srv.runner = &mockRunner{err: errors.New("account not found")}

	form := url.Values{"username": {"ghost"}}
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "err=") || !strings.Contains(loc, url.QueryEscape("account not found")) {
		t.Errorf("Location = %q, want error flash", loc)
	}

	// The dashboard itself keeps serving.
	if code, _ := get(t, srv, "/"); code != http.StatusOK {
		t.Errorf("dashboard unavailable after failed run: %d", code)
	}
}

func TestRunTriggerRejectsEmptyUsername(t *testing.T) {
	srv, _ := newTestDashboard(t, nil)
	runner := &mockRunner{}
	srv.runner = runner

	form := url.Values{"username": {"  @  "}}
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if runner.calls != 0 {
		t.Error("runner should not run for an empty username")
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "err=") {
		t.Errorf("Location = %q, want validation error", loc)
	}
}
