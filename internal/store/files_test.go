package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/HugoVuach/finjuice/internal/event"
)

func sampleEvents() []event.StructuredEvent {
	return []event.StructuredEvent{
		{
			TweetID:        "1",
			TweetCreatedAt: "2025-11-22T02:34:36.000Z",
			TweetText:      "BoE holds rates — décision attendue",
			EventType:      "CENTRAL_BANK",
			CountryRegion:  "UK",
			Impact:         "Élevé",
			Explanation:    "Rate decision moves gilts.",
		},
		{
			TweetID:        "2",
			TweetCreatedAt: "2025-11-22T02:30:00.000Z",
			TweetText:      "Oil slides 2%",
			EventType:      "COMMODITIES",
			CountryRegion:  "Global",
			Impact:         "Moyen",
			Explanation:    "Supply news.",
		},
	}
}

func TestWriteStructuredRoundTrip(t *testing.T) {
	dir := t.TempDir()
	events := sampleEvents()

	path, err := WriteStructured(events, dir, "financialjuice_20251122_023500")
	if err != nil {
		t.Fatalf("WriteStructured: %v", err)
	}
	if filepath.Base(path) != "financialjuice_20251122_023500_events.json" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}

	gotPath, got := ReadLatestStructured(dir)
	if gotPath != path {
		t.Errorf("ReadLatestStructured path = %q, want %q", gotPath, path)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, events)
	}
}

func TestWriteStructuredPreservesNonASCII(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteStructured(sampleEvents(), dir, "p")
	if err != nil {
		t.Fatalf("WriteStructured: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Élevé") {
		t.Error("non-ASCII characters were escaped in the output file")
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("output file is not pretty-printed")
	}
}

func TestWriteRawFilename(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "raw_tweets") // exercises MkdirAll
	posts := []event.RawPost{{ID: "1", CreatedAt: "2025-11-22T02:34:36.000Z", Text: "hello"}}

	path, err := WriteRaw(posts, dir, "acct_20251122_023500")
	if err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if filepath.Base(path) != "acct_20251122_023500_tweets_raw.json" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("raw file not written: %v", err)
	}
}

func TestReadLatestStructuredPicksLexicographicLast(t *testing.T) {
	dir := t.TempDir()
	for _, prefix := range []string{"a", "b", "c"} {
		events := []event.StructuredEvent{{TweetID: prefix}}
		if _, err := WriteStructured(events, dir, prefix); err != nil {
			t.Fatalf("WriteStructured(%s): %v", prefix, err)
		}
	}

	path, got := ReadLatestStructured(dir)
	if filepath.Base(path) != "c_events.json" {
		t.Errorf("latest path = %q, want c_events.json", path)
	}
	if len(got) != 1 || got[0].TweetID != "c" {
		t.Errorf("latest content = %+v, want the c file", got)
	}
}

func TestReadLatestStructuredDegradedCases(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		path, got := ReadLatestStructured(filepath.Join(t.TempDir(), "does-not-exist"))
		if path != "" || got != nil {
			t.Errorf("got (%q, %v), want (\"\", nil)", path, got)
		}
	})

	t.Run("no matching files", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
			t.Fatal(err)
		}
		path, got := ReadLatestStructured(dir)
		if path != "" || got != nil {
			t.Errorf("got (%q, %v), want (\"\", nil)", path, got)
		}
	})

	t.Run("unparsable latest file reports path with empty content", func(t *testing.T) {
		dir := t.TempDir()
		bad := filepath.Join(dir, "z_events.json")
		if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		path, got := ReadLatestStructured(dir)
		if path != bad {
			t.Errorf("path = %q, want %q", path, bad)
		}
		if got != nil {
			t.Errorf("content = %v, want nil", got)
		}
	})
}
