// Package store persists pipeline output: run-scoped JSON files for raw
// tweets and structured events, plus a SQLite ledger of past runs.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/HugoVuach/finjuice/internal/event"
)

// Subdirectories under the output root.
const (
	RawDirName        = "raw_tweets"
	StructuredDirName = "structured_events"
)

// PersistenceError indicates a directory or file write failed.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// writeJSON pretty-prints v to path, preserving non-ASCII characters.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

// WriteRaw saves raw tweets as {prefix}_tweets_raw.json under dir, creating
// the directory if needed. Returns the file path.
func WriteRaw(posts []event.RawPost, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &PersistenceError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, prefix+"_tweets_raw.json")
	if err := writeJSON(path, posts); err != nil {
		return "", err
	}
	return path, nil
}

// WriteStructured saves structured events as {prefix}_events.json under dir,
// creating the directory if needed. Returns the file path.
func WriteStructured(events []event.StructuredEvent, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &PersistenceError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, prefix+"_events.json")
	if err := writeJSON(path, events); err != nil {
		return "", err
	}
	return path, nil
}

// ReadLatestStructured returns the lexicographically last *_events.json file
// in dir and its parsed content. The timestamp-embedded prefixes make
// lexicographic order chronological.
//
// A missing directory or an empty listing yields ("", nil). A latest file
// that fails to parse yields (path, nil): the path is reported but the
// content is treated as empty, a degraded read rather than a fatal error.
func ReadLatestStructured(dir string) (string, []event.StructuredEvent) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_events.json"))
	if err != nil || len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return latest, nil
	}
	var events []event.StructuredEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return latest, nil
	}
	return latest, events
}
