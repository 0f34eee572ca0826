// Package classify turns a tweet's text into a structured financial event
// using an LLM. One request per tweet, deterministic decoding, no batching
// and no caching.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HugoVuach/finjuice/internal/event"
)

// ClassificationError indicates the LLM call failed or returned content that
// could not be parsed as the expected JSON object.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classifying tweet: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Provider is the interface to an LLM backend. Implementations return the
// model's raw classification, without vocabulary enforcement.
type Provider interface {
	Classify(ctx context.Context, text string) (event.Classification, error)
}

// Classifier wraps a Provider and enforces the fixed vocabularies on its
// output.
type Classifier struct {
	provider Provider
}

// New creates a Classifier backed by the given provider.
func New(provider Provider) *Classifier {
	return &Classifier{provider: provider}
}

// ClassifyTweet classifies one tweet's text. Out-of-vocabulary values in the
// model's answer are replaced by the documented defaults; any provider error
// propagates unchanged.
func (c *Classifier) ClassifyTweet(ctx context.Context, text string) (event.Classification, error) {
	raw, err := c.provider.Classify(ctx, text)
	if err != nil {
		return event.Classification{}, err
	}

	coerced := event.Coerce(raw)
	if coerced != raw {
		slog.Debug("coerced out-of-vocabulary classification",
			"event_type", raw.EventType, "country_region", raw.CountryRegion, "impact", raw.Impact)
	}
	return coerced, nil
}
