// Package pipeline sequences one fetch -> classify -> persist run for a
// single account.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
	"github.com/HugoVuach/finjuice/internal/metrics"
	"github.com/HugoVuach/finjuice/internal/store"
)

// TweetSource fetches recent original tweets for an account handle.
type TweetSource interface {
	CollectTweets(ctx context.Context, handle string, maxTweets int) ([]event.RawPost, error)
}

// TweetClassifier classifies one tweet's text into a structured event.
type TweetClassifier interface {
	ClassifyTweet(ctx context.Context, text string) (event.Classification, error)
}

// Pipeline wires a tweet source and a classifier to the file store.
type Pipeline struct {
	source     TweetSource
	classifier TweetClassifier
	outputRoot string

	// Optional observability; both may be nil.
	metrics *metrics.PipelineMetrics
	runs    *store.Runs
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches Prometheus counters to the pipeline.
func WithMetrics(m *metrics.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithRunLedger attaches the SQLite run ledger. Ledger write failures are
// logged and never abort a run.
func WithRunLedger(r *store.Runs) Option {
	return func(p *Pipeline) { p.runs = r }
}

// New creates a Pipeline writing under outputRoot.
func New(source TweetSource, classifier TweetClassifier, outputRoot string, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     source,
		classifier: classifier,
		outputRoot: outputRoot,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pipeline run for username:
//
//  1. fetch recent original tweets (single page, single attempt)
//  2. persist the raw tweets
//  3. classify each tweet sequentially, in fetch order
//  4. persist the structured events under the same run prefix
//
// An empty fetch is a logged no-op, not an error; no files are written. Any
// other failure aborts the run and propagates: a mid-loop classification
// error means no structured file is written at all, including for tweets
// already classified.
func (p *Pipeline) Run(ctx context.Context, username string, maxTweets int) error {
	started := time.Now().UTC()
	prefix := username + "_" + started.Format("20060102_150405")

	rawDir := filepath.Join(p.outputRoot, store.RawDirName)
	structuredDir := filepath.Join(p.outputRoot, store.StructuredDirName)

	tweets, err := p.source.CollectTweets(ctx, username, maxTweets)
	if err != nil {
		p.finish(store.RunRecord{
			Prefix: prefix, Username: username, MaxTweets: maxTweets,
			Status: store.RunFailed, Error: err.Error(), StartedAt: started,
		})
		return err
	}

	if len(tweets) == 0 {
		slog.Warn("no tweets retrieved, stopping pipeline", "username", username)
		p.finish(store.RunRecord{
			Prefix: prefix, Username: username, MaxTweets: maxTweets,
			Status: store.RunEmpty, StartedAt: started,
		})
		return nil
	}

	if p.metrics != nil {
		p.metrics.TweetsFetched.Add(float64(len(tweets)))
	}

	rawPath, err := store.WriteRaw(tweets, rawDir, prefix)
	if err != nil {
		p.finish(store.RunRecord{
			Prefix: prefix, Username: username, MaxTweets: maxTweets,
			Fetched: len(tweets), Status: store.RunFailed, Error: err.Error(),
			StartedAt: started,
		})
		return err
	}
	slog.Info("raw tweets saved", "path", rawPath)

	slog.Info("starting LLM classification tweet by tweet", "count", len(tweets))
	events := make([]event.StructuredEvent, 0, len(tweets))
	for _, t := range tweets {
		c, err := p.classifier.ClassifyTweet(ctx, t.Text)
		if err != nil {
			if p.metrics != nil {
				p.metrics.ClassifyErrors.Inc()
			}
			p.finish(store.RunRecord{
				Prefix: prefix, Username: username, MaxTweets: maxTweets,
				Fetched: len(tweets), Status: store.RunFailed, Error: err.Error(),
				StartedAt: started,
			})
			return err
		}
		events = append(events, event.Merge(t, c))
	}

	structuredPath, err := store.WriteStructured(events, structuredDir, prefix)
	if err != nil {
		p.finish(store.RunRecord{
			Prefix: prefix, Username: username, MaxTweets: maxTweets,
			Fetched: len(tweets), Status: store.RunFailed, Error: err.Error(),
			StartedAt: started,
		})
		return err
	}
	slog.Info("structured events saved", "path", structuredPath)

	if p.metrics != nil {
		p.metrics.EventsProduced.Add(float64(len(events)))
	}
	p.finish(store.RunRecord{
		Prefix: prefix, Username: username, MaxTweets: maxTweets,
		Fetched: len(tweets), Events: len(events), Status: store.RunCompleted,
		StartedAt: started,
	})

	slog.Info("pipeline completed", "username", username, "events", len(events))
	return nil
}

// finish records the run outcome in the metrics and the ledger.
func (p *Pipeline) finish(rec store.RunRecord) {
	rec.FinishedAt = time.Now().UTC()
	if p.metrics != nil {
		p.metrics.RunsTotal.WithLabelValues(rec.Status).Inc()
		p.metrics.LastRunDuration.Set(rec.Duration().Seconds())
	}
	if p.runs != nil {
		if err := p.runs.Record(rec); err != nil {
			slog.Error("failed to record run in ledger", "error", err)
		}
	}
}
