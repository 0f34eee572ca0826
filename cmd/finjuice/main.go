// Command finjuice retrieves tweets from a single X account and transforms
// them into structured financial events via an LLM, with an interactive
// dashboard to explore the results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"github.com/HugoVuach/finjuice/internal/classify"
	"github.com/HugoVuach/finjuice/internal/config"
	"github.com/HugoVuach/finjuice/internal/console"
	"github.com/HugoVuach/finjuice/internal/dashboard"
	"github.com/HugoVuach/finjuice/internal/logging"
	"github.com/HugoVuach/finjuice/internal/metrics"
	"github.com/HugoVuach/finjuice/internal/pipeline"
	"github.com/HugoVuach/finjuice/internal/scheduler"
	"github.com/HugoVuach/finjuice/internal/scrape"
	"github.com/HugoVuach/finjuice/internal/store"
	"github.com/HugoVuach/finjuice/internal/timeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load environment: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.ParseLevel(env.LogLevel))

	cfg := config.LoadOrDefault()
	env.Apply(cfg)

	switch os.Args[1] {
	case "run":
		err = cmdRun(cfg, env, os.Args[2:])
	case "serve":
		err = cmdServe(cfg, env, os.Args[2:])
	case "show":
		err = cmdShow(cfg)
	case "timeline":
		err = cmdTimeline(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: finjuice <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run       Run the pipeline once (fetch, classify, persist) and exit")
	fmt.Println("  serve     Start the interactive dashboard server")
	fmt.Println("  show      Print the latest structured events to the terminal")
	fmt.Println("  timeline  Export the latest events as a static SVG timeline")
}

// buildPipeline wires the real X client and LLM provider into a Pipeline.
func buildPipeline(cfg *config.Config, env *config.Env, m *metrics.PipelineMetrics, runs *store.Runs) (*pipeline.Pipeline, error) {
	if env.XBearerToken == "" {
		return nil, errors.New("X_BEARER_TOKEN is not set")
	}
	if env.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}

	source := scrape.NewClient(env.XBearerToken)
	classifier := classify.New(classify.NewAnthropicProvider(env.AnthropicAPIKey, cfg.Pipeline.Model))

	var opts []pipeline.Option
	if m != nil {
		opts = append(opts, pipeline.WithMetrics(m))
	}
	if runs != nil {
		opts = append(opts, pipeline.WithRunLedger(runs))
	}
	return pipeline.New(source, classifier, cfg.Pipeline.OutputDir, opts...), nil
}

func openRunLedger(cfg *config.Config) *store.Runs {
	runs, err := store.OpenRuns(filepath.Join(cfg.Pipeline.OutputDir, "runs.db"))
	if err != nil {
		slog.Warn("run ledger unavailable", "error", err)
		return nil
	}
	return runs
}

func cmdRun(cfg *config.Config, env *config.Env, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	username := fs.String("username", cfg.Pipeline.Username, "X handle to analyze (without the @)")
	maxTweets := fs.Int("max-tweets", cfg.Pipeline.TweetLimit, "maximum number of tweets to retrieve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runs := openRunLedger(cfg)
	if runs != nil {
		defer runs.Close()
	}

	p, err := buildPipeline(cfg, env, nil, runs)
	if err != nil {
		return err
	}

	handle := strings.TrimPrefix(*username, "@")
	return p.Run(context.Background(), handle, *maxTweets)
}

func cmdServe(cfg *config.Config, env *config.Env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Dashboard.Addr, "dashboard listen address")
	open := fs.Bool("open", false, "open the dashboard in the system browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runs := openRunLedger(cfg)
	if runs != nil {
		defer runs.Close()
	}

	m := metrics.New()
	p, err := buildPipeline(cfg, env, m, runs)
	if err != nil {
		return err
	}

	srv, err := dashboard.NewServer(cfg, p, runs)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: *addr, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("dashboard listening", "addr", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Schedule.Enabled {
		sched := scheduler.New()
		err := sched.AddPipelineJob(cfg.Schedule.IntervalHours, func(jobCtx context.Context) error {
			return p.Run(jobCtx, cfg.Pipeline.Username, cfg.Pipeline.TweetLimit)
		})
		if err != nil {
			return err
		}
		sched.Start()
		g.Go(func() error {
			<-ctx.Done()
			<-sched.Stop().Done()
			return nil
		})
	}

	if *open {
		url := "http://localhost" + *addr
		if !strings.HasPrefix(*addr, ":") {
			url = "http://" + *addr
		}
		if err := browser.OpenURL(url); err != nil {
			slog.Warn("could not open browser", "error", err)
		}
	}

	return g.Wait()
}

func cmdShow(cfg *config.Config) error {
	dir := filepath.Join(cfg.Pipeline.OutputDir, store.StructuredDirName)
	path, events := store.ReadLatestStructured(dir)
	if len(events) == 0 {
		fmt.Println("No structured events found. Run `finjuice run` first.")
		return nil
	}
	console.Render(os.Stdout, path, events)
	return nil
}

func cmdTimeline(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	out := fs.String("out", "timeline_events.svg", "output SVG path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := filepath.Join(cfg.Pipeline.OutputDir, store.StructuredDirName)
	path, events := store.ReadLatestStructured(dir)
	if len(events) == 0 {
		fmt.Println("No structured events found, nothing to plot.")
		return nil
	}
	slog.Info("using events file", "path", path)

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := timeline.WriteSVG(f, timeline.EventPoints(events)); err != nil {
		return err
	}
	slog.Info("timeline saved", "path", *out)
	return nil
}
