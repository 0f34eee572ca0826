package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Pipeline.Username != "financialjuice" {
		t.Errorf("Pipeline.Username = %q, want financialjuice", cfg.Pipeline.Username)
	}
	if cfg.Pipeline.TweetLimit != 50 {
		t.Errorf("Pipeline.TweetLimit = %d, want 50", cfg.Pipeline.TweetLimit)
	}
	if cfg.Pipeline.OutputDir != "./data" {
		t.Errorf("Pipeline.OutputDir = %q, want ./data", cfg.Pipeline.OutputDir)
	}
	if cfg.Dashboard.Addr != ":8080" {
		t.Errorf("Dashboard.Addr = %q, want :8080", cfg.Dashboard.Addr)
	}
	if cfg.Schedule.Enabled {
		t.Error("Schedule.Enabled = true, want false")
	}
}

func TestEnvApplyOverlaysOnlySetFields(t *testing.T) {
	cfg := Default()
	env := &Env{
		Model:      "claude-haiku-x",
		TweetLimit: 25,
	}

	env.Apply(cfg)

	if cfg.Pipeline.Model != "claude-haiku-x" {
		t.Errorf("Pipeline.Model = %q, want claude-haiku-x", cfg.Pipeline.Model)
	}
	if cfg.Pipeline.TweetLimit != 25 {
		t.Errorf("Pipeline.TweetLimit = %d, want 25", cfg.Pipeline.TweetLimit)
	}
	if cfg.Pipeline.OutputDir != "./data" {
		t.Errorf("Pipeline.OutputDir = %q, unset override must not clear the default", cfg.Pipeline.OutputDir)
	}
	if cfg.Pipeline.Username != "financialjuice" {
		t.Errorf("Pipeline.Username = %q, env never overrides the account", cfg.Pipeline.Username)
	}
}

func TestEnvApplyZeroValuesAreNoOps(t *testing.T) {
	cfg := Default()
	(&Env{}).Apply(cfg)

	want := Default()
	if *cfg != *want {
		t.Errorf("empty Env changed config: got %+v, want %+v", cfg, want)
	}
}
