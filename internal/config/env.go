package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds secrets and overrides supplied through the process environment.
type Env struct {
	// Credentials are validated where they are used: the offline
	// subcommands run without them.
	XBearerToken    string `envconfig:"X_BEARER_TOKEN"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	Model           string `envconfig:"FINJUICE_MODEL"`
	TweetLimit      int    `envconfig:"FINJUICE_TWEET_LIMIT"`
	OutputDir       string `envconfig:"FINJUICE_OUTPUT_DIR"`
	LogLevel        string `envconfig:"FINJUICE_LOG_LEVEL" default:"info"`
}

// LoadEnv reads the environment once at process start. A .env file in the
// working directory is honored when present, mainly for local development.
func LoadEnv() (*Env, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Apply overlays the environment overrides onto the file-based config.
func (e *Env) Apply(cfg *Config) {
	if e.Model != "" {
		cfg.Pipeline.Model = e.Model
	}
	if e.TweetLimit > 0 {
		cfg.Pipeline.TweetLimit = e.TweetLimit
	}
	if e.OutputDir != "" {
		cfg.Pipeline.OutputDir = e.OutputDir
	}
}
