package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-slidepress/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // SLIDEPRESS_CONFIG: config file name or path
	Timeout    time.Duration // SLIDEPRESS_TIMEOUT: build timeout per deck
	Workers    int           // SLIDEPRESS_WORKERS: parallel decks

	OutputDir  string // SLIDEPRESS_OUTPUT_DIR: output directory
	Locale     string // SLIDEPRESS_LOCALE: document language
	Mode       string // SLIDEPRESS_JUSTIFY_MODE: script, bake, off
	AssetPath  string // SLIDEPRESS_ASSETS: custom asset directory
	BrowserBin string // SLIDEPRESS_BROWSER: Chrome binary
}

// knownEnvVars lists valid SLIDEPRESS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SLIDEPRESS_CONFIG":       true,
	"SLIDEPRESS_TIMEOUT":      true,
	"SLIDEPRESS_WORKERS":      true,
	"SLIDEPRESS_OUTPUT_DIR":   true,
	"SLIDEPRESS_LOCALE":       true,
	"SLIDEPRESS_JUSTIFY_MODE": true,
	"SLIDEPRESS_ASSETS":       true,
	"SLIDEPRESS_BROWSER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SLIDEPRESS_CONFIG"),
		OutputDir:  os.Getenv("SLIDEPRESS_OUTPUT_DIR"),
		Locale:     os.Getenv("SLIDEPRESS_LOCALE"),
		Mode:       os.Getenv("SLIDEPRESS_JUSTIFY_MODE"),
		AssetPath:  os.Getenv("SLIDEPRESS_ASSETS"),
		BrowserBin: os.Getenv("SLIDEPRESS_BROWSER"),
	}

	if timeout := os.Getenv("SLIDEPRESS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("SLIDEPRESS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SLIDEPRESS_* variables.
// Helps catch typos like SLIDEPRESS_LOCAL instead of SLIDEPRESS_LOCALE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SLIDEPRESS_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Locale != "" {
		cfg.Language.Locale = env.Locale
	}
	if env.Mode != "" {
		cfg.Justify.Mode = env.Mode
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
