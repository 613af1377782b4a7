package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-reportgen/internal/config"
)

// envConfig holds configuration from REPORTGEN_* environment variables.
type envConfig struct {
	ConfigPath string        // REPORTGEN_CONFIG: config file name or path
	Format     string        // REPORTGEN_FORMAT: docx, html, pdf
	Model      string        // REPORTGEN_MODEL: Gemini model name
	OutputDir  string        // REPORTGEN_OUTPUT_DIR: CLI output directory
	Addr       string        // REPORTGEN_ADDR: server listen address
	Workers    int           // REPORTGEN_WORKERS: server converter pool size
	Timeout    time.Duration // REPORTGEN_TIMEOUT: per report deadline
}

// knownEnvVars lists valid REPORTGEN_* environment variables.
var knownEnvVars = map[string]bool{
	"REPORTGEN_CONFIG":     true,
	"REPORTGEN_FORMAT":     true,
	"REPORTGEN_MODEL":      true,
	"REPORTGEN_OUTPUT_DIR": true,
	"REPORTGEN_ADDR":       true,
	"REPORTGEN_WORKERS":    true,
	"REPORTGEN_TIMEOUT":    true,
	"REPORTGEN_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads the REPORTGEN_* variables.
// Unparsable or non-positive durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("REPORTGEN_CONFIG"),
		Format:     strings.ToLower(strings.TrimSpace(os.Getenv("REPORTGEN_FORMAT"))),
		Model:      os.Getenv("REPORTGEN_MODEL"),
		OutputDir:  os.Getenv("REPORTGEN_OUTPUT_DIR"),
		Addr:       os.Getenv("REPORTGEN_ADDR"),
	}

	if timeout := os.Getenv("REPORTGEN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("REPORTGEN_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars writes a warning for every unrecognized REPORTGEN_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "REPORTGEN_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides file values with set environment variables.
// Flags are merged afterwards: flags > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Model != "" {
		cfg.Generation.Model = env.Model
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Addr != "" {
		cfg.Server.Address = env.Addr
	}
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Server.RequestTimeout = env.Timeout
	}
}

// loadConfig resolves the configuration for a command. The --config flag wins
// over REPORTGEN_CONFIG; without either the defaults are used. Environment
// overrides are applied but not validated; callers validate after merging flags.
func loadConfig(flagPath string, env *envConfig) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(env, cfg)
	return cfg, nil
}
