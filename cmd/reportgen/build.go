package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alnah/go-reportgen"
	"github.com/alnah/go-reportgen/internal/config"
	"github.com/alnah/go-reportgen/internal/scrape"
)

// ErrInvalidTimeout is returned for an unparsable or non-positive --timeout.
var ErrInvalidTimeout = errors.New("invalid timeout")

// newCLILogger builds the stderr text logger: Warn by default,
// Debug with --verbose, Error with --quiet.
func newCLILogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// mergeAssetFlags applies asset flags over config values (flags win).
func mergeAssetFlags(f assetFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Assets.Style = f.style
	}
	if f.templateSet != "" {
		cfg.Assets.TemplateSet = f.templateSet
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// resolveTimeout returns the per report deadline: --timeout, else the
// configured server.requestTimeout (which REPORTGEN_TIMEOUT overrides).
// Zero means the library default.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue == "" {
		return cfg.Server.RequestTimeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// newGenerator builds the Gemini generator from the key named by
// generation.apiKeyEnv. A missing key returns reportgen.ErrMissingAPIKey.
func newGenerator(ctx context.Context, gen config.GenerationConfig) (reportgen.Generator, error) {
	g, err := reportgen.NewGeminiGenerator(ctx, reportgen.GeminiConfig{
		APIKey:  os.Getenv(gen.APIKeyEnv),
		Model:   gen.Model,
		Timeout: gen.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// converterOptions translates a validated config into converter options.
// The generator is added only when non-nil.
func converterOptions(cfg *config.Config, timeout time.Duration, gen reportgen.Generator, logger *slog.Logger) ([]reportgen.Option, error) {
	clientTimeout := cfg.Images.Timeout
	if clientTimeout == 0 {
		clientTimeout = scrape.DefaultTimeout
	}
	client := &http.Client{Timeout: clientTimeout}

	searcher, err := scrape.NewImageSearcher(
		scrape.WithSearchURL(cfg.Images.SearchURL),
		scrape.WithSearchUserAgent(cfg.Images.UserAgent),
		scrape.WithSearchDoer(client))
	if err != nil {
		return nil, err
	}

	retrieverOpts := []scrape.RetrieverOption{
		scrape.WithRetrieverDoer(client),
		scrape.WithRetrieverUserAgent(cfg.Images.UserAgent),
	}
	if cfg.Images.MaxBytes > 0 {
		retrieverOpts = append(retrieverOpts, scrape.WithMaxBytes(cfg.Images.MaxBytes))
	}

	opts := []reportgen.Option{
		reportgen.WithLogger(logger),
		reportgen.WithSearcher(searcher),
		reportgen.WithRetriever(scrape.NewRetriever(retrieverOpts...)),
		reportgen.WithMaxImages(cfg.Images.Max),
		reportgen.WithPrompt(cfg.Generation.Prompt),
		reportgen.WithAssetPath(cfg.Assets.BasePath),
		reportgen.WithStyle(cfg.Assets.Style),
		reportgen.WithTemplateSet(cfg.Assets.TemplateSet),
	}
	if gen != nil {
		opts = append(opts, reportgen.WithGenerator(gen))
	}
	if cfg.Images.WidthInches > 0 {
		opts = append(opts, reportgen.WithImageWidth(cfg.Images.WidthInches))
	}
	if timeout > 0 {
		opts = append(opts, reportgen.WithTimeout(timeout))
	}
	return opts, nil
}
