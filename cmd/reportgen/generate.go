package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportgen"
	"github.com/alnah/go-reportgen/internal/config"
	"github.com/alnah/go-reportgen/internal/hints"
)

// Sentinel errors for the generate command.
var (
	ErrNoTitle     = errors.New("no title specified")
	ErrWriteReport = errors.New("failed to write report")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runGenerate produces one report and writes it to disk.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	title := strings.TrimSpace(strings.Join(positional, " "))
	if title == "" {
		return ErrNoTitle
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeGenerateFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := reportgen.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, cfg)
	if err != nil {
		return err
	}

	logger := newCLILogger(env.Stderr, flags.common)
	gen, err := newGenerator(ctx, cfg.Generation)
	if err != nil {
		logger.Warn("text generation disabled", slog.Any("error", err))
		if errors.Is(err, reportgen.ErrMissingAPIKey) && !flags.common.quiet {
			fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForMissingAPIKey(cfg.Generation.APIKeyEnv), "\n"))
		}
	}

	opts, err := converterOptions(cfg, timeout, gen, logger)
	if err != nil {
		return err
	}
	conv, err := reportgen.NewConverter(append(opts, env.Options...)...)
	if err != nil {
		return err
	}
	defer conv.Close()

	result, err := conv.Generate(ctx, reportgen.Input{Title: title, Format: format})
	if err != nil {
		return err
	}

	outPath := resolveOutputPath(flags.output, cfg.Output.Dir, result.Filename)
	if err := writeReport(outPath, result.Data); err != nil {
		return err
	}

	if flags.common.verbose {
		printStats(env, result)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// mergeGenerateFlags applies explicitly set flags over config values.
func mergeGenerateFlags(f *generateFlags, cfg *config.Config) {
	if f.format != "" {
		cfg.Output.Format = strings.ToLower(f.format)
	}
	if f.model != "" {
		cfg.Generation.Model = f.model
	}
	if f.maxImages != maxImagesUnset {
		cfg.Images.Max = f.maxImages
	}
	if f.imageWidth != 0 {
		cfg.Images.WidthInches = f.imageWidth
	}
	mergeAssetFlags(f.assets, cfg)
}

// resolveOutputPath picks where the report goes. An --output ending in a
// separator or naming an existing directory receives the generated filename;
// any other --output is the file path itself. Without --output the file
// lands in dir, or the current directory.
func resolveOutputPath(output, dir, filename string) string {
	if output == "" {
		if dir == "" {
			return filename
		}
		return filepath.Join(dir, filename)
	}
	if strings.HasSuffix(output, string(filepath.Separator)) || strings.HasSuffix(output, "/") {
		return filepath.Join(output, filename)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filename)
	}
	return output
}

// writeReport writes data, creating parent directories as needed.
func writeReport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteReport, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- reports are meant to be shared
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}

// printStats writes a summary of a finished report to stderr.
func printStats(env *Environment, r *reportgen.Result) {
	s := r.Stats
	fmt.Fprintf(env.Stderr, "Request:    %s\n", r.RequestID)
	fmt.Fprintf(env.Stderr, "Format:     %s (%d bytes)\n", r.Format, len(r.Data))
	fmt.Fprintf(env.Stderr, "Headings:   %d\n", s.Headings)
	fmt.Fprintf(env.Stderr, "Paragraphs: %d\n", s.Paragraphs)
	fmt.Fprintf(env.Stderr, "Images:     %d placed, %d fetched, %d failed\n", s.ImagesPlaced, s.ImagesFetched, s.ImageFailures)
	if s.SearchFailed {
		fmt.Fprintln(env.Stderr, "Search:     failed")
	}
	if s.Fallback {
		fmt.Fprintln(env.Stderr, "Content:    placeholder (generation unavailable)")
	}
	fmt.Fprintf(env.Stderr, "Elapsed:    %s\n", s.Elapsed.Round(time.Millisecond))
}
