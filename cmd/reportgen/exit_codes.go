package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-reportgen"
	"github.com/alnah/go-reportgen/internal/assets"
	"github.com/alnah/go-reportgen/internal/config"
	"github.com/alnah/go-reportgen/internal/hints"
	"github.com/alnah/go-reportgen/internal/yamlutil"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// Exit codes for the reportgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Report written or server stopped cleanly
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input
	ExitIO      = 3 // Output not writable, permission denied
	ExitBrowser = 4 // Browser/Chrome errors (pdf output)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, reportgen.ErrBrowserConnect) ||
		errors.Is(err, reportgen.ErrPageCreate) ||
		errors.Is(err, reportgen.ErrPageLoad) ||
		errors.Is(err, reportgen.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrWriteReport) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrNoTitle) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, yamlutil.ErrInputTooLarge) ||
		errors.Is(err, reportgen.ErrEmptyTitle) ||
		errors.Is(err, reportgen.ErrTitleTooLong) ||
		errors.Is(err, reportgen.ErrUnsupportedFormat) ||
		errors.Is(err, reportgen.ErrInvalidPrompt) ||
		errors.Is(err, reportgen.ErrInvalidImageWidth) ||
		errors.Is(err, reportgen.ErrInvalidRequestID) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, reportgen.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("reportgen"))
	case errors.Is(err, reportgen.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat(config.Formats)
	case errors.Is(err, ErrWriteReport):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
