package reportgen

import (
	"errors"

	"github.com/alnah/go-reportgen/internal/scrape"
)

// Sentinel errors for library operations.
var (
	// Input validation errors.
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleTooLong      = errors.New("title exceeds maximum length")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidPrompt     = errors.New("prompt template must contain exactly one %s")
	ErrInvalidImageWidth = errors.New("invalid image width")
	ErrInvalidRequestID  = errors.New("invalid request id")
	ErrConverterClosed   = errors.New("converter is closed")
	ErrDocumentBuild     = errors.New("failed to build document")

	// Collaborator failures. These are recovered inside Generate and only
	// show up in logs and Stats.
	ErrGenerationUnavailable = errors.New("text generation unavailable")
	ErrNoGenerator           = errors.New("no text generator configured")
	ErrSearchUnavailable     = errors.New("image search unavailable")
	ErrImageRetrieval        = errors.New("image retrieval failed")
	ErrImageTooLarge         = scrape.ErrTooLarge

	// PDF rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
