package reportgen

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-reportgen/internal/docx"
	"github.com/alnah/go-reportgen/internal/fileutil"
	"github.com/alnah/go-reportgen/internal/htmldoc"
)

// Format selects the kind of artifact Generate produces.
type Format string

// Supported output formats.
const (
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// DefaultFormat is used when Input.Format is empty.
const DefaultFormat = FormatDOCX

// Formats lists the supported formats, default first.
func Formats() []Format {
	return []Format{FormatDOCX, FormatHTML, FormatPDF}
}

// ParseFormat converts a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return DefaultFormat, nil
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// Validate reports ErrUnsupportedFormat for unknown formats.
func (f Format) Validate() error {
	switch f {
	case FormatDOCX, FormatHTML, FormatPDF:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// ContentType returns the MIME type of artifacts in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return htmldoc.ContentType
	case FormatPDF:
		return "application/pdf"
	default:
		return docx.ContentType
	}
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == "" {
		return string(DefaultFormat)
	}
	return string(f)
}

// MaxTitleLength caps the title in runes.
const MaxTitleLength = 200

// Input is one report request.
type Input struct {
	Title     string // topic of the report, required
	Format    Format // empty = DefaultFormat
	RequestID string // scopes temp files and log lines; empty = generated
}

// Validate trims the title and checks it together with the format.
func (in *Input) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(in.Title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrTitleTooLong, n, MaxTitleLength)
	}
	if in.Format == "" {
		in.Format = DefaultFormat
	}
	if err := in.Format.Validate(); err != nil {
		return err
	}
	if in.RequestID != "" {
		if err := fileutil.ValidateName(in.RequestID); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequestID, err)
		}
	}
	return nil
}

// Stats describes what went into a generated report.
type Stats struct {
	Paragraphs    int
	Headings      int
	ImagesFetched int  // images downloaded and accepted
	ImagesPlaced  int  // images embedded in the document
	ImageFailures int  // images skipped by retrieval or embedding
	SearchFailed  bool // image search returned an error
	Fallback      bool // generation failed and the placeholder paragraph was used
	Elapsed       time.Duration
}

// Result is a finished report.
type Result struct {
	Filename    string // download name derived from the title, with extension
	ContentType string
	Data        []byte
	Format      Format
	RequestID   string
	Stats       Stats
}

// filenameFor derives the download name from a title.
func filenameFor(title string, f Format) string {
	return fileutil.Slugify(title) + "." + f.Extension()
}
