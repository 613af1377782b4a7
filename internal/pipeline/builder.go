package pipeline

import (
	"context"
	"io"
)

// Document styling applied by the Assembler.
const (
	DefaultFontFamily  = "Arial"
	BodyFontSizePt     = 12
	DisplayWidthInches = 4.0
)

// headingSizesPt holds the font size for heading levels 1 to 3.
var headingSizesPt = [MaxHeadingLevel]float64{18, 16, 14}

// HeadingSizePt returns the font size of a heading level, clamped to 1..3.
func HeadingSizePt(level int) float64 {
	if level < MinHeadingLevel {
		level = MinHeadingLevel
	}
	if level > MaxHeadingLevel {
		level = MaxHeadingLevel
	}
	return headingSizesPt[level-1]
}

// TextStyle describes how a heading or run is rendered.
type TextStyle struct {
	FontFamily string
	SizePt     float64
	Bold       bool
}

// Builder is the write-only document sink driven by the Assembler.
// Runs and images go into the paragraph opened by the last AddParagraph.
// AddImage appends a line break followed by the image; when it returns an
// error the paragraph is left unchanged.
// Finalize is called exactly once, after which the builder must not be reused.
type Builder interface {
	AddTitle(text string)
	AddHeading(level int, text string, style TextStyle)
	AddParagraph()
	AddRun(text string, style TextStyle)
	AddImage(r io.Reader, widthInches float64) error
	Finalize(ctx context.Context) ([]byte, error)
}

// ImageStager writes image bytes to scoped temporary storage.
// The returned release function deletes the staged copy and is safe to call once.
type ImageStager interface {
	Stage(data []byte) (path string, release func(), err error)
}
