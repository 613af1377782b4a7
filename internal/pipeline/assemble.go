package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Assembler turns blocks and an image placement into a finished document.
type Assembler struct {
	stager     ImageStager
	logger     *slog.Logger
	fontFamily string
	imageWidth float64
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the logger used for skipped images.
func WithLogger(l *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithImageWidth sets the display width of embedded images in inches.
// Panics if w <= 0 (programmer error).
func WithImageWidth(w float64) AssemblerOption {
	if w <= 0 {
		panic("pipeline: WithImageWidth width must be positive")
	}
	return func(a *Assembler) {
		a.imageWidth = w
	}
}

// WithFontFamily overrides the font family of headings and runs.
func WithFontFamily(family string) AssemblerOption {
	return func(a *Assembler) {
		if family != "" {
			a.fontFamily = family
		}
	}
}

// NewAssembler creates an Assembler that stages images through stager.
func NewAssembler(stager ImageStager, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		stager:     stager,
		logger:     slog.New(slog.DiscardHandler),
		fontFamily: DefaultFontFamily,
		imageWidth: DisplayWidthInches,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Artifact is a finalized document and what went into it.
type Artifact struct {
	Data           []byte
	Paragraphs     int
	Headings       int
	ImagesEmbedded int
}

// Assemble writes the title, then every block in order, into b and finalizes it.
// Images in placement are embedded after the paragraph they are assigned to and
// removed from placement once used. An image that cannot be staged or embedded is
// logged and skipped; only cancellation and finalize failures are returned.
func (a *Assembler) Assemble(ctx context.Context, title string, blocks []Block, placement Placement, b Builder) (*Artifact, error) {
	if b == nil {
		return nil, ErrNilBuilder
	}

	art := &Artifact{}
	b.AddTitle(title)

	paragraph := 0
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if block.IsHeading() {
			b.AddHeading(block.Level, block.Text, TextStyle{
				FontFamily: a.fontFamily,
				SizePt:     HeadingSizePt(block.Level),
			})
			art.Headings++
			continue
		}

		b.AddParagraph()
		for _, r := range block.Runs {
			b.AddRun(r.Text, TextStyle{
				FontFamily: a.fontFamily,
				SizePt:     BodyFontSizePt,
				Bold:       r.Bold,
			})
		}

		if img, ok := placement.take(paragraph); ok {
			if err := a.embedImage(b, img); err != nil {
				a.logger.Warn("image skipped",
					slog.Int("paragraph", paragraph),
					slog.Int("image", img.Index),
					slog.String("url", img.URL),
					slog.Any("error", err))
			} else {
				art.ImagesEmbedded++
			}
		}
		paragraph++
	}
	art.Paragraphs = paragraph

	data, err := b.Finalize(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFinalize, err)
	}
	art.Data = data
	return art, nil
}

// embedImage stages the image, hands the staged copy to the builder and releases it
// before returning, whatever the outcome.
func (a *Assembler) embedImage(b Builder, img ImageRef) error {
	if a.stager == nil {
		return a.addImage(b, nil, img.Data)
	}

	path, release, err := a.stager.Stage(img.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageStage, err)
	}
	defer release()

	f, err := os.Open(path) // #nosec G304 -- path created by the stager
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageStage, err)
	}
	defer f.Close()

	return a.addImage(b, f, nil)
}

// addImage emits the line break and image into the current paragraph.
func (a *Assembler) addImage(b Builder, r io.Reader, data []byte) error {
	if r == nil {
		r = bytes.NewReader(data)
	}
	if err := b.AddImage(r, a.imageWidth); err != nil {
		return fmt.Errorf("%w: %v", ErrImageEmbed, err)
	}
	return nil
}

// take returns the image for paragraph i and drops it from the placement,
// so its payload is released once embedded.
func (p Placement) take(i int) (ImageRef, bool) {
	img, ok := p.byParagraph[i]
	if ok {
		delete(p.byParagraph, i)
	}
	return img, ok
}
