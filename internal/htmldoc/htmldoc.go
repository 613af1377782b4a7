// Package htmldoc renders reports as standalone HTML documents.
//
// A Renderer compiles the report template once; each document is written by
// a Builder from Renderer.NewBuilder. Images are inlined as data URIs, so the
// output has no external references and can be printed to PDF as is.
package htmldoc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/alnah/go-reportgen/internal/imageutil"
	"github.com/alnah/go-reportgen/internal/pipeline"
)

// ContentType is the MIME type of rendered documents.
const ContentType = "text/html; charset=utf-8"

// Sentinel errors for HTML rendering.
var (
	ErrTemplateParse    = errors.New("failed to parse report template")
	ErrTemplateExecute  = errors.New("failed to render report")
	ErrImageRead        = errors.New("failed to read image")
	ErrImageDecode      = errors.New("failed to decode image")
	ErrAlreadyFinalized = errors.New("document already finalized")
)

// Renderer holds the compiled report template and stylesheet.
// Safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
	css  string
}

// NewRenderer compiles the report template.
func NewRenderer(reportTemplate, css string) (*Renderer, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &Renderer{tmpl: tmpl, css: css}, nil
}

// NewBuilder returns an empty document bound to the renderer.
func (r *Renderer) NewBuilder() *Builder {
	return &Builder{renderer: r}
}

// Block kinds as seen by templates.
const (
	KindTitle     = "title"
	KindHeading   = "heading"
	KindParagraph = "paragraph"
)

// Style is the font applied to a heading or run.
type Style struct {
	Font   string
	SizePt float64
}

// Image is an inlined picture.
type Image struct {
	Src      template.URL
	Alt      string
	WidthIn  float64
	HeightIn float64
}

// Item is one element inside a paragraph: text, a line break or an image.
type Item struct {
	Text  string
	Bold  bool
	Style Style
	Break bool
	Image *Image
}

// Block is a title, heading or paragraph.
type Block struct {
	Kind  string
	Level int
	Text  string
	Style Style
	Items []Item
}

// Document is the data passed to the report template.
type Document struct {
	Title  string
	CSS    template.CSS
	Blocks []Block
}

// Compile-time interface check.
var _ pipeline.Builder = (*Builder)(nil)

// Builder accumulates one HTML document. Not safe for concurrent use.
type Builder struct {
	renderer  *Renderer
	doc       Document
	images    int
	finalized bool
}

// AddTitle adds the centered document title.
func (b *Builder) AddTitle(text string) {
	if b.doc.Title == "" {
		b.doc.Title = text
	}
	b.doc.Blocks = append(b.doc.Blocks, Block{Kind: KindTitle, Level: 1, Text: text})
}

// AddHeading adds a section heading.
func (b *Builder) AddHeading(level int, text string, style pipeline.TextStyle) {
	b.doc.Blocks = append(b.doc.Blocks, Block{
		Kind:  KindHeading,
		Level: min(max(level, pipeline.MinHeadingLevel), pipeline.MaxHeadingLevel),
		Text:  text,
		Style: toStyle(style),
	})
}

// AddParagraph starts a new paragraph.
func (b *Builder) AddParagraph() {
	b.doc.Blocks = append(b.doc.Blocks, Block{Kind: KindParagraph})
}

// AddRun appends text to the current paragraph.
func (b *Builder) AddRun(text string, style pipeline.TextStyle) {
	b.appendItem(Item{Text: text, Bold: style.Bold, Style: toStyle(style)})
}

// AddImage appends a line break and an inlined image to the current
// paragraph. On error the paragraph is unchanged.
func (b *Builder) AddImage(r io.Reader, widthInches float64) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	data, info, err := imageutil.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	b.images++
	b.appendItem(Item{Break: true})
	src := "data:" + info.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(data)
	b.appendItem(Item{Image: &Image{
		Src:      template.URL(src), // #nosec G203 -- base64 data URI built from decoded image bytes
		Alt:      fmt.Sprintf("Illustration %d", b.images),
		WidthIn:  widthInches,
		HeightIn: info.HeightFor(widthInches),
	}})
	return nil
}

// Finalize renders the document. The builder cannot be used afterwards.
func (b *Builder) Finalize(ctx context.Context) ([]byte, error) {
	if b.finalized {
		return nil, ErrAlreadyFinalized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.finalized = true

	b.doc.CSS = template.CSS(b.renderer.css) // #nosec G203 -- stylesheet comes from bundled or operator-provided assets
	var buf bytes.Buffer
	if err := b.renderer.tmpl.Execute(&buf, b.doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateExecute, err)
	}
	b.doc.Blocks = nil
	return buf.Bytes(), nil
}

func (b *Builder) appendItem(it Item) {
	n := len(b.doc.Blocks)
	if n == 0 || b.doc.Blocks[n-1].Kind != KindParagraph {
		b.doc.Blocks = append(b.doc.Blocks, Block{Kind: KindParagraph})
		n++
	}
	b.doc.Blocks[n-1].Items = append(b.doc.Blocks[n-1].Items, it)
}

func toStyle(s pipeline.TextStyle) Style {
	return Style{Font: s.FontFamily, SizePt: s.SizePt}
}
