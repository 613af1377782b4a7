package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/alnah/go-reportgen/internal/imageutil"
	"github.com/alnah/go-reportgen/internal/pipeline"
)

// ContentType is the MIME type of a .docx file.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// emuPerInch converts inches to English Metric Units used by DrawingML.
const emuPerInch = 914400

// defaultCreator is written to the core properties.
const defaultCreator = "reportgen"

// Compile-time interface check.
var _ pipeline.Builder = (*Builder)(nil)

// media is an image part stored under word/media.
type media struct {
	name  string
	relID string
	data  []byte
}

// Builder accumulates document content. Not safe for concurrent use.
type Builder struct {
	title     string
	creator   string
	now       func() time.Time
	body      []paragraphXML
	media     []media
	mediaExt  map[string]string // extension -> content type
	finalized bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithCreator sets the dc:creator core property.
func WithCreator(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.creator = name
		}
	}
}

// WithClock sets the time source for the created timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates an empty document builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		creator:  defaultCreator,
		now:      time.Now,
		mediaExt: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddTitle adds a centered level-1 heading.
func (b *Builder) AddTitle(text string) {
	if b.title == "" {
		b.title = text
	}
	b.body = append(b.body, paragraphXML{
		Props: &paragraphPropsXML{
			Style:   &valXML{Val: "Heading1"},
			Justify: &valXML{Val: "center"},
		},
		Runs: []runXML{{Text: newText(text)}},
	})
}

// AddHeading adds a heading paragraph using the HeadingN style.
func (b *Builder) AddHeading(level int, text string, style pipeline.TextStyle) {
	level = min(max(level, pipeline.MinHeadingLevel), pipeline.MaxHeadingLevel)
	b.body = append(b.body, paragraphXML{
		Props: &paragraphPropsXML{Style: &valXML{Val: "Heading" + strconv.Itoa(level)}},
		Runs:  []runXML{{Props: runProps(style), Text: newText(text)}},
	})
}

// AddParagraph starts a new body paragraph.
func (b *Builder) AddParagraph() {
	b.body = append(b.body, paragraphXML{})
}

// AddRun appends text to the current paragraph.
func (b *Builder) AddRun(text string, style pipeline.TextStyle) {
	p := b.current()
	p.Runs = append(p.Runs, runXML{Props: runProps(style), Text: newText(text)})
}

// AddImage embeds a line break and an inline image in the current paragraph,
// scaled to widthInches with its aspect ratio kept. Formats Word cannot display
// natively are transcoded to PNG. On error the paragraph is unchanged.
func (b *Builder) AddImage(r io.Reader, widthInches float64) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	data, info, err := imageutil.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	n := len(b.media) + 1
	m := media{
		name:  fmt.Sprintf("image%d.%s", n, info.Extension()),
		relID: fmt.Sprintf("rIdImage%d", n),
		data:  data,
	}
	b.media = append(b.media, m)
	b.mediaExt[info.Extension()] = info.MediaType()

	cx := int64(math.Round(widthInches * emuPerInch))
	cy := int64(math.Round(info.HeightFor(widthInches) * emuPerInch))

	p := b.current()
	p.Runs = append(p.Runs, runXML{Break: &emptyXML{}}, runXML{Drawing: newDrawing(n, m, cx, cy)})
	return nil
}

// Finalize packages the document. The builder cannot be used afterwards.
func (b *Builder) Finalize(ctx context.Context) ([]byte, error) {
	if b.finalized {
		return nil, ErrAlreadyFinalized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.finalized = true

	var buf bytes.Buffer
	if err := b.writePackage(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackage, err)
	}
	b.media = nil
	return buf.Bytes(), nil
}

// current returns the last paragraph, opening one if the body is empty.
func (b *Builder) current() *paragraphXML {
	if len(b.body) == 0 {
		b.body = append(b.body, paragraphXML{})
	}
	return &b.body[len(b.body)-1]
}

func (b *Builder) writePackage(w io.Writer) error {
	zw := zip.NewWriter(w)
	modified := b.now()

	parts := []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", b.contentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", b.coreProps(modified)},
		{"word/document.xml", b.document()},
		{"word/_rels/document.xml.rels", b.documentRels()},
	}
	for _, part := range parts {
		if err := writeXMLPart(zw, part.name, modified, part.v); err != nil {
			return err
		}
	}
	if err := writeRawPart(zw, "word/styles.xml", modified, []byte(stylesXML)); err != nil {
		return err
	}
	for _, m := range b.media {
		if err := writeRawPart(zw, "word/media/"+m.name, modified, m.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeXMLPart(zw *zip.Writer, name string, modified time.Time, v any) error {
	data, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return writeRawPart(zw, name, modified, append([]byte(xml.Header), data...))
}

func writeRawPart(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (b *Builder) document() documentXML {
	return documentXML{
		NSW:   nsW,
		NSR:   nsR,
		NSWP:  nsWP,
		NSA:   nsA,
		NSPic: nsPic,
		Body: bodyXML{
			Paragraphs: b.body,
			Section: sectionXML{
				PageSize:   pageSizeXML{W: "12240", H: "15840"},
				PageMargin: pageMarginXML{Top: "1440", Right: "1440", Bottom: "1440", Left: "1440"},
			},
		},
	}
}

func (b *Builder) documentRels() relationshipsXML {
	rels := relationshipsXML{
		NS: nsPkgRels,
		Relationships: []relationshipXML{
			{ID: "rIdStyles", Type: relStyles, Target: "styles.xml"},
		},
	}
	for _, m := range b.media {
		rels.Relationships = append(rels.Relationships, relationshipXML{
			ID: m.relID, Type: relImage, Target: "media/" + m.name,
		})
	}
	return rels
}

func packageRels() relationshipsXML {
	return relationshipsXML{
		NS: nsPkgRels,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
		},
	}
}

func (b *Builder) contentTypes() contentTypesXML {
	ct := contentTypesXML{
		NS: nsTypes,
		Defaults: []defaultTypeXML{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []overrideTypeXML{
			{PartName: "/word/document.xml", ContentType: ctDocument},
			{PartName: "/word/styles.xml", ContentType: ctStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCore},
		},
	}
	for _, ext := range []string{"png", "jpg", "gif"} {
		if mediaType, ok := b.mediaExt[ext]; ok {
			ct.Defaults = append(ct.Defaults, defaultTypeXML{Extension: ext, ContentType: mediaType})
		}
	}
	return ct
}

func (b *Builder) coreProps(created time.Time) corePropsXML {
	return corePropsXML{
		NSCP:      nsCP,
		NSDC:      nsDC,
		NSDCTerms: nsDCTerms,
		NSXSI:     nsXSI,
		Title:     b.title,
		Creator:   b.creator,
		Created: w3cDateTimeXML{
			Type:  "dcterms:W3CDTF",
			Value: created.UTC().Format(time.RFC3339),
		},
	}
}

func newText(s string) *textXML {
	return &textXML{Space: "preserve", Value: s}
}

func runProps(style pipeline.TextStyle) *runPropsXML {
	props := &runPropsXML{}
	if style.FontFamily != "" {
		props.Fonts = &fontsXML{ASCII: style.FontFamily, HAnsi: style.FontFamily, CS: style.FontFamily}
	}
	if style.Bold {
		props.Bold = &emptyXML{}
	}
	if style.SizePt > 0 {
		halfPoints := strconv.Itoa(int(math.Round(style.SizePt * 2)))
		props.Size = &valXML{Val: halfPoints}
		props.SizeCS = &valXML{Val: halfPoints}
	}
	return props
}

func newDrawing(id int, m media, cx, cy int64) *drawingXML {
	ext := extentXML{CX: cx, CY: cy}
	pr := docPrXML{ID: id, Name: m.name}
	return &drawingXML{Inline: inlineXML{
		Extent: ext,
		DocPr:  pr,
		Graphic: graphicXML{Data: graphicDataXML{
			URI: nsPic,
			Pic: picXML{
				NonVisual: nvPicPrXML{CNvPr: pr},
				BlipFill:  blipFillXML{Blip: blipXML{Embed: m.relID}},
				Shape: shapePropXML{
					Xfrm: xfrmXML{Ext: ext},
					Geom: prstGeomXML{Prst: "rect"},
				},
			},
		}},
	}}
}
