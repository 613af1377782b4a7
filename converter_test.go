package reportgen

// Notes:
// - Tests Converter.Generate with mocked collaborators (generator, searcher,
//   retriever, PDF renderer); no network or browser is used
// - Internal test options (withPDFRenderer, withClock) enable dependency injection
// - DOCX results are inspected by reading the zip back; HTML results by counting
//   tags in the rendered page
// - The staging cleanup test scans os.TempDir for the request-scoped directory

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-reportgen/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockGenerator struct {
	mu     sync.Mutex
	calls  int
	prompt string
	output string
	err    error
	panics bool
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompt = prompt
	if m.panics {
		panic("generator exploded")
	}
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

type mockSearcher struct {
	mu    sync.Mutex
	calls int
	query string
	urls  []string
	err   error
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return m.urls, nil
}

type mockRetriever struct {
	mu        sync.Mutex
	requested []string
	data      map[string][]byte // missing URL = error
}

func (m *mockRetriever) Retrieve(ctx context.Context, rawURL string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, rawURL)
	if d, ok := m.data[rawURL]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("404 for %s", rawURL)
}

type mockPDFRenderer struct {
	html   string
	output []byte
	err    error
	closed bool
}

func (m *mockPDFRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	m.html = string(data)
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *mockPDFRenderer) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

// withPDFRenderer injects a renderer in place of headless Chrome.
func withPDFRenderer(r pdfRenderer) Option {
	return func(c *Converter) {
		c.pdf = r
	}
}

// withClock injects the time source used for Stats.Elapsed.
func withClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// testPNG returns a small valid PNG.
func testPNG(t testing.TB) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// paragraphs returns n numbered lines of report text.
func paragraphs(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Paragraph %d with **bold** text.", i)
	}
	return strings.Join(lines, "\n")
}

// imageURLs returns n image URLs and a retriever serving png for all of them.
func imageURLs(t testing.TB, n int) ([]string, *mockRetriever) {
	t.Helper()
	r := &mockRetriever{data: make(map[string][]byte)}
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img.example.com/%d.png", i)
		r.data[urls[i]] = testPNG(t)
	}
	return urls, r
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	base := []Option{
		WithSearcher(&mockSearcher{}),
		WithRetriever(&mockRetriever{}),
		withPDFRenderer(&mockPDFRenderer{output: []byte("%PDF-1.4 mock")}),
	}
	conv, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// docxMedia returns the media file names inside a DOCX package.
func docxMedia(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("result is not a zip package: %v", err)
	}
	var media []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			media = append(media, f.Name)
		}
	}
	return media
}

// docxBody returns word/document.xml.
func docxBody(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("result is not a zip package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening document.xml: %v", err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("reading document.xml: %v", err)
		}
		return buf.String()
	}
	t.Fatal("word/document.xml not found")
	return ""
}

// ---------------------------------------------------------------------------
// TestNewConverter - Construction and option validation
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "custom prompt", opts: []Option{WithPrompt("Write about %s in 100%% detail.")}},
		{name: "prompt without verb", opts: []Option{WithPrompt("Write a report.")}, wantErr: ErrInvalidPrompt},
		{name: "prompt with two verbs", opts: []Option{WithPrompt("%s and %s")}, wantErr: ErrInvalidPrompt},
		{name: "prompt with other verb", opts: []Option{WithPrompt("%s in %d words")}, wantErr: ErrInvalidPrompt},
		{name: "width too small", opts: []Option{WithImageWidth(0.5)}, wantErr: ErrInvalidImageWidth},
		{name: "width too large", opts: []Option{WithImageWidth(8)}, wantErr: ErrInvalidImageWidth},
		{name: "width at bounds", opts: []Option{WithImageWidth(MaxImageWidth)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			defer conv.Close()
			if conv.searcher == nil || conv.retriever == nil {
				t.Error("default searcher and retriever not set")
			}
		})
	}
}

func TestNewConverter_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithAssetPath(filepath.Join(t.TempDir(), "missing")))
	if err == nil {
		t.Fatal("NewConverter() error = nil, want error for missing asset directory")
	}
}

func TestNewConverter_CustomStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	css := "body { color: rebeccapurple; }"
	if err := os.WriteFile(filepath.Join(dir, "styles", "purple.css"), []byte(css), 0o600); err != nil {
		t.Fatal(err)
	}

	conv := newTestConverter(t, WithAssetPath(dir), WithStyle("purple"))
	result, err := conv.Generate(context.Background(), Input{Title: "Colors", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(result.Data), "rebeccapurple") {
		t.Error("custom stylesheet not used")
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

func TestWithMaxImages_PanicsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, n := range []int{-1, MaxImages + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithMaxImages(%d) did not panic", n)
				}
			}()
			WithMaxImages(n)
		}()
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Full request flow
// ---------------------------------------------------------------------------

func TestGenerate_DOCXWithImages(t *testing.T) {
	t.Parallel()

	urls, retriever := imageURLs(t, 3)
	gen := &mockGenerator{output: "## Introduction\n" + paragraphs(12)}
	searcher := &mockSearcher{urls: urls}
	conv := newTestConverter(t, WithGenerator(gen), WithSearcher(searcher), WithRetriever(retriever))

	result, err := conv.Generate(context.Background(), Input{Title: "  Solar Power  "})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Filename != "solar-power.docx" {
		t.Errorf("Filename = %q, want %q", result.Filename, "solar-power.docx")
	}
	if result.Format != FormatDOCX || result.ContentType != FormatDOCX.ContentType() {
		t.Errorf("Format/ContentType = %q/%q", result.Format, result.ContentType)
	}
	if !bytes.HasPrefix(result.Data, []byte("PK")) {
		t.Error("DOCX data is not a zip package")
	}
	if got := len(docxMedia(t, result.Data)); got != 3 {
		t.Errorf("embedded media = %d, want 3", got)
	}
	if !strings.Contains(gen.prompt, "Micro Project Report on Solar Power") {
		t.Errorf("prompt = %q, want title substituted", gen.prompt)
	}
	if searcher.query != "Solar Power" {
		t.Errorf("search query = %q, want trimmed title", searcher.query)
	}

	want := Stats{Paragraphs: 12, Headings: 1, ImagesFetched: 3, ImagesPlaced: 3}
	got := result.Stats
	got.Elapsed = 0
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
	if result.RequestID == "" {
		t.Error("RequestID is empty")
	}
}

func TestGenerate_ImagesCappedByParagraphs(t *testing.T) {
	t.Parallel()

	// 6 paragraphs have slots 0 and 5; the third image has nowhere to go.
	urls, retriever := imageURLs(t, 5)
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(6)}),
		WithSearcher(&mockSearcher{urls: urls}),
		WithRetriever(retriever))

	result, err := conv.Generate(context.Background(), Input{Title: "Wind"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Stats.ImagesFetched != 5 || result.Stats.ImagesPlaced != 2 {
		t.Errorf("fetched/placed = %d/%d, want 5/2", result.Stats.ImagesFetched, result.Stats.ImagesPlaced)
	}
	if result.Stats.ImageFailures != 0 {
		t.Errorf("ImageFailures = %d, want 0", result.Stats.ImageFailures)
	}
}

func TestGenerate_MaxImagesOption(t *testing.T) {
	t.Parallel()

	urls, retriever := imageURLs(t, 5)
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(30)}),
		WithSearcher(&mockSearcher{urls: urls}),
		WithRetriever(retriever),
		WithMaxImages(2))

	result, err := conv.Generate(context.Background(), Input{Title: "Hydro"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(retriever.requested) != 2 {
		t.Errorf("downloads = %d, want 2", len(retriever.requested))
	}
	if result.Stats.ImagesPlaced != 2 {
		t.Errorf("ImagesPlaced = %d, want 2", result.Stats.ImagesPlaced)
	}
}

func TestGenerate_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "empty text", gen: &mockGenerator{output: ""}},
		{name: "whitespace only", gen: &mockGenerator{output: " \n\t\n"}},
		{name: "generator error", gen: &mockGenerator{err: errors.New("quota exceeded")}},
		{name: "no generator", gen: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			urls, retriever := imageURLs(t, 5)
			searcher := &mockSearcher{urls: urls}
			conv := newTestConverter(t, WithGenerator(tt.gen), WithSearcher(searcher), WithRetriever(retriever))

			result, err := conv.Generate(context.Background(), Input{Title: "Anything", Format: FormatHTML})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if !result.Stats.Fallback {
				t.Error("Stats.Fallback = false, want true")
			}
			if result.Stats.Paragraphs != 1 || result.Stats.Headings != 0 {
				t.Errorf("paragraphs/headings = %d/%d, want 1/0", result.Stats.Paragraphs, result.Stats.Headings)
			}
			if result.Stats.ImagesPlaced != 0 || strings.Contains(string(result.Data), "<img") {
				t.Error("fallback document contains images")
			}
			if searcher.calls != 0 {
				t.Errorf("search calls = %d, want 0", searcher.calls)
			}
			if got := strings.Count(string(result.Data), pipeline.NoContentMessage); got != 1 {
				t.Errorf("placeholder occurrences = %d, want 1", got)
			}
		})
	}
}

func TestGenerate_SearchFailure(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(3)}),
		WithSearcher(&mockSearcher{err: errors.New("blocked")}))

	result, err := conv.Generate(context.Background(), Input{Title: "Tides"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Stats.SearchFailed {
		t.Error("Stats.SearchFailed = false, want true")
	}
	if result.Stats.Paragraphs != 3 || result.Stats.ImagesPlaced != 0 {
		t.Errorf("Stats = %+v", result.Stats)
	}
}

func TestGenerate_PartialRetrievalFailure(t *testing.T) {
	t.Parallel()

	urls, retriever := imageURLs(t, 4)
	delete(retriever.data, urls[0])
	delete(retriever.data, urls[2])

	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(12)}),
		WithSearcher(&mockSearcher{urls: urls}),
		WithRetriever(retriever))

	result, err := conv.Generate(context.Background(), Input{Title: "Geothermal", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Stats.ImagesFetched != 2 || result.Stats.ImageFailures != 2 {
		t.Errorf("fetched/failures = %d/%d, want 2/2", result.Stats.ImagesFetched, result.Stats.ImageFailures)
	}
	if got := strings.Count(string(result.Data), "<img "); got != 2 {
		t.Errorf("<img> count = %d, want 2", got)
	}
}

func TestGenerate_UndecodableImageSkipped(t *testing.T) {
	t.Parallel()

	retriever := &mockRetriever{data: map[string][]byte{
		"https://img.example.com/broken.png": []byte("definitely not an image"),
	}}
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(2)}),
		WithSearcher(&mockSearcher{urls: []string{"https://img.example.com/broken.png"}}),
		WithRetriever(retriever))

	result, err := conv.Generate(context.Background(), Input{Title: "Noise"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Stats.ImagesFetched != 1 || result.Stats.ImagesPlaced != 0 || result.Stats.ImageFailures != 1 {
		t.Errorf("Stats = %+v, want fetched 1, placed 0, failures 1", result.Stats)
	}
	if len(docxMedia(t, result.Data)) != 0 {
		t.Error("undecodable image was embedded")
	}
	body := docxBody(t, result.Data)
	if !strings.Contains(body, "Paragraph 1") {
		t.Error("paragraph text lost after image failure")
	}
	if strings.Contains(body, "<w:br") {
		t.Error("skipped image left a line break behind")
	}
}

func TestGenerate_HTMLEscapesTitle(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithGenerator(&mockGenerator{output: "## <b>Heading</b>\nBody"}))

	result, err := conv.Generate(context.Background(), Input{Title: "Robots & AI", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	html := string(result.Data)
	if !strings.Contains(html, "Robots &amp; AI") {
		t.Error("title not escaped")
	}
	if strings.Contains(html, "<b>Heading</b>") {
		t.Error("generated markup was not escaped")
	}
	if result.Filename != "robots-ai.html" {
		t.Errorf("Filename = %q, want %q", result.Filename, "robots-ai.html")
	}
}

func TestGenerate_PDF(t *testing.T) {
	t.Parallel()

	renderer := &mockPDFRenderer{output: []byte("%PDF-1.4 mock")}
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: "## Overview\nText"}),
		withPDFRenderer(renderer))

	result, err := conv.Generate(context.Background(), Input{Title: "Fusion", Format: FormatPDF})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(result.Data) != "%PDF-1.4 mock" {
		t.Errorf("Data = %q, want renderer output", result.Data)
	}
	if result.ContentType != "application/pdf" || result.Filename != "fusion.pdf" {
		t.Errorf("ContentType/Filename = %q/%q", result.ContentType, result.Filename)
	}
	if !strings.Contains(renderer.html, "Overview") {
		t.Error("renderer did not receive the report HTML")
	}
}

func TestGenerate_PDFRendererError(t *testing.T) {
	t.Parallel()

	renderer := &mockPDFRenderer{err: fmt.Errorf("%w: no chrome", ErrBrowserConnect)}
	conv := newTestConverter(t, WithGenerator(&mockGenerator{output: "Text"}), withPDFRenderer(renderer))

	_, err := conv.Generate(context.Background(), Input{Title: "Fusion", Format: FormatPDF})
	if !errors.Is(err, ErrDocumentBuild) {
		t.Errorf("error = %v, want ErrDocumentBuild", err)
	}
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("error = %v, want ErrBrowserConnect in chain", err)
	}
}

func TestGenerate_InputErrors(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty title", input: Input{Title: ""}, wantErr: ErrEmptyTitle},
		{name: "blank title", input: Input{Title: "   "}, wantErr: ErrEmptyTitle},
		{name: "long title", input: Input{Title: strings.Repeat("a", MaxTitleLength+1)}, wantErr: ErrTitleTooLong},
		{name: "bad format", input: Input{Title: "x", Format: "odt"}, wantErr: ErrUnsupportedFormat},
		{name: "bad request id", input: Input{Title: "x", RequestID: "../up"}, wantErr: ErrInvalidRequestID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := conv.Generate(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{err: context.Canceled}
	conv := newTestConverter(t, WithGenerator(gen))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Generate(ctx, Input{Title: "Late"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithGenerator(&mockGenerator{panics: true}))

	_, err := conv.Generate(context.Background(), Input{Title: "Boom"})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Generate() error = %v, want internal error", err)
	}
}

func TestGenerate_AfterClose(t *testing.T) {
	t.Parallel()

	renderer := &mockPDFRenderer{}
	conv, err := NewConverter(withPDFRenderer(renderer))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !renderer.closed {
		t.Error("renderer not closed")
	}

	if _, err := conv.Generate(context.Background(), Input{Title: "x"}); !errors.Is(err, ErrConverterClosed) {
		t.Errorf("Generate() error = %v, want ErrConverterClosed", err)
	}
}

func TestGenerate_RemovesStagingDirectory(t *testing.T) {
	t.Parallel()

	urls, retriever := imageURLs(t, 2)
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(6)}),
		WithSearcher(&mockSearcher{urls: urls}),
		WithRetriever(retriever))

	reqID := fmt.Sprintf("cleanup-%d", time.Now().UnixNano())
	result, err := conv.Generate(context.Background(), Input{Title: "Clean", RequestID: reqID})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.RequestID != reqID {
		t.Errorf("RequestID = %q, want %q", result.RequestID, reqID)
	}

	leftovers, err := filepath.Glob(filepath.Join(os.TempDir(), "reportgen-"+reqID+"-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("staging directories left behind: %v", leftovers)
	}
}

func TestGenerate_Elapsed(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	calls := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return base.Add(time.Duration(calls-1) * 2 * time.Second)
	}

	conv := newTestConverter(t, WithGenerator(&mockGenerator{output: "x"}), withClock(clock))
	result, err := conv.Generate(context.Background(), Input{Title: "Clock"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Stats.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", result.Stats.Elapsed)
	}
}

func TestGenerate_ImagePositions(t *testing.T) {
	t.Parallel()

	urls, retriever := imageURLs(t, 3)
	conv := newTestConverter(t,
		WithGenerator(&mockGenerator{output: paragraphs(12)}),
		WithSearcher(&mockSearcher{urls: urls}),
		WithRetriever(retriever))

	result, err := conv.Generate(context.Background(), Input{Title: "Positions", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Each <p> holds one paragraph; images follow paragraphs 0, 5 and 10.
	html := string(result.Data)
	parts := strings.Split(html, "<p>")[1:]
	if len(parts) != 12 {
		t.Fatalf("paragraph count = %d, want 12", len(parts))
	}
	for i, p := range parts {
		hasImage := strings.Contains(p, "<img ")
		want := i == 0 || i == 5 || i == 10
		if hasImage != want {
			t.Errorf("paragraph %d has image = %v, want %v", i, hasImage, want)
		}
		if want && !strings.Contains(p, "<br>") {
			t.Errorf("paragraph %d image not preceded by a line break", i)
		}
	}
}
