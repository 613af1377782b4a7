package reportgen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-reportgen/internal/assets"
	"github.com/alnah/go-reportgen/internal/docx"
	"github.com/alnah/go-reportgen/internal/fileutil"
	"github.com/alnah/go-reportgen/internal/htmldoc"
	"github.com/alnah/go-reportgen/internal/pipeline"
	"github.com/alnah/go-reportgen/internal/scrape"
)

// Converter turns a title into a finished report.
// Create with NewConverter, call Generate for each report, and Close when done.
// A Converter is safe for concurrent use; PDF output shares one browser.
type Converter struct {
	cfg       converterConfig
	generator Generator
	searcher  Searcher
	retriever Retriever
	logger    *slog.Logger
	html      *htmldoc.Renderer
	pdf       pdfRenderer
	now       func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter. The default image search scrapes a public
// results page; there is no default Generator (see WithGenerator).
// Returns an error if the prompt, image width or assets are invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:     defaultTimeout,
			prompt:      DefaultPromptTemplate,
			maxImages:   MaxImages,
			imageWidth:  DefaultImageWidth,
			style:       assets.DefaultStyleName,
			templateSet: assets.DefaultTemplateSetName,
		},
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := ValidatePrompt(c.cfg.prompt); err != nil {
		return nil, err
	}
	if w := c.cfg.imageWidth; w < MinImageWidth || w > MaxImageWidth {
		return nil, fmt.Errorf("%w: %.2f inches (must be %.1f to %.1f)", ErrInvalidImageWidth, w, MinImageWidth, MaxImageWidth)
	}

	if c.searcher == nil {
		s, err := scrape.NewImageSearcher()
		if err != nil {
			return nil, err
		}
		c.searcher = s
	}
	if c.retriever == nil {
		c.retriever = scrape.NewRetriever()
	}

	renderer, err := loadRenderer(c.cfg)
	if err != nil {
		return nil, err
	}
	c.html = renderer

	// Browser launch is lazy; nothing starts until the first PDF.
	if c.pdf == nil {
		c.pdf = newRodRenderer(c.cfg.timeout)
	}
	return c, nil
}

// loadRenderer resolves the stylesheet and report template, custom directory first.
func loadRenderer(cfg converterConfig) (*htmldoc.Renderer, error) {
	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, err
	}
	defer resolver.Close()

	css, err := resolver.LoadStyle(cfg.style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	ts, err := resolver.LoadTemplateSet(cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set: %w", err)
	}
	return htmldoc.NewRenderer(ts.Report, css)
}

// Generate produces one report for input.Title in input.Format.
//
// Text generation, image search and image downloads are best effort: their
// failures are logged and reflected in Result.Stats, and a document is still
// produced. Only invalid input, cancellation and document build failures
// (for example a missing browser for PDF) are returned as errors.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Generate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if c.isClosed() {
		return nil, ErrConverterClosed
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := c.now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	area, err := fileutil.NewStagingArea(input.RequestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}
	logger := c.logger.With(
		slog.String("request_id", area.ID()),
		slog.String("format", string(input.Format)))
	defer func() {
		if cerr := area.Close(); cerr != nil {
			logger.Warn("staging cleanup failed", slog.Any("error", cerr))
		}
	}()

	logger.Info("report started", slog.String("title", input.Title))

	blocks, fallback, genErr := c.generateBlocks(ctx, input.Title)
	if genErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("generation failed, using placeholder", slog.Any("error", genErr))
	}

	stats := Stats{Fallback: fallback}

	// The placeholder body never carries images.
	var images []pipeline.ImageRef
	if !fallback {
		var fs FetchStats
		images, fs = NewImageFetcher(c.searcher, c.retriever, c.cfg.maxImages, logger).FetchImages(ctx, input.Title)
		stats.ImagesFetched = fs.Fetched
		stats.ImageFailures = fs.Failed
		stats.SearchFailed = fs.SearchFailed
	}

	placement := pipeline.PlanPlacement(pipeline.CountParagraphs(blocks), images)
	planned := placement.Len()

	assembler := pipeline.NewAssembler(area,
		pipeline.WithLogger(logger),
		pipeline.WithImageWidth(c.cfg.imageWidth))

	art, err := assembler.Assemble(ctx, input.Title, blocks, placement, c.newBuilder(input.Format))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrDocumentBuild, err)
	}

	stats.Paragraphs = art.Paragraphs
	stats.Headings = art.Headings
	stats.ImagesPlaced = art.ImagesEmbedded
	stats.ImageFailures += planned - art.ImagesEmbedded
	stats.Elapsed = c.now().Sub(start)

	logger.Info("report finished",
		slog.Int("bytes", len(art.Data)),
		slog.Int("paragraphs", stats.Paragraphs),
		slog.Int("images", stats.ImagesPlaced),
		slog.Bool("fallback", stats.Fallback),
		slog.Duration("elapsed", stats.Elapsed))

	return &Result{
		Filename:    filenameFor(input.Title, input.Format),
		ContentType: input.Format.ContentType(),
		Data:        art.Data,
		Format:      input.Format,
		RequestID:   area.ID(),
		Stats:       stats,
	}, nil
}

// newBuilder returns an empty document sink for the format.
func (c *Converter) newBuilder(f Format) pipeline.Builder {
	switch f {
	case FormatHTML:
		return c.html.NewBuilder()
	case FormatPDF:
		return newPDFBuilder(c.html.NewBuilder(), c.pdf)
	default:
		return docx.New()
	}
}

func (c *Converter) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close releases browser resources. Generate fails with ErrConverterClosed afterwards.
func (c *Converter) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}
