package reportgen

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout     time.Duration
	prompt      string
	maxImages   int
	imageWidth  float64
	assetPath   string
	style       string
	templateSet string
}

// defaultTimeout bounds a whole Generate call when the caller sets no earlier deadline.
const defaultTimeout = 3 * time.Minute

// Image display width bounds in inches. The upper bound is the Letter text width.
const (
	MinImageWidth     = 1.0
	MaxImageWidth     = 6.5
	DefaultImageWidth = 4.0
)

// WithTimeout bounds each Generate call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("reportgen: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithGenerator sets the text generator. Without one, every report holds
// only the placeholder paragraph.
func WithGenerator(g Generator) Option {
	return func(c *Converter) {
		c.generator = g
	}
}

// WithSearcher replaces the default image search.
func WithSearcher(s Searcher) Option {
	return func(c *Converter) {
		if s != nil {
			c.searcher = s
		}
	}
}

// WithRetriever replaces the default image downloader.
func WithRetriever(r Retriever) Option {
	return func(c *Converter) {
		if r != nil {
			c.retriever = r
		}
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPrompt overrides DefaultPromptTemplate. NewConverter rejects templates
// without exactly one %s.
func WithPrompt(tmpl string) Option {
	return func(c *Converter) {
		if tmpl != "" {
			c.cfg.prompt = tmpl
		}
	}
}

// WithMaxImages limits how many images a report holds.
// Panics if n is outside 0..MaxImages (programmer error).
func WithMaxImages(n int) Option {
	if n < 0 || n > MaxImages {
		panic("reportgen: WithMaxImages must be between 0 and 5")
	}
	return func(c *Converter) {
		c.cfg.maxImages = n
	}
}

// WithImageWidth sets the display width of images in inches.
// NewConverter rejects widths outside MinImageWidth..MaxImageWidth.
func WithImageWidth(inches float64) Option {
	return func(c *Converter) {
		c.cfg.imageWidth = inches
	}
}

// WithAssetPath sets a directory of custom styles and templates.
// Assets missing there fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStyle selects the stylesheet used for html and pdf output.
func WithStyle(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.style = name
		}
	}
}

// WithTemplateSet selects the template set used for html and pdf output.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.templateSet = name
		}
	}
}
