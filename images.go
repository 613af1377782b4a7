package reportgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-reportgen/internal/fileutil"
	"github.com/alnah/go-reportgen/internal/pipeline"
)

// Generator produces report text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher returns candidate image URLs for a query, in page order.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Retriever downloads the bytes behind an image URL.
type Retriever interface {
	Retrieve(ctx context.Context, rawURL string) ([]byte, error)
}

// MaxImages is the most images a report can hold.
const MaxImages = 5

// FetchStats counts what happened during one FetchImages call.
type FetchStats struct {
	Candidates   int  // absolute http(s) URLs found by the search
	Attempted    int  // URLs a download was tried for
	Fetched      int  // downloads that succeeded
	Failed       int  // downloads that failed
	SearchFailed bool // the search itself returned an error
}

// ImageFetcher runs one search and downloads the first qualifying images.
// It never fails: errors are logged and the image is skipped.
type ImageFetcher struct {
	searcher  Searcher
	retriever Retriever
	limit     int
	logger    *slog.Logger
}

// NewImageFetcher creates a fetcher that keeps at most limit images.
// limit is clamped to 0..MaxImages.
func NewImageFetcher(s Searcher, r Retriever, limit int, logger *slog.Logger) *ImageFetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ImageFetcher{
		searcher:  s,
		retriever: r,
		limit:     max(0, min(limit, MaxImages)),
		logger:    logger,
	}
}

// FetchImages searches for topic and downloads the first qualifying URLs.
// Results keep URL order; ImageRef.Index is the URL position among the
// qualifying candidates. Only absolute http and https URLs qualify.
func (f *ImageFetcher) FetchImages(ctx context.Context, topic string) ([]pipeline.ImageRef, FetchStats) {
	var stats FetchStats
	if f.limit == 0 || f.searcher == nil || f.retriever == nil {
		return nil, stats
	}

	urls, err := f.searcher.Search(ctx, topic)
	if err != nil {
		stats.SearchFailed = true
		f.logger.Warn("image search failed",
			slog.String("topic", topic),
			slog.Any("error", fmt.Errorf("%w: %w", ErrSearchUnavailable, err)))
		return nil, stats
	}

	candidates := qualifyingURLs(urls)
	stats.Candidates = len(candidates)
	if len(candidates) > f.limit {
		candidates = candidates[:f.limit]
	}

	images := make([]pipeline.ImageRef, 0, len(candidates))
	for i, u := range candidates {
		if ctx.Err() != nil {
			break
		}
		stats.Attempted++
		data, err := f.retriever.Retrieve(ctx, u)
		if err != nil {
			stats.Failed++
			f.logger.Warn("image skipped",
				slog.Int("image", i),
				slog.String("url", u),
				slog.Any("error", fmt.Errorf("%w: %w", ErrImageRetrieval, err)))
			continue
		}
		stats.Fetched++
		images = append(images, pipeline.ImageRef{Index: i, URL: u, Data: data})
	}

	f.logger.Debug("images fetched",
		slog.Int("candidates", stats.Candidates),
		slog.Int("fetched", stats.Fetched),
		slog.Int("failed", stats.Failed))
	return images, stats
}

// qualifyingURLs keeps absolute http and https URLs in order.
func qualifyingURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if fileutil.IsURL(u) {
			out = append(out, u)
		}
	}
	return out
}
