// Package scrape finds image URLs on a search results page and downloads them.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Defaults for the public image search page and download limits.
const (
	DefaultSearchURL     = "https://www.google.com/search?tbm=isch&q=%s"
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultTimeout       = 20 * time.Second
	DefaultMaxPageBytes  = 4 << 20
	DefaultMaxImageBytes = 10 << 20
)

// Sentinel errors for search and retrieval.
var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrStatus       = errors.New("unexpected HTTP status")
	ErrParse        = errors.New("failed to parse search page")
	ErrInvalidURL   = errors.New("invalid image URL")
	ErrTooLarge     = errors.New("response exceeds size limit")
	ErrSearchURL    = errors.New("search URL must contain exactly one %s")
	ErrEmptyPayload = errors.New("empty response body")
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// ImageSearcher extracts <img src> values from an HTML search results page.
type ImageSearcher struct {
	searchURL    string
	userAgent    string
	doer         Doer
	maxPageBytes int64
}

// SearcherOption configures an ImageSearcher.
type SearcherOption func(*ImageSearcher)

// WithSearchURL sets the results page URL. The query replaces the single %s.
func WithSearchURL(u string) SearcherOption {
	return func(s *ImageSearcher) {
		if u != "" {
			s.searchURL = u
		}
	}
}

// WithSearchUserAgent sets the User-Agent header sent to the search page.
func WithSearchUserAgent(ua string) SearcherOption {
	return func(s *ImageSearcher) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithSearchDoer sets the HTTP client.
func WithSearchDoer(d Doer) SearcherOption {
	return func(s *ImageSearcher) {
		if d != nil {
			s.doer = d
		}
	}
}

// NewImageSearcher creates a searcher for the default image search page.
func NewImageSearcher(opts ...SearcherOption) (*ImageSearcher, error) {
	s := &ImageSearcher{
		searchURL:    DefaultSearchURL,
		userAgent:    DefaultUserAgent,
		doer:         &http.Client{Timeout: DefaultTimeout},
		maxPageBytes: DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateSearchURL(s.searchURL); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateSearchURL checks that u has exactly one %s placeholder and no
// other formatting verbs.
func ValidateSearchURL(u string) error {
	if strings.Count(u, "%s") != 1 || strings.Count(u, "%") != 1 {
		return fmt.Errorf("%w: %q", ErrSearchURL, u)
	}
	return nil
}

// Search fetches the results page for query and returns every non-empty
// img src attribute in document order. URLs are returned as written in the
// page; callers decide which ones are usable.
func (s *ImageSearcher) Search(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	pageURL := fmt.Sprintf(s.searchURL, url.QueryEscape(query))
	body, err := get(ctx, s.doer, pageURL, s.userAgent, s.maxPageBytes)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if errors.Is(err, ErrTooLarge) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var srcs []string
	collectImageSources(doc, &srcs)
	return srcs, nil
}

// collectImageSources walks the tree depth-first, so results keep markup order.
func collectImageSources(n *html.Node, out *[]string) {
	if n.Type == html.ElementNode && n.Data == "img" {
		for _, attr := range n.Attr {
			if attr.Key == "src" && strings.TrimSpace(attr.Val) != "" {
				*out = append(*out, strings.TrimSpace(attr.Val))
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectImageSources(c, out)
	}
}

// Retriever downloads image bytes with a size cap.
type Retriever struct {
	doer      Doer
	userAgent string
	maxBytes  int64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRetrieverDoer sets the HTTP client.
func WithRetrieverDoer(d Doer) RetrieverOption {
	return func(r *Retriever) {
		if d != nil {
			r.doer = d
		}
	}
}

// WithRetrieverUserAgent sets the User-Agent header.
func WithRetrieverUserAgent(ua string) RetrieverOption {
	return func(r *Retriever) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithMaxBytes caps the size of a downloaded image.
// Panics if n <= 0 (programmer error).
func WithMaxBytes(n int64) RetrieverOption {
	if n <= 0 {
		panic("scrape: WithMaxBytes limit must be positive")
	}
	return func(r *Retriever) {
		r.maxBytes = n
	}
}

// NewRetriever creates a Retriever with default limits.
func NewRetriever(opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		doer:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve downloads rawURL. Only absolute http and https URLs are accepted.
// Bodies larger than the configured limit fail with ErrTooLarge.
func (r *Retriever) Retrieve(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	body, err := get(ctx, r.doer, u.String(), r.userAgent, r.maxBytes)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

// get issues a GET and returns the body limited to maxBytes.
// Reading past the limit fails with ErrTooLarge.
func get(ctx context.Context, doer Doer, target, userAgent string, maxBytes int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if resp.ContentLength > maxBytes {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return &limitedBody{r: io.LimitReader(resp.Body, maxBytes+1), c: resp.Body, remaining: maxBytes}, nil
}

// limitedBody errors once more than remaining bytes are read.
type limitedBody struct {
	r         io.Reader
	c         io.Closer
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

func (l *limitedBody) Close() error { return l.c.Close() }
