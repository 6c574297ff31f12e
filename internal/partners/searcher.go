package partners

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
	"github.com/apridachin/girya-storekeeper/internal/domain"
)

// DefaultTimeout bounds one catalog request.
const DefaultTimeout = 30 * time.Second

// maxPageBytes caps how much of a search page is read.
const maxPageBytes = 4 << 20

const (
	itemClass  = "catalog-item"
	titleClass = "catalog-item__title"
)

var (
	// ErrEmptyQuery is returned when Search is called without a query.
	ErrEmptyQuery = errors.New("partner search query cannot be empty")

	// ErrNoListing is returned when the search page has no catalog item
	// with a title link.
	ErrNoListing = errors.New("no catalog item on the page")
)

// Option configures a Searcher.
type Option func(*Searcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Searcher) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// Searcher queries the partner catalog search page.
type Searcher struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSearcher creates a Searcher for the catalog at baseURL.
//
// Parameters:
//   - baseURL: site root, e.g. https://partner.example/
//   - logger: structured logger
//   - opts: optional settings
//
// Returns:
//   - (*Searcher, error): the searcher, or an error for an invalid URL or nil logger
func NewSearcher(baseURL string, logger *slog.Logger, opts ...Option) (*Searcher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid partner base url %q", baseURL)
	}

	s := &Searcher{
		baseURL:    base,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.With("component", "partners"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search returns the first catalog listing for query. Failures specific to
// this query are returned as *competitors.SearchError so the pipeline treats
// them as "no match"; a cancelled context is returned as is.
func (s *Searcher) Search(ctx context.Context, query string) (*domain.CompetitorProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	product, err := s.search(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.DebugContext(ctx, "partner search failed", "query", query, "error", err)
		return nil, &competitors.SearchError{Query: query, Err: err}
	}

	s.logger.DebugContext(ctx, "partner listing found", "query", query, "url", product.URL)
	return product, nil
}

func (s *Searcher) search(ctx context.Context, query string) (*domain.CompetitorProduct, error) {
	pageURL := s.searchURL(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return firstListing(doc, resp.Request.URL)
}

func (s *Searcher) searchURL(query string) *url.URL {
	u := s.baseURL.ResolveReference(&url.URL{Path: "search"})
	q := url.Values{}
	q.Set("search", query)
	q.Set("category_id", "0")
	u.RawQuery = q.Encode()
	return u
}

// firstListing reads the title link of the first catalog item. Relative
// hrefs resolve against pageURL, the URL after redirects.
func firstListing(doc *html.Node, pageURL *url.URL) (*domain.CompetitorProduct, error) {
	item := find(doc, func(n *html.Node) bool { return isDivWithClass(n, itemClass) })
	if item == nil {
		return nil, ErrNoListing
	}
	title := find(item, func(n *html.Node) bool { return isDivWithClass(n, titleClass) })
	if title == nil {
		return nil, ErrNoListing
	}
	link := find(title, func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == atom.A })
	if link == nil {
		return nil, ErrNoListing
	}

	name := strings.TrimSpace(textOf(link))
	if name == "" {
		return nil, ErrNoListing
	}

	var resolved string
	if href := attr(link, "href"); href != "" {
		ref, err := url.Parse(href)
		if err != nil {
			return nil, fmt.Errorf("invalid listing href %q: %w", href, err)
		}
		resolved = pageURL.ResolveReference(ref).String()
	}

	return &domain.CompetitorProduct{Name: name, URL: resolved}, nil
}

// find returns the first descendant of n, in document order, matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func isDivWithClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Div {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
