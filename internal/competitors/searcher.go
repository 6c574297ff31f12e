package competitors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/domain"
)

// maxTransportRetries is how many times a search is repeated on a fresh
// browser after the previous one died.
const maxTransportRetries = 1

// Default selectors and wait of the competitor search page.
const (
	DefaultResultsSelector  = ".digi-main__results"
	DefaultProductsSelector = ".digi-products"
	DefaultSelectorTimeout  = 30 * time.Second
)

// Options configures a Searcher.
type Options struct {
	BaseURL string
	// ResultsSelector appears once the search results have rendered.
	ResultsSelector string
	// ProductsSelector wraps the markup handed to the extractor.
	ProductsSelector string
	SelectorTimeout  time.Duration
}

// Searcher owns the shared browser and runs searches on it.
type Searcher struct {
	driver    Driver
	extractor Extractor
	baseURL   *url.URL
	opts      Options
	logger    *slog.Logger

	mu         sync.Mutex
	browser    Browser
	generation uint64
}

// NewSearcher creates a Searcher. The browser is not launched until the
// first search or EnsureReady.
func NewSearcher(driver Driver, extractor Extractor, logger *slog.Logger, opts Options) (*Searcher, error) {
	if driver == nil {
		return nil, errors.New("driver cannot be nil")
	}
	if extractor == nil {
		return nil, errors.New("extractor cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid competitor base url %q", opts.BaseURL)
	}
	if opts.ResultsSelector == "" {
		opts.ResultsSelector = DefaultResultsSelector
	}
	if opts.ProductsSelector == "" {
		opts.ProductsSelector = DefaultProductsSelector
	}
	if opts.SelectorTimeout <= 0 {
		opts.SelectorTimeout = DefaultSelectorTimeout
	}

	return &Searcher{
		driver:    driver,
		extractor: extractor,
		baseURL:   base,
		opts:      opts,
		logger:    logger.With("component", "competitors"),
	}, nil
}

// EnsureReady launches the browser if it is not running. It is safe to
// call concurrently and repeatedly.
func (s *Searcher) EnsureReady(ctx context.Context) error {
	_, _, err := s.current(ctx)
	return err
}

// current returns the running browser and its generation, launching one if needed.
func (s *Searcher) current(ctx context.Context) (Browser, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, s.generation, nil
	}

	browser, err := s.driver.Launch(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to launch browser: %w", err)
	}
	s.browser = browser
	s.generation++
	s.logger.DebugContext(ctx, "browser ready", "generation", s.generation)
	return s.browser, s.generation, nil
}

// reset tears down the browser of generation gen. A failure observed on an
// older browser leaves a newer one alone.
func (s *Searcher) reset(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil || s.generation != gen {
		return
	}
	if err := s.browser.Close(); err != nil {
		s.logger.DebugContext(ctx, "closing dead browser failed", "error", err)
	}
	s.browser = nil
}

// Close shuts the browser down. The Searcher relaunches on next use.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}

// Search finds the best competitor product for query.
//
// A dead browser is relaunched and the search repeated once. Context
// cancellation and browser launch failures are returned as they are; every
// other failure is a *SearchError.
func (s *Searcher) Search(ctx context.Context, query string) (*domain.CompetitorProduct, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	s.logger.InfoContext(ctx, "searching competitors", "query", query)

	for attempt := 0; ; attempt++ {
		product, err := s.searchOnce(ctx, query)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrTransportClosed) {
			return nil, err
		}
		if attempt >= maxTransportRetries {
			return nil, &SearchError{Query: query, Err: err}
		}
		s.logger.WarnContext(ctx, "browser transport closed, relaunching",
			"query", query,
			"error", err)
	}
}

func (s *Searcher) searchOnce(ctx context.Context, query string) (*domain.CompetitorProduct, error) {
	browser, gen, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, s.failure(ctx, gen, query, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.DebugContext(ctx, "closing page failed", "error", err)
		}
	}()

	searchURL := s.searchURL(query)
	if err := page.Goto(ctx, searchURL); err != nil {
		return nil, s.failure(ctx, gen, query, err)
	}
	s.logger.DebugContext(ctx, "navigated to search page", "url", searchURL)

	// The page renders an empty shell first; results arrive later.
	if err := page.WaitForSelector(ctx, s.opts.ResultsSelector, s.opts.SelectorTimeout); err != nil {
		return nil, s.failure(ctx, gen, query, err)
	}

	markup, err := page.InnerHTML(ctx, s.opts.ProductsSelector)
	if err != nil {
		return nil, s.failure(ctx, gen, query, err)
	}

	var candidates productCandidates
	if err := s.extractor.Extract(ctx, markup, productInstructions(query), productShape, &candidates); err != nil {
		return nil, s.failure(ctx, gen, query, err)
	}

	for _, c := range candidates.Products {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		product := &domain.CompetitorProduct{
			Name:  c.Name,
			Price: c.Price,
			URL:   s.resolve(c.URL),
		}
		s.logger.DebugContext(ctx, "product found on search page",
			"query", query,
			"product_name", product.Name,
			"price", product.Price,
			"url", product.URL)
		return product, nil
	}

	return nil, &SearchError{Query: query, Err: ErrNoCandidate}
}

// failure classifies err. A dead browser is torn down and reported as is
// so Search can retry; cancellation passes through; anything else is soft.
func (s *Searcher) failure(ctx context.Context, gen uint64, query string, err error) error {
	if errors.Is(err, ErrTransportClosed) {
		s.reset(ctx, gen)
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	s.logger.WarnContext(ctx, "competitor search failed", "query", query, "error", err)
	return &SearchError{Query: query, Err: err}
}

func (s *Searcher) searchURL(query string) string {
	q := url.QueryEscape(query)
	return strings.TrimSuffix(s.baseURL.String(), "/") + "/search/?q=" + q + "&digiSearch=true&term=" + q
}

// resolve turns a link from the page into an absolute URL.
func (s *Searcher) resolve(link string) string {
	if link == "" {
		return ""
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return s.baseURL.ResolveReference(ref).String()
}
