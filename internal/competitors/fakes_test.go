package competitors

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/extraction"
)

// fakeDriver hands out browsers produced by BrowserFn.
type fakeDriver struct {
	BrowserFn func(launch int) (Browser, error)
	launches  atomic.Int32
}

func (d *fakeDriver) Launch(ctx context.Context) (Browser, error) {
	n := int(d.launches.Add(1))
	return d.BrowserFn(n)
}

type fakeBrowser struct {
	NewPageFn func(ctx context.Context) (Page, error)
	closed    atomic.Bool
}

func (b *fakeBrowser) NewPage(ctx context.Context) (Page, error) {
	return b.NewPageFn(ctx)
}

func (b *fakeBrowser) Close() error {
	b.closed.Store(true)
	return nil
}

type fakePage struct {
	GotoFn            func(ctx context.Context, url string) error
	WaitForSelectorFn func(ctx context.Context, selector string, timeout time.Duration) error
	InnerHTMLFn       func(ctx context.Context, selector string) (string, error)

	mu      sync.Mutex
	visited []string
	closed  bool
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	p.mu.Lock()
	p.visited = append(p.visited, url)
	p.mu.Unlock()
	if p.GotoFn != nil {
		return p.GotoFn(ctx, url)
	}
	return nil
}

func (p *fakePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if p.WaitForSelectorFn != nil {
		return p.WaitForSelectorFn(ctx, selector, timeout)
	}
	return nil
}

func (p *fakePage) InnerHTML(ctx context.Context, selector string) (string, error) {
	if p.InnerHTMLFn != nil {
		return p.InnerHTMLFn(ctx, selector)
	}
	return "<div class=\"digi-products\">results</div>", nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePage) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type fakeExtractor struct {
	ExtractFn func(ctx context.Context, markup, instructions string, shape *extraction.Shape, out any) error
}

func (e *fakeExtractor) Extract(
	ctx context.Context,
	markup, instructions string,
	shape *extraction.Shape,
	out any,
) error {
	return e.ExtractFn(ctx, markup, instructions, shape, out)
}

// extractProducts returns an extractor that always yields candidates.
func extractProducts(candidates ...productCandidate) *fakeExtractor {
	return &fakeExtractor{ExtractFn: func(
		ctx context.Context, markup, instructions string, shape *extraction.Shape, out any,
	) error {
		out.(*productCandidates).Products = candidates
		return nil
	}}
}

// singlePageBrowser returns a browser that always opens page.
func singlePageBrowser(page *fakePage) *fakeBrowser {
	return &fakeBrowser{NewPageFn: func(ctx context.Context) (Page, error) {
		return page, nil
	}}
}
