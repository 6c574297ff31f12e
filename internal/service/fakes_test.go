package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWarehouse struct {
	SearchStockFn    func(ctx context.Context, storeID, productGroupID string) (*warehouse.StockReport, error)
	SearchProductsFn func(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error)
	CreateDemandFn   func(ctx context.Context, org, counterparty, store string, products []domain.Product) (*domain.Demand, error)
	ProductGroupsFn  func(ctx context.Context) ([]domain.ProductFolder, error)
}

func (w *fakeWarehouse) SearchStock(ctx context.Context, storeID, productGroupID string) (*warehouse.StockReport, error) {
	return w.SearchStockFn(ctx, storeID, productGroupID)
}

func (w *fakeWarehouse) SearchProducts(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error) {
	return w.SearchProductsFn(ctx, names)
}

func (w *fakeWarehouse) CreateDemand(
	ctx context.Context,
	organizationID, counterpartyID, storeID string,
	products []domain.Product,
) (*domain.Demand, error) {
	return w.CreateDemandFn(ctx, organizationID, counterpartyID, storeID, products)
}

func (w *fakeWarehouse) ProductGroups(ctx context.Context) ([]domain.ProductFolder, error) {
	return w.ProductGroupsFn(ctx)
}

// fakeWarehouses hands out the same warehouse for every non-empty credential.
type fakeWarehouses struct {
	wh          Warehouse
	credentials []string
	forgotten   []string
	mu          sync.Mutex
}

func (f *fakeWarehouses) ClientFor(credential string) (Warehouse, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}
	f.mu.Lock()
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()
	return f.wh, nil
}

func (f *fakeWarehouses) Forget(credential string) {
	f.mu.Lock()
	f.forgotten = append(f.forgotten, credential)
	f.mu.Unlock()
}

func (f *fakeWarehouses) Forgotten() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.forgotten...)
}

type fakeRunner struct {
	SubmitFn  func(ctx context.Context, t task.Task) error
	submitted []task.Task
}

func (r *fakeRunner) Submit(ctx context.Context, t task.Task) error {
	r.submitted = append(r.submitted, t)
	if r.SubmitFn != nil {
		return r.SubmitFn(ctx, t)
	}
	return nil
}

// fakeSearcher never gets called unless a test runs the task.
type fakeSearcher struct {
	SearchFn func(ctx context.Context, query string) (*domain.CompetitorProduct, error)
}

func (s *fakeSearcher) Search(ctx context.Context, query string) (*domain.CompetitorProduct, error) {
	return s.SearchFn(ctx, query)
}

// scriptedDriver launches browsers whose pages share gotoFn.
type scriptedDriver struct {
	gotoFn   func(ctx context.Context, url string) error
	launches atomic.Int32
}

func (d *scriptedDriver) Launch(ctx context.Context) (competitors.Browser, error) {
	d.launches.Add(1)
	return &scriptedBrowser{gotoFn: d.gotoFn}, nil
}

type scriptedBrowser struct {
	gotoFn func(ctx context.Context, url string) error
}

func (b *scriptedBrowser) NewPage(ctx context.Context) (competitors.Page, error) {
	return &scriptedPage{gotoFn: b.gotoFn}, nil
}

func (b *scriptedBrowser) Close() error { return nil }

type scriptedPage struct {
	gotoFn func(ctx context.Context, url string) error
	query  string
}

func (p *scriptedPage) Goto(ctx context.Context, rawURL string) error {
	if _, rest, ok := strings.Cut(rawURL, "?q="); ok {
		p.query, _, _ = strings.Cut(rest, "&")
	}
	return p.gotoFn(ctx, rawURL)
}

func (p *scriptedPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (p *scriptedPage) InnerHTML(ctx context.Context, selector string) (string, error) {
	return fmt.Sprintf(`<div class="digi-products"><a href="/p/%s">%s</a></div>`, p.query, p.query), nil
}

func (p *scriptedPage) Close() error { return nil }

// catalogCompleter answers extraction prompts from a name -> reply table.
// Unknown products yield the empty product.
type catalogCompleter struct {
	replies map[string]string
}

func (c *catalogCompleter) Complete(ctx context.Context, messages []extraction.Message) (string, error) {
	prompt := messages[len(messages)-1].Content
	for name, reply := range c.replies {
		if strings.Contains(prompt, fmt.Sprintf("Find the product %q", name)) {
			return reply, nil
		}
	}
	return `{"products": [{"name": "", "price": "", "url": ""}]}`, nil
}
