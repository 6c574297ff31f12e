package warehouse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/apridachin/girya-storekeeper/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SearchProduct returns the catalog products matching name.
// It returns an error wrapping ErrProductNotFound when the search has no rows.
func (c *Client) SearchProduct(ctx context.Context, name string) ([]domain.Product, error) {
	var resp listResponse[productRow]
	params := url.Values{"search": {name}}
	if err := c.Do(ctx, http.MethodGet, "entity/product", params, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}

	products := make([]domain.Product, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		products = append(products, domain.Product{
			ID:     row.ID,
			Name:   row.Name,
			Things: row.Things,
		})
	}

	c.logger.DebugContext(ctx, "product found",
		"product_name", name,
		"match_count", len(products))
	return products, nil
}

// SearchProducts searches every distinct name and partitions the outcome.
//
// Names are searched in groups of the configured batch size. Searches within
// a group run concurrently; groups run in order, and before each group the
// client waits until the advertised quota can absorb it. A name whose search
// fails for any reason is reported in NotFound. Only cancellation of ctx
// aborts the batch.
func (c *Client) SearchProducts(ctx context.Context, names []string) (*SearchProductsResult, error) {
	unique := dedupe(names)
	c.logger.DebugContext(ctx, "searching for multiple products", "product_count", len(unique))

	found := make([][]domain.Product, len(unique))
	failed := make([]bool, len(unique))

	for start := 0; start < len(unique); start += c.batchSize {
		end := min(start+c.batchSize, len(unique))

		if start > 0 {
			if err := c.limiter.headroom(ctx, end-start); err != nil {
				return nil, err
			}
		}

		if err := c.searchGroup(ctx, unique, start, end, found, failed); err != nil {
			return nil, err
		}
	}

	result := &SearchProductsResult{
		Products: []domain.Product{},
		NotFound: []string{},
	}
	for i, name := range unique {
		if failed[i] {
			result.NotFound = append(result.NotFound, name)
			continue
		}
		result.Products = append(result.Products, found[i]...)
	}

	c.logger.InfoContext(ctx, "product search completed",
		"product_count", len(result.Products),
		"not_found", len(result.NotFound),
		"quota_remaining", c.RateLimit().Remaining)
	return result, nil
}

func (c *Client) searchGroup(
	ctx context.Context,
	names []string,
	start, end int,
	found [][]domain.Product,
	failed []bool,
) error {
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for i := start; i < end; i++ {
		g.Go(func() error {
			products, err := c.SearchProduct(gctx, names[i])
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if !errors.Is(err, ErrProductNotFound) {
					c.logger.WarnContext(ctx, "error searching for product",
						"product_name", names[i],
						"error", err)
				}
				mu.Lock()
				failed[i] = true
				mu.Unlock()
				return nil
			}
			mu.Lock()
			found[i] = products
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// dedupe drops repeated names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
