package warehouse

import (
	"context"
	"net/http"
	"net/url"

	"github.com/apridachin/girya-storekeeper/internal/domain"
)

const mediaTypeJSON = "application/json"

func (c *Client) ref(entity, id string) metaRef {
	return metaRef{Meta: meta{
		Href:      c.href(entity, id),
		Type:      entity,
		MediaType: mediaTypeJSON,
	}}
}

// CreateDemand creates a draft demand with one position per product.
func (c *Client) CreateDemand(
	ctx context.Context,
	organizationID, counterpartyID, storeID string,
	products []domain.Product,
) (*domain.Demand, error) {
	req := demandRequest{
		Applicable:   false,
		Organization: c.ref("organization", organizationID),
		Agent:        c.ref("counterparty", counterpartyID),
		Store:        c.ref("store", storeID),
		Positions:    make([]demandPosition, 0, len(products)),
	}
	for _, p := range products {
		req.Positions = append(req.Positions, demandPosition{
			Assortment: c.ref("product", p.ID),
			Things:     p.Things,
			Quantity:   1,
			Price:      p.PurchasePrice,
		})
	}

	var resp demandResponse
	if err := c.Do(ctx, http.MethodPost, "entity/demand", nil, req, &resp); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "demand created",
		"demand_id", resp.ID,
		"product_count", len(products))
	return &domain.Demand{ID: resp.ID, Products: products}, nil
}

// SearchStock returns the stock of a product folder in a store.
func (c *Client) SearchStock(ctx context.Context, storeID, productGroupID string) (*StockReport, error) {
	filter := "store=" + c.href("store", storeID) + ";" +
		"productFolder=" + c.href("productfolder", productGroupID) + ";"

	var resp listResponse[stockRow]
	params := url.Values{"filter": {filter}}
	if err := c.Do(ctx, http.MethodGet, "report/stock/all", params, nil, &resp); err != nil {
		return nil, err
	}

	report := &StockReport{
		Size: resp.Meta.Size,
		Rows: make([]domain.StockItem, 0, len(resp.Rows)),
	}
	for _, row := range resp.Rows {
		report.Rows = append(report.Rows, domain.StockItem{
			Name:  row.Name,
			Stock: row.Stock,
			Price: row.Price,
		})
	}

	c.logger.DebugContext(ctx, "stock search completed", "total_items", report.Size)
	return report, nil
}

// ProductGroups lists the product folders of the account.
func (c *Client) ProductGroups(ctx context.Context) ([]domain.ProductFolder, error) {
	var resp listResponse[folderRow]
	if err := c.Do(ctx, http.MethodGet, "entity/productfolder", nil, nil, &resp); err != nil {
		return nil, err
	}

	folders := make([]domain.ProductFolder, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		folders = append(folders, domain.ProductFolder{
			ID:       row.ID,
			Name:     row.Name,
			Archived: row.Archived,
		})
	}

	c.logger.DebugContext(ctx, "product folders received", "folder_count", len(folders))
	return folders, nil
}
