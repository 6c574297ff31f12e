package warehouse

import "github.com/apridachin/girya-storekeeper/internal/domain"

// listResponse is the envelope the API wraps collections in.
type listResponse[T any] struct {
	Meta struct {
		Size int `json:"size"`
	} `json:"meta"`
	Rows []T `json:"rows"`
}

type productRow struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Things []string `json:"things"`
}

type stockRow struct {
	Name  string  `json:"name"`
	Stock float64 `json:"stock"`
	Price float64 `json:"price"`
}

type folderRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// meta is a reference to another entity.
type meta struct {
	Href      string `json:"href"`
	Type      string `json:"type"`
	MediaType string `json:"mediaType"`
}

type metaRef struct {
	Meta meta `json:"meta"`
}

type demandPosition struct {
	Assortment metaRef  `json:"assortment"`
	Things     []string `json:"things"`
	Quantity   int      `json:"quantity"`
	Price      int64    `json:"price"`
}

type demandRequest struct {
	Applicable   bool             `json:"applicable"`
	Organization metaRef          `json:"organization"`
	Agent        metaRef          `json:"agent"`
	Store        metaRef          `json:"store"`
	Positions    []demandPosition `json:"positions"`
}

type demandResponse struct {
	ID string `json:"id"`
}

// SearchProductsResult partitions a batch search into found products and
// the names that produced none.
type SearchProductsResult struct {
	Products []domain.Product
	NotFound []string
}

// StockReport is the stock of one product folder in one store.
type StockReport struct {
	Size int
	Rows []domain.StockItem
}
