package domain

// StockItem is one stock-keeping unit as reported by the warehouse.
type StockItem struct {
	Name  string  `json:"name"`
	Stock float64 `json:"stock"`
	Price float64 `json:"price"`
}

// CompetitorProduct is the best match found on the competitor site.
type CompetitorProduct struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// StockRow is a StockItem augmented with its competitor match. FoundName and
// FoundURL are either both set or both nil. FoundPrice is nil when the match
// carries no price, as partner listings do. Use NewMatchedStockRow and
// NewUnmatchedStockRow to build one.
type StockRow struct {
	StockItem
	FoundName  *string `json:"found_name"`
	FoundPrice *string `json:"found_price"`
	FoundURL   *string `json:"found_url"`
}

// NewMatchedStockRow builds a row carrying the competitor product. An empty
// found.Price leaves FoundPrice nil.
func NewMatchedStockRow(item StockItem, found CompetitorProduct) StockRow {
	row := StockRow{
		StockItem: item,
		FoundName: &found.Name,
		FoundURL:  &found.URL,
	}
	if found.Price != "" {
		row.FoundPrice = &found.Price
	}
	return row
}

// NewUnmatchedStockRow builds a row with no competitor match.
func NewUnmatchedStockRow(item StockItem) StockRow {
	return StockRow{StockItem: item}
}

// Matched reports whether the row carries a competitor match.
func (r StockRow) Matched() bool {
	return r.FoundName != nil
}

// StockSearchResult is the payload of a completed competitor search.
type StockSearchResult struct {
	Size int        `json:"size"`
	Rows []StockRow `json:"rows"`
}

// NewStockSearchResult wraps rows, keeping Size in step with the slice.
func NewStockSearchResult(rows []StockRow) *StockSearchResult {
	if rows == nil {
		rows = []StockRow{}
	}
	return &StockSearchResult{Size: len(rows), Rows: rows}
}
