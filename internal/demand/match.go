package demand

import "github.com/apridachin/girya-storekeeper/internal/domain"

// Match pairs each row with the first catalog product whose things contain
// the row's serial number.
//
// Matched rows become new products carrying the catalog ID and the row's
// own name, serial and price; catalog entries are never modified. Rows
// without a containing product are returned in unmatched, in input order.
func Match(rows []domain.ImportRow, catalog []domain.Product) (matched []domain.Product, unmatched []domain.ImportRow) {
	matched, _, unmatched = match(rows, catalog)
	return matched, unmatched
}

// match also returns the rows that produced matched, in the same order.
func match(
	rows []domain.ImportRow,
	catalog []domain.Product,
) (matched []domain.Product, processed, unmatched []domain.ImportRow) {
	for _, row := range rows {
		product, ok := findBySerial(catalog, row.SerialNumber)
		if !ok {
			unmatched = append(unmatched, row)
			continue
		}
		processed = append(processed, row)
		matched = append(matched, domain.Product{
			ID:            product.ID,
			Name:          row.ProductName,
			Things:        []string{row.SerialNumber},
			PurchasePrice: row.Price(),
		})
	}
	return matched, processed, unmatched
}

func findBySerial(catalog []domain.Product, serial string) (domain.Product, bool) {
	for _, p := range catalog {
		if p.HasThing(serial) {
			return p, true
		}
	}
	return domain.Product{}, false
}
