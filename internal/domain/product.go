package domain

import "slices"

// Product is a warehouse catalog entry. Things holds the serial numbers
// already registered against the product in the warehouse.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Things        []string `json:"things"`
	PurchasePrice int64    `json:"purchase_price"`
}

// HasThing reports whether serial is registered against the product.
func (p Product) HasThing(serial string) bool {
	if serial == "" {
		return false
	}
	return slices.Contains(p.Things, serial)
}

// ProductFolder is a warehouse product group.
type ProductFolder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// Demand is a draft shipment document created in the warehouse
// from a set of matched products.
type Demand struct {
	ID       string    `json:"id"`
	Products []Product `json:"products"`
}
