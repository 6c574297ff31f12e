package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var rowValidator = validator.New()

// ImportRow is one purchase line taken from a supplier spreadsheet.
// Prices are integer minor currency units.
type ImportRow struct {
	Idx           int    `json:"idx"`
	SerialNumber  string `json:"serial_number"  validate:"required"`
	ProductName   string `json:"product_name"   validate:"required"`
	PurchasePrice *int64 `json:"purchase_price" validate:"required,gte=0"`
}

// Validate checks that the row carries everything needed to match it
// against the warehouse catalog.
func (r ImportRow) Validate() error {
	if err := rowValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: row %d: %v", ErrValidation, r.Idx, err)
	}
	return nil
}

// Price returns the purchase price, or zero when the row has none.
func (r ImportRow) Price() int64 {
	if r.PurchasePrice == nil {
		return 0
	}
	return *r.PurchasePrice
}

// SplitValidRows partitions rows into those that pass Validate and those
// that do not. Order is preserved in both partitions.
func SplitValidRows(rows []ImportRow) (valid, invalid []ImportRow) {
	for _, row := range rows {
		if row.Validate() != nil {
			invalid = append(invalid, row)
			continue
		}
		valid = append(valid, row)
	}
	return valid, invalid
}
