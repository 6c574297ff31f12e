// Package domain contains the core business entities of the storekeeper:
// warehouse catalog products, purchase import rows, stock rows enriched with
// competitor prices, and the demand documents created from imports. It is
// independent of the warehouse API, the browser, and the HTTP layer.
package domain
