// Package demand reconciles purchase rows with the warehouse catalog and
// imports the matched ones as a draft demand.
package demand
