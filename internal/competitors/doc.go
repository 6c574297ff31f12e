// Package competitors searches the competitor retail site through a shared
// headless browser session and extracts the best matching product from the
// rendered results.
//
// The session launches its browser lazily and reuses it across searches.
// When the driver reports that the browser went away, the session discards
// it and retries the search once on a fresh one. Every other failure is a
// per-query SearchError, which callers treat as "no match".
package competitors
