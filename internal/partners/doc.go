// Package partners looks stock items up in the partner catalog. The catalog
// is server-rendered, so a plain HTTP GET and an HTML walk are enough: the
// first listing's title link gives the name and URL. Listings carry no
// price.
package partners
