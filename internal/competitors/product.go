package competitors

import (
	"fmt"

	"github.com/apridachin/girya-storekeeper/internal/extraction"
)

// productShape is the reply expected from the extractor. A product whose
// fields are all empty strings means nothing on the page matched.
var productShape = extraction.MustShape("competitor_products", `{
	"type": "object",
	"required": ["products"],
	"properties": {
		"products": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "price", "url"],
				"properties": {
					"name": {"type": "string"},
					"price": {"type": "string"},
					"url": {"type": "string"}
				}
			}
		}
	}
}`)

type productCandidate struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

type productCandidates struct {
	Products []productCandidate `json:"products"`
}

func productInstructions(query string) string {
	return fmt.Sprintf(`You are provided with the markup of a search results page.
Find the product %q. The product name on the page might be slightly different.
Return the name, the price and the link of each matching product, best match first, in the "products" array.
If no product matches, return one product whose name, price and url are all empty strings.
Example input: Iphone 14 128 Purple
Example JSON output:
{"products": [{"name": "Apple iPhone 14 128GB smartphone, purple", "price": "16000", "url": "/iphone-14-128gb-purple/"}]}`, query)
}
