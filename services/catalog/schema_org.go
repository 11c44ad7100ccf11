package catalog

import "glowpicked-backend/lib/paapi"

// SchemaProduct names one entry of a rendered product list.
type SchemaProduct struct {
	ID   string
	Name string
}

// ProductListSchema builds the schema.org ItemList JSON-LD for a product
// list page, using enriched (already transformed) values so structured data
// never claims more than the page shows.
func (e *Enricher) ProductListSchema(products []SchemaProduct, listName string) map[string]any {
	items := make([]map[string]any, len(products))
	for i, p := range products {
		enriched := e.Enrich(p.ID, nil)
		items[i] = map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item": map[string]any{
				"@type": "Product",
				"name":  p.Name,
				"url":   paapi.DeepLink(p.ID, e.partnerTag),
				"aggregateRating": map[string]any{
					"@type":       "AggregateRating",
					"ratingValue": enriched.Rating,
					"bestRating":  5,
					"reviewCount": enriched.ReviewCount,
				},
			},
		}
	}

	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            listName,
		"numberOfItems":   len(products),
		"itemListElement": items,
	}
}
