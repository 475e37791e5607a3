package services

import "google.golang.org/genai"

func boolPtr(b bool) *bool {
	return &b
}

// GetSearchFilterSchema returns the schema for filter extraction responses.
// Every field is optional: the model must include a key only when the
// utterance actually constrains it.
func GetSearchFilterSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"query": {
				Type:        genai.TypeString,
				Nullable:    boolPtr(true),
				Description: "Overall search term (e.g. 'jeans'). Product words ONLY - no prices, no store names.",
			},
			"productType": {
				Type:        genai.TypeString,
				Nullable:    boolPtr(true),
				Description: "Category of product (e.g. 'jeans', 'shoes')",
			},
			"tag": {
				Type:        genai.TypeString,
				Nullable:    boolPtr(true),
				Description: "A specific tag or attribute (e.g. 'summer', 'organic')",
			},
			"priceMin": {
				Type:        genai.TypeNumber,
				Nullable:    boolPtr(true),
				Description: "Minimum price if specified",
			},
			"priceMax": {
				Type:        genai.TypeNumber,
				Nullable:    boolPtr(true),
				Description: "Maximum price if specified",
			},
		},
		PropertyOrdering: []string{"query", "productType", "tag", "priceMin", "priceMax"},
	}
}
