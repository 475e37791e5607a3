package models

// ═══════════════════════════════════════════════════════════
// PRODUCT MODELS
// ═══════════════════════════════════════════════════════════

// Product is the flat catalog representation the assistant works with.
// IDs are catalog-local: the provider's gid namespace prefix is stripped
// during normalization.
type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	ProductType string           `json:"productType"`
	Tags        []string         `json:"tags,omitempty"`
	Price       string           `json:"price"`
	Currency    string           `json:"currency"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	ImageAlt    string           `json:"imageAlt,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

type ProductVariant struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

// CustomRecommendation is a merchant-authored "if viewing X, suggest Y"
// association. Lists are keyed by the source product id; list order is
// authoring order and significant for display.
type CustomRecommendation struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ═══════════════════════════════════════════════════════════
// SEARCH FILTER
// ═══════════════════════════════════════════════════════════

// SearchFilter is the structured constraint extracted from a free-text
// utterance. All fields optional; an empty filter means "no constraint".
type SearchFilter struct {
	Query       string   `json:"query,omitempty"`
	ProductType string   `json:"productType,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	PriceMin    *float64 `json:"priceMin,omitempty"`
	PriceMax    *float64 `json:"priceMax,omitempty"`
}

// IsEmpty reports whether no constraint was extracted. The orchestrator
// uses this to choose between a live provider query and the cache.
func (f SearchFilter) IsEmpty() bool {
	return f.Query == "" && f.ProductType == "" && f.Tag == "" &&
		f.PriceMin == nil && f.PriceMax == nil
}
