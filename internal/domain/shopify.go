package domain

// Raw Shopify Storefront GraphQL wire types. The catalog service flattens
// these into models.Product; nothing outside that layer should touch them.

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

type ProductsResponse struct {
	Data   *ProductsData  `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type ProductsData struct {
	Products ProductConnection `json:"products"`
}

type ProductConnection struct {
	Edges []ProductEdge `json:"edges"`
}

type ProductEdge struct {
	Node ProductNode `json:"node"`
}

type ProductNode struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ProductType string            `json:"productType"`
	Tags        []string          `json:"tags"`
	PriceRange  PriceRange        `json:"priceRange"`
	Images      ImageConnection   `json:"images"`
	Variants    VariantConnection `json:"variants"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges"`
}

type ImageEdge struct {
	Node ImageNode `json:"node"`
}

type ImageNode struct {
	OriginalSrc string `json:"originalSrc"`
	AltText     string `json:"altText"`
}

type VariantConnection struct {
	Edges []VariantEdge `json:"edges"`
}

type VariantEdge struct {
	Node VariantNode `json:"node"`
}

type VariantNode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            string `json:"price"`
}

// Admin API checkoutCreate wire types.

type CheckoutCreateResponse struct {
	Data   *CheckoutCreateData `json:"data"`
	Errors []GraphQLError      `json:"errors,omitempty"`
}

type CheckoutCreateData struct {
	CheckoutCreate CheckoutCreatePayload `json:"checkoutCreate"`
}

type CheckoutCreatePayload struct {
	Checkout           *CheckoutNode       `json:"checkout"`
	CheckoutUserErrors []CheckoutUserError `json:"checkoutUserErrors"`
}

type CheckoutNode struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

type CheckoutUserError struct {
	Code    string `json:"code"`
	Field   []string `json:"field"`
	Message string `json:"message"`
}
