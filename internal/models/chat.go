package models

// ═══════════════════════════════════════════════════════════
// CHAT REQUEST/RESPONSE MODELS
// ═══════════════════════════════════════════════════════════

type ChatRequest struct {
	SessionID      string `json:"sessionId"`
	Message        string `json:"message"`
	RefreshContext bool   `json:"refreshContext"` // Force a fresh catalog + recommendation fetch for this turn
}

type ChatResponse struct {
	Response         string    `json:"response"`
	Success          bool      `json:"success"`
	Conversation     []Message `json:"conversation"`
	RelevantProducts []Product `json:"relevantProducts"`
}

type StartSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type ClearSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type ClearSessionResponse struct {
	Success bool `json:"success"`
}

// ═══════════════════════════════════════════════════════════
// CART MODELS
// ═══════════════════════════════════════════════════════════

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	SessionID string `json:"sessionId"`
}

type AddToCartResponse struct {
	Success  bool      `json:"success"`
	Checkout *Checkout `json:"checkout,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Checkout is the provider-created checkout the widget redirects to.
type Checkout struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

// ═══════════════════════════════════════════════════════════
// RECOMMENDATION MODELS
// ═══════════════════════════════════════════════════════════

type SaveRecommendationsRequest struct {
	ProductID       string                 `json:"productId"`
	Recommendations []CustomRecommendation `json:"recommendations"`
}

type SaveRecommendationsResponse struct {
	Success bool `json:"success"`
}

// ═══════════════════════════════════════════════════════════
// ERROR MODELS
// ═══════════════════════════════════════════════════════════

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
