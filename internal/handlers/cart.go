package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// CartHandler turns "buy it" into a hosted checkout.
type CartHandler struct {
	container *container.Container
}

func NewCartHandler(c *container.Container) *CartHandler {
	return &CartHandler{container: c}
}

// HandleAddToCart creates a checkout for one unit of the product's first
// variant and returns the checkout URL for the widget to open.
// @Summary Add a product to cart
// @Tags cart
// @Router /api/add-to-cart [post]
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req models.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be valid JSON",
		})
	}

	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "validation_error",
			Message: "productId is required",
		})
	}

	checkout, err := h.container.CatalogService.CreateCheckout(c.UserContext(), req.ProductID)
	if err != nil {
		utils.LogError(c.UserContext(), "❌ add to cart failed", err,
			slog.String("product_id", req.ProductID),
			slog.String("session_id", req.SessionID),
		)
		// Degraded turns stay 200 so the widget renders the message inline
		// instead of surfacing a transport error.
		return c.JSON(models.AddToCartResponse{
			Success: false,
			Error:   "Sorry, I couldn't add that to your cart right now. Please try again in a moment.",
		})
	}

	return c.JSON(models.AddToCartResponse{
		Success:  true,
		Checkout: checkout,
	})
}
