package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// RecommendationHandler is the merchant-facing surface for authoring
// "customers viewing X should also see Y" lists.
type RecommendationHandler struct {
	container *container.Container
}

func NewRecommendationHandler(c *container.Container) *RecommendationHandler {
	return &RecommendationHandler{container: c}
}

// HandleGetRecommendations returns the full recommendation map.
// @Summary Get all custom recommendations
// @Tags recommendations
// @Router /api/recommendations [get]
func (h *RecommendationHandler) HandleGetRecommendations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"recommendations": h.container.RecommendationService.All(),
	})
}

// HandleSaveRecommendations replaces the list for one product.
// @Summary Save custom recommendations for a product
// @Tags recommendations
// @Router /api/recommendations [post]
func (h *RecommendationHandler) HandleSaveRecommendations(c *fiber.Ctx) error {
	var req models.SaveRecommendationsRequest
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

	if err := h.container.RecommendationService.Save(c.UserContext(), req.ProductID, req.Recommendations); err != nil {
		utils.LogError(c.UserContext(), "❌ failed to save recommendations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to persist recommendations",
		})
	}

	return c.JSON(models.SaveRecommendationsResponse{Success: true})
}
