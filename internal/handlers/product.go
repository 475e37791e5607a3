package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
)

type ProductHandler struct {
	container *container.Container
}

func NewProductHandler(c *container.Container) *ProductHandler {
	return &ProductHandler{
		container: c,
	}
}

// HandleListProducts returns the current catalog snapshot, refreshing it
// on first use.
// @Summary List catalog products
// @Tags products
// @Router /api/products [get]
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products := h.container.CatalogService.CachedProducts()
	if products == nil {
		products = h.container.CatalogService.RefreshAll(c.UserContext())
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// HandleGetProduct returns one product by catalog id.
// @Summary Get a product
// @Tags products
// @Router /api/products/:id [get]
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	products := h.container.CatalogService.CachedProducts()
	if products == nil {
		products = h.container.CatalogService.RefreshAll(c.UserContext())
	}

	for _, p := range products {
		if p.ID == productID {
			return c.JSON(p)
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error:   "not_found",
		Message: "Product not found",
	})
}
