package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpryor812/shopify-aloha/internal/models"
)

func newCartTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	env := newTestContainer(t, &scriptedGenerator{})

	app := fiber.New()
	app.Post("/api/add-to-cart", NewCartHandler(env.container).HandleAddToCart)
	return app, env
}

func TestHandleAddToCart(t *testing.T) {
	app, _ := newCartTestApp(t)

	resp := postJSON(t, app, "/api/add-to-cart", models.AddToCartRequest{ProductID: "111", SessionID: "sess"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[models.AddToCartResponse](t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, body.Checkout)
	assert.Equal(t, "https://test.myshopify.com/checkout/abc", body.Checkout.WebURL)
}

func TestHandleAddToCartValidation(t *testing.T) {
	app, _ := newCartTestApp(t)

	resp := postJSON(t, app, "/api/add-to-cart", models.AddToCartRequest{SessionID: "sess"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleAddToCartUnknownProduct(t *testing.T) {
	app, _ := newCartTestApp(t)

	resp := postJSON(t, app, "/api/add-to-cart", models.AddToCartRequest{ProductID: "nope"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[models.AddToCartResponse](t, resp)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}
