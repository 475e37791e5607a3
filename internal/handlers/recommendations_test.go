package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpryor812/shopify-aloha/internal/models"
)

func newRecommendationTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	env := newTestContainer(t, &scriptedGenerator{})

	app := fiber.New()
	h := NewRecommendationHandler(env.container)
	app.Get("/api/recommendations", h.HandleGetRecommendations)
	app.Post("/api/recommendations", h.HandleSaveRecommendations)
	return app, env
}

func TestSaveAndGetRecommendations(t *testing.T) {
	app, _ := newRecommendationTestApp(t)

	resp := postJSON(t, app, "/api/recommendations", models.SaveRecommendationsRequest{
		ProductID: "111",
		Recommendations: []models.CustomRecommendation{
			{ID: "222", Title: "Board Shorts", Reason: "Completes the summer look"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decodeBody[models.SaveRecommendationsResponse](t, resp).Success)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)

	body := decodeBody[struct {
		Recommendations map[string][]models.CustomRecommendation `json:"recommendations"`
	}](t, getResp)
	require.Len(t, body.Recommendations["111"], 1)
	assert.Equal(t, "Board Shorts", body.Recommendations["111"][0].Title)
}

func TestSaveRecommendationsValidation(t *testing.T) {
	app, _ := newRecommendationTestApp(t)

	resp := postJSON(t, app, "/api/recommendations", models.SaveRecommendationsRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
