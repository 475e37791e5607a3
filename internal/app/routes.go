package app

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/handlers"
	"github.com/jpryor812/shopify-aloha/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, c *container.Container) {
	// Prometheus metrics endpoint (no auth required for scraping)
	metricsHandler := handlers.NewMetricsHandler()
	app.Get("/metrics", metricsHandler.GetMetrics)

	// Health check
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now(),
			"sessions":  c.SessionService.Count(),
			"services":  c.HealthCheck(),
		})
	})

	// Apply Prometheus middleware to all /api routes
	api := app.Group("/api", middleware.PrometheusMiddleware())

	// WebSocket chat
	setupWebSocketRoutes(app, c)

	// Chat endpoints
	setupChatRoutes(api, c)

	// Cart endpoints
	setupCartRoutes(api, c)

	// Product routes
	setupProductRoutes(api, c)

	// Merchant recommendation routes
	setupRecommendationRoutes(api, c)
}

func setupWebSocketRoutes(app *fiber.App, c *container.Container) {
	wsHandler := handlers.NewWSHandler(c)

	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			ctx.Locals("allowed", true)
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		wsHandler.HandleWebSocket(conn)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}

func setupChatRoutes(api fiber.Router, c *container.Container) {
	chatHandler := handlers.NewChatHandler(c)

	api.Post("/chat", chatHandler.HandleChat)
	api.Post("/chat/start", chatHandler.HandleStartSession)
	api.Get("/chat/messages", chatHandler.HandleGetMessages)
	api.Delete("/chat/session", chatHandler.HandleClearSession)
}

func setupCartRoutes(api fiber.Router, c *container.Container) {
	cartHandler := handlers.NewCartHandler(c)
	api.Post("/add-to-cart", cartHandler.HandleAddToCart)
}

func setupProductRoutes(api fiber.Router, c *container.Container) {
	productHandler := handlers.NewProductHandler(c)
	api.Get("/products", productHandler.HandleListProducts)
	api.Get("/products/:id", productHandler.HandleGetProduct)
}

func setupRecommendationRoutes(api fiber.Router, c *container.Container) {
	recHandler := handlers.NewRecommendationHandler(c)
	api.Get("/recommendations", recHandler.HandleGetRecommendations)
	api.Post("/recommendations", recHandler.HandleSaveRecommendations)
}
