package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/jpryor812/shopify-aloha/internal/app"
	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

func main() {
	cfg := config.Load()

	c, err := container.New(cfg)
	if err != nil {
		utils.LogError(context.Background(), "failed to build service container", err)
		os.Exit(1)
	}
	defer c.Close()

	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.StoreName,
		DisableStartupMessage: true,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(cors.New())
	fiberApp.Use(func(ctx *fiber.Ctx) error {
		requestID := ctx.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx.SetUserContext(utils.WithRequestID(ctx.UserContext(), requestID))
		return ctx.Next()
	})

	app.SetupRoutes(fiberApp, c)

	// Prime the catalog snapshot so the first turn is fast.
	go c.WarmCatalog(context.Background())

	go func() {
		utils.LogInfo(context.Background(), "🚀 server starting", slog.String("port", cfg.Port))
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			utils.LogError(context.Background(), "server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.LogInfo(context.Background(), "shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		utils.LogError(context.Background(), "shutdown error", err)
	}
}
