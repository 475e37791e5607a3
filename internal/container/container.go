package container

import (
	"context"
	"time"

	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/services"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// Container wires all application services together.
type Container struct {
	Config *config.Config

	GeminiRotator *utils.KeyRotator
	GeminiService *services.GeminiService

	SessionService        *services.SessionService
	AnalyzerService       *services.QueryAnalyzerService
	CatalogService        *services.CatalogService
	RecommendationService *services.RecommendationService
	ComposerService       *services.ResponseComposerService
}

// New builds the full service graph from config.
func New(cfg *config.Config) (*Container, error) {
	rotator, err := utils.NewKeyRotator(cfg.GeminiAPIKeys, 5*time.Minute)
	if err != nil {
		return nil, err
	}

	gemini, err := services.NewGeminiService(rotator, cfg)
	if err != nil {
		return nil, err
	}

	recommendations, err := services.NewRecommendationService(cfg.RecommendationsDBPath)
	if err != nil {
		return nil, err
	}

	prompts := services.NewPromptManager(cfg.StoreName, cfg.StoreInfo)
	tokenizer := services.NewTokenizer()

	return &Container{
		Config: cfg,

		GeminiRotator: rotator,
		GeminiService: gemini,

		SessionService:        services.NewSessionService(),
		AnalyzerService:       services.NewQueryAnalyzerService(gemini, prompts, cfg),
		CatalogService:        services.NewCatalogService(cfg),
		RecommendationService: recommendations,
		ComposerService:       services.NewResponseComposerService(gemini, prompts, tokenizer, cfg),
	}, nil
}

// WarmCatalog primes the catalog snapshot so the first chat turn does not
// pay the provider round trip. Failure is tolerated; the first turn will
// retry.
func (c *Container) WarmCatalog(ctx context.Context) {
	c.CatalogService.RefreshAll(ctx)
}

// HealthCheck reports per-service readiness for the health endpoint.
func (c *Container) HealthCheck() map[string]string {
	checks := map[string]string{
		"gemini":          "ok",
		"catalog":         "ok",
		"recommendations": "ok",
		"sessions":        "ok",
	}

	if c.Config.GeminiAPIKeys == "" {
		checks["gemini"] = "not_configured"
	}
	if c.Config.ShopDomain == "" {
		checks["catalog"] = "not_configured"
	} else if c.CatalogService.CachedProducts() == nil {
		checks["catalog"] = "cold"
	}

	return checks
}

// Close releases held resources.
func (c *Container) Close() error {
	return c.RecommendationService.Close()
}
