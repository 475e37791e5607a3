package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"google.golang.org/genai"

	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// QueryAnalyzerService extracts a structured search filter from a free-text
// utterance. It fails open: whatever goes wrong with the model or its
// output, the caller gets an empty filter and the turn proceeds - a user
// must never be blocked from a reply because extraction failed.
type QueryAnalyzerService struct {
	generator TextGenerator
	prompts   *PromptManager
	config    *config.Config
}

func NewQueryAnalyzerService(generator TextGenerator, prompts *PromptManager, cfg *config.Config) *QueryAnalyzerService {
	return &QueryAnalyzerService{
		generator: generator,
		prompts:   prompts,
		config:    cfg,
	}
}

// AnalyzeQuery sends the utterance with the extraction instruction to the
// model, requesting strict JSON. Low temperature keeps extraction stable;
// the lightweight fallback model is enough for this task.
func (a *QueryAnalyzerService) AnalyzeQuery(ctx context.Context, message string) models.SearchFilter {
	prompt := a.prompts.ExtractionPrompt(message)

	temp := a.config.GeminiExtractTemperature
	generateConfig := &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  int32(a.config.GeminiExtractMaxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   GetSearchFilterSchema(),
	}

	model := a.config.GeminiFallbackModel
	if model == "" {
		model = a.config.GeminiModel
	}

	text, err := a.generator.GenerateText(ctx, model, prompt, generateConfig)
	if err != nil {
		utils.LogWarn(ctx, "⚠️ filter extraction failed, falling back to empty filter", slog.Any("error", err))
		return models.SearchFilter{}
	}

	filter := ParseSearchFilter(text)
	utils.LogInfo(ctx, "🔍 filter extracted",
		slog.String("query", filter.Query),
		slog.String("product_type", filter.ProductType),
		slog.String("tag", filter.Tag),
		slog.Any("price_min", filter.PriceMin),
		slog.Any("price_max", filter.PriceMax),
	)
	return filter
}

// ParseSearchFilter parses model output into a filter with explicit
// type-checked defaulting: a field of the wrong JSON type is treated as
// absent instead of surfacing a decode error.
func ParseSearchFilter(text string) models.SearchFilter {
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(extractJSONFromText(text)), &raw); err != nil {
		return models.SearchFilter{}
	}

	var filter models.SearchFilter
	if v, ok := raw["query"].(string); ok {
		filter.Query = v
	}
	if v, ok := raw["productType"].(string); ok {
		filter.ProductType = v
	}
	if v, ok := raw["tag"].(string); ok {
		filter.Tag = v
	}
	if v, ok := raw["priceMin"].(float64); ok {
		filter.PriceMin = &v
	}
	if v, ok := raw["priceMax"].(float64); ok {
		filter.PriceMax = &v
	}
	return filter
}
