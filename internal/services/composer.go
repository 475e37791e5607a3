package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

const productDescriptionLimit = 200

// ProductContext is the grounding data handed to the composer for one turn.
type ProductContext struct {
	Products        []models.Product
	Recommendations map[string][]models.CustomRecommendation
}

// ComposeResult carries the reply text and whether generation succeeded.
// On failure Text holds the fixed apology so the conversation can still
// record a well-formed assistant turn.
type ComposeResult struct {
	Text    string
	Success bool
}

// ResponseComposerService builds the bounded conversational context and
// asks the model for the assistant's reply.
type ResponseComposerService struct {
	generator TextGenerator
	prompts   *PromptManager
	tokenizer *Tokenizer
	config    *config.Config
}

func NewResponseComposerService(generator TextGenerator, prompts *PromptManager, tokenizer *Tokenizer, cfg *config.Config) *ResponseComposerService {
	return &ResponseComposerService{
		generator: generator,
		prompts:   prompts,
		tokenizer: tokenizer,
		config:    cfg,
	}
}

// Compose builds the ordered prompt (system instruction, product and
// recommendation summaries, trimmed history, then the new utterance) and
// calls the model. Provider errors degrade to the fixed apology.
func (c *ResponseComposerService) Compose(
	ctx context.Context,
	userMessage string,
	history []models.Message,
	pctx ProductContext,
) ComposeResult {
	systemPrompt := c.prompts.SystemPrompt(
		formatProductContext(pctx.Products),
		formatRecommendations(pctx.Recommendations),
	)

	// History is bounded by a token budget so long sessions cannot blow
	// up the context window; the newest messages always survive.
	trimmed := c.tokenizer.TrimToBudget(history, c.config.HistoryTokenBudget)
	if len(trimmed) < len(history) {
		utils.LogInfo(ctx, "✂️ history trimmed for context budget",
			slog.Int("kept", len(trimmed)),
			slog.Int("total", len(history)),
		)
	}

	var prompt strings.Builder
	prompt.WriteString(systemPrompt)
	prompt.WriteString("\n\n# CONVERSATION HISTORY:\n")
	prompt.WriteString(formatConversation(trimmed))
	prompt.WriteString("\n\nCurrent user message: ")
	prompt.WriteString(userMessage)

	temp := c.config.GeminiTemperature
	generateConfig := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(c.config.GeminiMaxOutputTokens),
	}

	text, err := c.generator.GenerateText(ctx, c.config.GeminiModel, prompt.String(), generateConfig)
	if err != nil {
		utils.LogError(ctx, "❌ reply generation failed, using apology fallback", err)
		return ComposeResult{Text: ComposerApology, Success: false}
	}

	return ComposeResult{Text: strings.TrimSpace(text), Success: true}
}

func formatConversation(history []models.Message) string {
	if len(history) == 0 {
		return "No previous messages"
	}

	var sb strings.Builder
	for _, msg := range history {
		role := "assistant"
		if msg.IsUser {
			role = "user"
		}
		sb.WriteString(role)
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatProductContext(products []models.Product) string {
	if len(products) == 0 {
		return "No product information available."
	}

	var sb strings.Builder
	for _, p := range products {
		categories := p.ProductType
		if len(p.Tags) > 0 {
			categories += ", " + strings.Join(p.Tags, ", ")
		}

		desc := p.Description
		if desc == "" {
			desc = "No description available"
		} else if runes := []rune(desc); len(runes) > productDescriptionLimit {
			desc = string(runes[:productDescriptionLimit])
		}

		sb.WriteString(fmt.Sprintf("Product ID: %s\nName: %s\nPrice: %s %s\nCategories: %s\nDescription: %s\n-----\n",
			p.ID, p.Title, p.Price, p.Currency, categories, desc))
	}
	return sb.String()
}

func formatRecommendations(recs map[string][]models.CustomRecommendation) string {
	if len(recs) == 0 {
		return "No custom recommendations available."
	}

	var sb strings.Builder
	for productID, relatedItems := range recs {
		sb.WriteString(fmt.Sprintf("For Product %s:\n", productID))
		for _, item := range relatedItems {
			sb.WriteString(fmt.Sprintf("- Recommend: %s (%s)\n", item.Title, item.ID))
			sb.WriteString(fmt.Sprintf("  Reason: %q\n", item.Reason))
		}
		sb.WriteString("-----\n")
	}
	return sb.String()
}
