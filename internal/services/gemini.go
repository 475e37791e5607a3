package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// TextGenerator is the narrow language-model surface the analyzer and
// composer depend on. GeminiService implements it; tests swap in a mock.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

// GeminiService owns the genai client and the retry/rotation policy
// shared by every language-model call in the process.
type GeminiService struct {
	client          *genai.Client
	keyRotator      *utils.KeyRotator
	config          *config.Config
	currentKeyIndex int
	mu              sync.RWMutex
}

const geminiCallTimeout = 30 * time.Second

func NewGeminiService(keyRotator *utils.KeyRotator, cfg *config.Config) (*GeminiService, error) {
	apiKey, keyIndex, err := keyRotator.GetNextKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get initial API key: %w", err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:          client,
		keyRotator:      keyRotator,
		config:          cfg,
		currentKeyIndex: keyIndex,
	}, nil
}

func (g *GeminiService) rotateClient(ctx context.Context, markCurrentAsExhausted bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if markCurrentAsExhausted {
		utils.LogWarn(ctx, "⚠️ marking Gemini key as exhausted", slog.Int("key_index", g.currentKeyIndex))
		if err := g.keyRotator.MarkKeyAsExhausted(g.currentKeyIndex); err != nil {
			utils.LogError(ctx, "failed to mark key as exhausted", err)
		}
	}

	apiKey, keyIndex, err := g.keyRotator.GetNextKey()
	if err != nil {
		return fmt.Errorf("failed to get API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g.client = client
	g.currentKeyIndex = keyIndex
	utils.LogInfo(ctx, "🔄 Gemini API key rotated", slog.Int("key_index", keyIndex))
	return nil
}

// GenerateText runs one generation call with retry, key rotation on quota
// errors, and a per-attempt timeout. It returns the concatenated text of
// the first candidate.
func (g *GeminiService) GenerateText(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.executeWithRetry(ctx, model, prompt, cfg, 3)

	// Primary model failed entirely - try the fallback model once more
	if err != nil && g.config.GeminiFallbackModel != "" && g.config.GeminiFallbackModel != model {
		utils.LogWarn(ctx, "⚠️ primary model failed, trying fallback",
			slog.String("model", model),
			slog.String("fallback", g.config.GeminiFallbackModel),
		)
		resp, err = g.executeWithRetry(ctx, g.config.GeminiFallbackModel, prompt, cfg, 2)
	}
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in Gemini response (finish reason: %v)", candidate.FinishReason)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response text from Gemini")
	}
	return text, nil
}

// executeWithRetry performs the API call with exponential backoff. Quota
// errors rotate the key and retry immediately; overload and timeout errors
// back off and retry; anything else fails fast.
func (g *GeminiService) executeWithRetry(
	ctx context.Context,
	model string,
	prompt string,
	cfg *genai.GenerateContentConfig,
	maxRetries int,
) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			utils.LogInfo(ctx, "⏳ Gemini retry",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", maxRetries),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		g.mu.RLock()
		client := g.client
		g.mu.RUnlock()

		callCtx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
		resp, err := client.Models.GenerateContent(callCtx, model, genai.Text(prompt), cfg)
		cancel()

		if err == nil && resp != nil {
			if attempt > 0 {
				utils.LogInfo(ctx, "✅ Gemini request succeeded on retry", slog.Int("attempt", attempt+1))
			}
			return resp, nil
		}
		lastErr = err

		if err != nil {
			errMsg := err.Error()

			if strings.Contains(errMsg, "quota") ||
				strings.Contains(errMsg, "429") ||
				strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				utils.LogWarn(ctx, "⚠️ quota exceeded, rotating API key")
				if rotateErr := g.rotateClient(ctx, true); rotateErr != nil {
					utils.LogError(ctx, "key rotation failed", rotateErr)
				}
				continue
			}

			if strings.Contains(errMsg, "503") ||
				strings.Contains(errMsg, "UNAVAILABLE") ||
				strings.Contains(errMsg, "overloaded") {
				utils.LogWarn(ctx, "⚠️ service overloaded, will retry")
				continue
			}

			if strings.Contains(errMsg, "timeout") ||
				strings.Contains(errMsg, "deadline exceeded") {
				utils.LogWarn(ctx, "⚠️ request timeout, will retry")
				continue
			}

			return nil, fmt.Errorf("Gemini API error: %w", err)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("Gemini API failed after %d retries: %w", maxRetries, lastErr)
	}
	return nil, fmt.Errorf("Gemini API failed after %d retries", maxRetries)
}

// extractJSONFromText pulls the first complete JSON object out of model
// output that may wrap it in prose or markdown fences.
func extractJSONFromText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "`")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSpace(text)

	firstBraceIdx := strings.Index(text, "{")
	if firstBraceIdx == -1 {
		return text
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := firstBraceIdx; i < len(text); i++ {
		char := text[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if !inString {
			if char == '{' {
				braceCount++
			} else if char == '}' {
				braceCount--
				if braceCount == 0 {
					return text[firstBraceIdx : i+1]
				}
			}
		}
	}

	return text[firstBraceIdx:]
}
