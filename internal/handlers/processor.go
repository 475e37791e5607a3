package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/services"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

const turnTimeout = 60 * time.Second

var (
	chatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total chat turns processed by outcome",
		},
		[]string{"status"},
	)

	chatTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "End-to-end chat turn latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// ChatProcessor runs the core turn logic shared between REST and WebSocket
// handlers: record the user message, extract a search filter, gather the
// product context, compose a reply, record it.
type ChatProcessor struct {
	container *container.Container
}

func NewChatProcessor(c *container.Container) *ChatProcessor {
	return &ChatProcessor{container: c}
}

// ProcessChat handles one conversational turn. The response always carries
// the full updated conversation; Success is false only when reply
// generation itself failed and the apology was recorded instead.
func (p *ChatProcessor) ProcessChat(req *models.ChatRequest) *models.ChatResponse {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	start := time.Now()
	status := "success"
	defer func() {
		duration := time.Since(start).Seconds()
		chatTurnsTotal.WithLabelValues(status).Inc()
		chatTurnDuration.Observe(duration)
		utils.LogInfo(ctx, "message processing completed",
			slog.String("session_id", req.SessionID),
			slog.String("status", status),
			slog.Float64("duration_seconds", duration),
		)
	}()

	sessions := p.container.SessionService
	sessions.Append(req.SessionID, models.NewUserMessage(req.Message))

	filter := p.container.AnalyzerService.AnalyzeQuery(ctx, req.Message)

	// A non-empty filter always means a live targeted query; otherwise the
	// cached snapshot serves the turn, refreshed on demand or first use.
	var products []models.Product
	switch {
	case !filter.IsEmpty():
		products = p.container.CatalogService.SearchProducts(ctx, filter, p.container.Config.ProductLimit)
	case req.RefreshContext || p.container.CatalogService.CachedProducts() == nil:
		products = p.container.CatalogService.RefreshAll(ctx)
	default:
		products = p.container.CatalogService.CachedProducts()
	}
	if products == nil {
		products = []models.Product{}
	}

	if req.RefreshContext || p.container.RecommendationService.Empty() {
		_ = p.container.RecommendationService.Reload(ctx)
	}

	history := sessions.Get(req.SessionID)
	// History passed to the composer excludes the utterance being answered;
	// it travels separately as the current message. A concurrent clear can
	// leave the history empty here.
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	result := p.container.ComposerService.Compose(ctx, req.Message, history, services.ProductContext{
		Products:        products,
		Recommendations: p.container.RecommendationService.All(),
	})
	if !result.Success {
		status = "compose_failed"
	}

	sessions.Append(req.SessionID, models.NewAssistantMessage(result.Text))

	return &models.ChatResponse{
		Response:         result.Text,
		Success:          result.Success,
		Conversation:     sessions.Get(req.SessionID),
		RelevantProducts: products,
	}
}

// StartSession resets the session to the greeting and returns the fresh
// conversation.
func (p *ChatProcessor) StartSession(ctx context.Context, sessionID string) []models.Message {
	p.container.SessionService.StartSession(ctx, sessionID)
	return p.container.SessionService.Get(sessionID)
}

// ClearSession drops the session history.
func (p *ChatProcessor) ClearSession(ctx context.Context, sessionID string) {
	p.container.SessionService.Clear(ctx, sessionID)
}
