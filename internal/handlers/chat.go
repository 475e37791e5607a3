package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
)

// ChatHandler exposes the conversation over REST.
type ChatHandler struct {
	container *container.Container
	processor *ChatProcessor
}

func NewChatHandler(c *container.Container) *ChatHandler {
	return &ChatHandler{
		container: c,
		processor: NewChatProcessor(c),
	}
}

// HandleChat processes one chat turn.
// @Summary Process a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Router /api/chat [post]
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be valid JSON",
		})
	}

	if req.SessionID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "validation_error",
			Message: "sessionId and message are required",
		})
	}

	return c.JSON(h.processor.ProcessChat(&req))
}

// HandleStartSession resets a session to the welcome greeting.
// @Summary Start or restart a chat session
// @Tags chat
// @Router /api/chat/start [post]
func (h *ChatHandler) HandleStartSession(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "validation_error",
			Message: "sessionId is required",
		})
	}

	conversation := h.processor.StartSession(c.UserContext(), req.SessionID)
	return c.JSON(fiber.Map{
		"success":      true,
		"conversation": conversation,
	})
}

// HandleGetMessages returns the full conversation for a session.
// @Summary Get session messages
// @Tags chat
// @Router /api/chat/messages [get]
func (h *ChatHandler) HandleGetMessages(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "validation_error",
			Message: "session_id query parameter is required",
		})
	}

	return c.JSON(fiber.Map{
		"conversation": h.container.SessionService.Get(sessionID),
	})
}

// HandleClearSession removes a session entirely.
// @Summary Clear a chat session
// @Tags chat
// @Router /api/chat/session [delete]
func (h *ChatHandler) HandleClearSession(c *fiber.Ctx) error {
	var req models.ClearSessionRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		// Allow session id via query for DELETE clients that drop bodies.
		req.SessionID = c.Query("session_id")
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "validation_error",
			Message: "sessionId is required",
		})
	}

	h.processor.ClearSession(c.UserContext(), req.SessionID)
	return c.JSON(models.ClearSessionResponse{Success: true})
}
