package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// SessionService keeps per-session conversation history in memory.
// Sessions are isolated by ID and live only for the process lifetime.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
}

func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string][]models.Message),
	}
}

// StartSession resets the session to a fresh history containing only the
// welcome greeting. Calling it on an existing session discards prior turns.
func (s *SessionService) StartSession(ctx context.Context, sessionID string) models.Message {
	welcome := models.NewAssistantMessage(WelcomeMessage)

	s.mu.Lock()
	s.sessions[sessionID] = []models.Message{welcome}
	s.mu.Unlock()

	utils.LogInfo(ctx, "🆕 session started", slog.String("session_id", sessionID))
	return welcome
}

// Append records a message at the end of the session history, creating the
// session implicitly if it does not exist yet.
func (s *SessionService) Append(sessionID string, msg models.Message) {
	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	s.mu.Unlock()
}

// Get returns a copy of the full ordered history for the session.
// Unknown sessions yield an empty history, not an error.
func (s *SessionService) Get(sessionID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	out := make([]models.Message, len(history))
	copy(out, history)
	return out
}

// Clear removes the session entirely. Clearing an unknown session is a no-op.
func (s *SessionService) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed {
		utils.LogInfo(ctx, "🗑️ session cleared", slog.String("session_id", sessionID))
	}
}

// Count reports the number of live sessions, used by the health endpoint.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
