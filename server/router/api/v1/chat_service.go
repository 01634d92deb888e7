package v1

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caltide/caltide/server/internal/observability"
	"github.com/caltide/caltide/store"
)

// maxChatMessageLength bounds a single user message.
const maxChatMessageLength = 4096

// ChatRequest is the chat endpoint request body. SessionID is optional; a
// new conversation is opened when it is empty or unknown.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the chat endpoint response body.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat handles one user message end to end.
// POST /api/v1/chat
func (s *APIV1Service) Chat(c echo.Context) error {
	req := &ChatRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if len(message) > maxChatMessageLength {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message too long"})
	}

	ctx := c.Request().Context()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if !s.rateLimiter.Allow(sessionID) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
	}

	reqCtx := observability.NewRequestContext(slog.Default(), sessionID)

	// One message at a time, in arrival order.
	if err := s.chatSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "server is shutting down"})
	}
	defer s.chatSemaphore.Release(1)

	conversation, err := s.findOrCreateConversation(c, sessionID, message)
	if err != nil {
		reqCtx.Error("conversation lookup failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	s.appendMessage(c, conversation, store.MessageRoleUser, message, reqCtx)

	reply := s.assistant.ProcessQuery(ctx, message)

	s.appendMessage(c, conversation, store.MessageRoleAssistant, reply, reqCtx)

	observability.GlobalMetrics().RecordRequest(time.Since(reqCtx.StartTime))
	reqCtx.Info("chat message processed",
		slog.Int("message_length", len(message)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, ChatResponse{
		SessionID: conversation.UID,
		Reply:     reply,
	})
}

// findOrCreateConversation resolves the session to a stored conversation,
// creating one titled after the opening message when absent.
func (s *APIV1Service) findOrCreateConversation(c echo.Context, sessionID, opening string) (*store.Conversation, error) {
	ctx := c.Request().Context()

	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &sessionID})
	if err != nil {
		return nil, err
	}
	if conversation != nil {
		return conversation, nil
	}

	title := opening
	if len(title) > 60 {
		title = title[:60]
	}
	return s.Store.CreateConversation(ctx, &store.Conversation{
		UID:   sessionID,
		Title: title,
	})
}

// appendMessage persists one transcript turn. Persistence failures are
// logged but do not fail the chat: the reply still reaches the user.
func (s *APIV1Service) appendMessage(c echo.Context, conversation *store.Conversation, role store.MessageRole, content string, reqCtx *observability.RequestContext) {
	_, err := s.Store.CreateConversationMessage(c.Request().Context(), &store.ConversationMessage{
		ConversationID: conversation.ID,
		Role:           role,
		Content:        content,
	})
	if err != nil {
		reqCtx.Error("failed to persist transcript message", err, slog.String("role", string(role)))
	}
}
