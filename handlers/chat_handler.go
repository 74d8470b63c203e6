package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/profpick/backend/models"
	"github.com/profpick/backend/services"
	"github.com/profpick/backend/services/chat"
	"github.com/profpick/backend/utils"
	"go.uber.org/zap"
)

// ChatService defines the interface for chat turn processing
type ChatService interface {
	// ProcessTurn runs one conversation turn through the retrieval and
	// generation pipeline and returns the full completion
	ProcessTurn(ctx context.Context, conversation []models.Message) (*chat.TurnResult, error)
}

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	service ChatService
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// HandleChat handles POST /api/v1/chat.
//
// The request body is a bare JSON array of {role, content} messages; the
// response body is the raw completion text, written as a single chunk and
// flushed immediately. Errors on this endpoint are plain text, not JSON,
// since successful responses are plain text too.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	var conversation []models.Message
	if err := json.NewDecoder(r.Body).Decode(&conversation); err != nil {
		h.logger.Warn("failed to parse chat request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body: expected a JSON array of messages")
		return
	}

	if len(conversation) == 0 {
		h.writeError(w, http.StatusBadRequest, services.ErrEmptyConversation.Message)
		return
	}

	for _, msg := range conversation {
		if err := utils.ValidateStruct(msg); err != nil {
			h.logger.Warn("invalid chat message",
				zap.String("request_id", requestID),
				zap.Error(err))
			h.writeError(w, http.StatusBadRequest, "invalid message: "+err.Error())
			return
		}
	}

	result, err := h.service.ProcessTurn(ctx, conversation)
	if err != nil {
		h.logger.Error("chat turn failed",
			zap.String("request_id", requestID),
			zap.String("error_type", string(services.GetErrorType(err))),
			zap.Error(err))

		if services.IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Upstream and internal failures both surface as 500 with a
		// non-empty body; the upstream detail stays in the logs.
		h.writeError(w, http.StatusInternalServerError, "chat request failed")
		return
	}

	h.streamCompletion(w, requestID, result.Completion)
}

// streamCompletion writes the full completion as one flushed chunk. The
// status line and headers commit before the body, so a failed write here can
// only be logged, not converted into an error response.
func (h *ChatHandler) streamCompletion(w http.ResponseWriter, requestID, completion string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(completion)); err != nil {
		h.logger.Error("failed to write completion stream",
			zap.String("request_id", requestID),
			zap.Error(services.NewDomainError(services.ErrorTypeStream, "failed to write response stream", err)))
		return
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeError writes a plain-text error body with the given status
func (h *ChatHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		h.logger.Error("failed to write error response", zap.Error(err))
	}
}
