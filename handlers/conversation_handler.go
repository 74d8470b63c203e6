package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/profpick/backend/middleware"
	"github.com/profpick/backend/models"
	"github.com/profpick/backend/repositories"
	"github.com/profpick/backend/services"
	"github.com/profpick/backend/utils"
	"go.uber.org/zap"
)

// ConversationHandler handles conversation persistence HTTP requests
type ConversationHandler struct {
	repo   repositories.ConversationRepository
	logger *zap.Logger
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(repo repositories.ConversationRepository, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleGet handles GET /api/v1/conversation.
// A user with no stored conversation gets a fresh one seeded with the
// greeting, persisted before it is returned.
func (h *ConversationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	conversation, err := h.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			conversation, err = h.seedConversation(ctx, userID)
			if err != nil {
				HandleServiceError(w, err, h.logger)
				return
			}
		} else {
			HandleServiceError(w, err, h.logger)
			return
		}
	}

	_ = utils.WriteOK(w, conversation)
}

// HandlePut handles PUT /api/v1/conversation.
// The body is a bare JSON array of messages that replaces the stored
// transcript wholesale.
func (h *ConversationHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var messages []models.Message
	if err := json.NewDecoder(r.Body).Decode(&messages); err != nil {
		h.logger.Warn("failed to parse conversation body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body: expected a JSON array of messages", nil)
		return
	}

	for _, msg := range messages {
		if err := utils.ValidateStruct(msg); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
			return
		}
	}

	conversation := &models.Conversation{
		UserID:    userID,
		Messages:  messages,
		UpdatedAt: time.Now().UTC(),
	}

	if err := h.repo.Save(ctx, conversation); err != nil {
		HandleServiceError(w, services.NewDomainError(services.ErrorTypeInternal, "failed to save conversation", err), h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// seedConversation creates and persists the greeting-only transcript
func (h *ConversationHandler) seedConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	conversation := models.NewConversation(userID)
	if err := h.repo.Save(ctx, conversation); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to seed conversation", err)
	}
	h.logger.Debug("seeded new conversation", zap.String("user_id", userID))
	return conversation, nil
}

// toDetails converts field errors into a generic details map
func toDetails(fields map[string]string) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return details
}
