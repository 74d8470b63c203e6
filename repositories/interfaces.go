package repositories

import (
	"context"

	"github.com/profpick/backend/models"
)

// ConversationRepository handles per-user conversation persistence. Each user
// owns exactly one conversation document, keyed by the identity provider's
// subject.
type ConversationRepository interface {
	// Get retrieves a user's conversation. Returns
	// services.ErrConversationNotFound when the user has none yet.
	Get(ctx context.Context, userID string) (*models.Conversation, error)

	// Save stores a user's conversation, replacing any existing one
	// (last writer wins).
	Save(ctx context.Context, conversation *models.Conversation) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Conversations ConversationRepository
}
