package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/profpick/backend/models"
	"github.com/profpick/backend/repositories"
	"github.com/profpick/backend/services"
	"go.uber.org/zap"
)

// ConversationRepository implements repositories.ConversationRepository on
// PostgreSQL, storing each user's message list as a JSONB document.
type ConversationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB, logger *zap.Logger) repositories.ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a user's conversation
func (r *ConversationRepository) Get(ctx context.Context, userID string) (*models.Conversation, error) {
	query := `
		SELECT user_id, messages, updated_at
		FROM conversations
		WHERE user_id = $1
	`

	conversation := &models.Conversation{}
	var rawMessages []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&conversation.UserID,
		&rawMessages,
		&conversation.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, services.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if err := json.Unmarshal(rawMessages, &conversation.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	return conversation, nil
}

// Save stores a user's conversation, replacing any existing one
func (r *ConversationRepository) Save(ctx context.Context, conversation *models.Conversation) error {
	rawMessages, err := json.Marshal(conversation.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `
		INSERT INTO conversations (user_id, messages, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		conversation.UserID,
		rawMessages,
		conversation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	r.logger.Debug("conversation saved",
		zap.String("user_id", conversation.UserID),
		zap.Int("messages", len(conversation.Messages)))
	return nil
}
