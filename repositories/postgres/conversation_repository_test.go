package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/profpick/backend/models"
	"github.com/profpick/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (*ConversationRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := &DB{DB: mockDB, logger: zap.NewNop()}
	repo := NewConversationRepository(db, zap.NewNop()).(*ConversationRepository)
	return repo, mock
}

func TestConversationRepositoryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored conversation", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		messages := []models.Message{
			{Role: models.RoleAssistant, Content: models.Greeting},
			{Role: models.RoleUser, Content: "Best CS professor?"},
		}
		rawMessages, err := json.Marshal(messages)
		require.NoError(t, err)

		updatedAt := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"user_id", "messages", "updated_at"}).
			AddRow("user-123", rawMessages, updatedAt)

		mock.ExpectQuery("SELECT user_id, messages, updated_at").
			WithArgs("user-123").
			WillReturnRows(rows)

		conversation, err := repo.Get(ctx, "user-123")

		require.NoError(t, err)
		assert.Equal(t, "user-123", conversation.UserID)
		assert.Equal(t, messages, conversation.Messages)
		assert.Equal(t, updatedAt, conversation.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to conversation not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT user_id, messages, updated_at").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "messages", "updated_at"}))

		conversation, err := repo.Get(ctx, "unknown")

		require.Error(t, err)
		assert.Nil(t, conversation)
		assert.True(t, errors.Is(err, services.ErrConversationNotFound))
	})

	t.Run("query failure is wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT user_id, messages, updated_at").
			WithArgs("user-123").
			WillReturnError(errors.New("connection reset"))

		conversation, err := repo.Get(ctx, "user-123")

		require.Error(t, err)
		assert.Nil(t, conversation)
		assert.Contains(t, err.Error(), "failed to get conversation")
	})
}

func TestConversationRepositorySave(t *testing.T) {
	ctx := context.Background()

	conversation := &models.Conversation{
		UserID: "user-123",
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "hi"},
		},
		UpdatedAt: time.Now().UTC(),
	}

	t.Run("upserts the transcript", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rawMessages, err := json.Marshal(conversation.Messages)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO conversations").
			WithArgs(conversation.UserID, rawMessages, conversation.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(ctx, conversation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec failure is wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("INSERT INTO conversations").
			WillReturnError(errors.New("deadlock detected"))

		err := repo.Save(ctx, conversation)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save conversation")
	})
}
