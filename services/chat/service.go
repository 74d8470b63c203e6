package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/profpick/backend/models"
	"github.com/profpick/backend/services"
	"github.com/profpick/backend/services/prompt"
	"github.com/profpick/backend/services/providers"
	"github.com/profpick/backend/services/retrieval"
	"go.uber.org/zap"
)

// Service orchestrates the retrieval-augmented chat pipeline. The stages run
// strictly in sequence, since each stage's input depends on the previous
// stage's output, and any failure aborts the remaining stages.
type Service struct {
	embedder  providers.Embedder
	retriever retrieval.Retriever
	generator providers.Generator
	topK      int
	namespace string
	logger    *zap.Logger
}

// Options holds the retrieval parameters for the pipeline
type Options struct {
	// TopK is the maximum number of matches fetched per turn
	TopK int

	// Namespace is the vector index partition queried
	Namespace string
}

// TurnResult is the outcome of one processed chat turn
type TurnResult struct {
	// TurnID identifies this turn in logs
	TurnID uuid.UUID

	// Completion is the full generated answer text
	Completion string

	// Matches is the match set used to ground the answer
	Matches []retrieval.Match
}

// NewService creates a new chat pipeline service with injected collaborators
func NewService(embedder providers.Embedder, retriever retrieval.Retriever, generator providers.Generator, opts Options, logger *zap.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		topK:      opts.TopK,
		namespace: opts.Namespace,
		logger:    logger,
	}
}

// ProcessTurn runs one conversation turn through the pipeline: extract the
// latest user utterance, embed it, fetch the nearest professor reviews,
// assemble the prompt, and generate the answer. Retrieval always uses the
// embedding of the last message only; earlier turns ride along purely as
// conversation history.
func (s *Service) ProcessTurn(ctx context.Context, conversation []models.Message) (*TurnResult, error) {
	turnID := uuid.New()
	startTime := time.Now()

	s.logger.Debug("step 1: extracting latest utterance",
		zap.String("turn_id", turnID.String()),
		zap.Int("messages", len(conversation)))
	lastContent, err := latestMessageContent(conversation)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("step 2: embedding utterance", zap.String("turn_id", turnID.String()))
	vector, err := s.embedder.EmbedText(ctx, lastContent)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "embedding service unavailable", err)
	}

	s.logger.Debug("step 3: querying vector index",
		zap.String("turn_id", turnID.String()),
		zap.Int("top_k", s.topK),
		zap.String("namespace", s.namespace))
	matches, err := s.retriever.Query(ctx, vector, s.topK, s.namespace)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "vector index unavailable", err)
	}

	s.logger.Debug("step 4: assembling prompt",
		zap.String("turn_id", turnID.String()),
		zap.Int("matches", len(matches)))
	_, flatPrompt := prompt.Assemble(prompt.Instruction, conversation, lastContent, matches)

	s.logger.Debug("step 5: generating completion", zap.String("turn_id", turnID.String()))
	completion, err := s.generator.GenerateText(ctx, flatPrompt)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "generation service unavailable", err)
	}

	s.logger.Info("chat turn completed",
		zap.String("turn_id", turnID.String()),
		zap.Int("matches", len(matches)),
		zap.Int("completion_chars", len(completion)),
		zap.Int("latency_ms", int(time.Since(startTime).Milliseconds())))

	return &TurnResult{
		TurnID:     turnID,
		Completion: completion,
		Matches:    matches,
	}, nil
}

// latestMessageContent returns the content of the final message in the
// conversation. An empty conversation or a blank final message is invalid
// input, not an upstream failure.
func latestMessageContent(conversation []models.Message) (string, error) {
	if len(conversation) == 0 {
		return "", services.ErrEmptyConversation
	}
	last := conversation[len(conversation)-1]
	if last.Content == "" {
		return "", services.ErrEmptyMessage
	}
	return last.Content, nil
}
