package app

import (
	"context"
	"fmt"

	"github.com/profpick/backend/config"
	"github.com/profpick/backend/handlers"
	"github.com/profpick/backend/identity"
	"github.com/profpick/backend/middleware"
	"github.com/profpick/backend/repositories"
	"github.com/profpick/backend/repositories/postgres"
	"github.com/profpick/backend/services/chat"
	"github.com/profpick/backend/services/providers/gemini"
	"github.com/profpick/backend/services/retrieval/pinecone"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies following the GrantPulse
// pattern. This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Conversations repositories.ConversationRepository

	// Services
	ChatService *chat.Service

	// Handlers
	ChatHandler         *handlers.ChatHandler
	ConversationHandler *handlers.ConversationHandler
	HealthHandler       *handlers.HealthHandler

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices(cfg)
	deps.initAuth(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Conversations = postgres.NewConversationRepository(d.DB, d.Logger)
	d.Logger.Info("repositories initialized")
}

// initServices wires the embedding, retrieval and generation collaborators
// into the chat pipeline
func (d *Dependencies) initServices(cfg *config.Config) {
	geminiAdapter := gemini.NewAdapter(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		EmbeddingModel:  cfg.Gemini.EmbeddingModel,
		GenerationModel: cfg.Gemini.GenerationModel,
		Timeout:         cfg.Gemini.Timeout,
	})

	pineconeClient := pinecone.NewClient(pinecone.Config{
		APIKey:    cfg.Pinecone.APIKey,
		IndexHost: cfg.Pinecone.IndexHost,
		Timeout:   cfg.Pinecone.Timeout,
	})

	d.ChatService = chat.NewService(
		geminiAdapter,
		pineconeClient,
		geminiAdapter,
		chat.Options{
			TopK:      cfg.Pinecone.TopK,
			Namespace: cfg.Pinecone.Namespace,
		},
		d.Logger,
	)

	d.Logger.Info("chat pipeline initialized",
		zap.String("embedding_model", cfg.Gemini.EmbeddingModel),
		zap.String("generation_model", cfg.Gemini.GenerationModel),
		zap.Int("top_k", cfg.Pinecone.TopK),
		zap.String("namespace", cfg.Pinecone.Namespace))
}

// initAuth initializes ID-token verification
func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Identity.ProjectID == "" {
		d.Logger.Warn("identity provider not configured, protected routes will return 401")
		// Use reject-all validator so protected routes return 401
		d.AuthMiddleware = middleware.NewAuthMiddleware(&rejectAllValidator{}, d.Logger)
		return
	}

	idValidator := identity.NewValidator(identity.Config{
		ProjectID:   cfg.Identity.ProjectID,
		JWKSURL:     cfg.Identity.JWKSURL,
		CacheTTL:    cfg.Identity.CacheTTL,
		HTTPTimeout: cfg.Identity.HTTPTimeout,
	})

	// Adapter converts identity.ParsedClaims to middleware.Claims
	d.AuthMiddleware = middleware.NewAuthMiddleware(&identityTokenValidatorAdapter{validator: idValidator}, d.Logger)
	d.Logger.Info("identity token verification initialized",
		zap.String("project_id", cfg.Identity.ProjectID))
}

// initHandlers initializes all HTTP handlers
func (d *Dependencies) initHandlers() {
	d.ChatHandler = handlers.NewChatHandler(d.ChatService, d.Logger)
	d.ConversationHandler = handlers.NewConversationHandler(d.Conversations, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// identityTokenValidatorAdapter adapts identity.Validator to middleware.TokenValidator
type identityTokenValidatorAdapter struct {
	validator *identity.Validator
}

func (a *identityTokenValidatorAdapter) ValidateToken(ctx context.Context, token string) (*middleware.Claims, error) {
	parsed, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		Sub:           parsed.Sub,
		Email:         parsed.Email,
		EmailVerified: parsed.EmailVerified,
		Name:          parsed.Name,
	}, nil
}

// rejectAllValidator rejects all tokens (used when the identity provider is
// not configured)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (*middleware.Claims, error) {
	return nil, fmt.Errorf("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
