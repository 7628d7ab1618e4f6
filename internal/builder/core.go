package builder

import (
	"context"
	"fmt"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/index"
	"github.com/futig/docchat/internal/integration/llm"
	"github.com/futig/docchat/internal/integration/search"
	"github.com/futig/docchat/internal/integration/storage"
	"github.com/futig/docchat/internal/pkg/chunker"
	"github.com/futig/docchat/internal/pkg/extract"
	"github.com/futig/docchat/internal/pkg/validator"
	"github.com/futig/docchat/internal/repository"
	"github.com/futig/docchat/internal/session"
	"github.com/futig/docchat/internal/usecase/chat"
	"github.com/futig/docchat/internal/usecase/document"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds the use cases shared by the HTTP server and the bot
type core struct {
	chatUC     *chat.ChatUsecase
	documentUC *document.DocumentUsecase
	db         *pgxpool.Pool
	index      *index.ChunkIndex
}

func (c *core) close() {
	if c.index != nil {
		c.index.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

func buildCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core, error) {
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	c := &core{db: db}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(repository.DefaultMigrationsSource, cfg.DatabaseURL); err != nil {
		c.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	documentRepo := repository.NewDocumentPostgres(db)
	chunkRepo := repository.NewChunkPostgres(db)

	var (
		searchBackend chat.SearchBackend
		completion    chat.CompletionService
		objectStore   document.StorageConnector
		localIndex    document.ChunkIndex
	)

	if cfg.SearchCfg.Backend == config.SearchBackendLocal {
		idx, err := index.Open(cfg.SearchCfg.IndexPath)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("open chunk index: %w", err)
		}
		c.index = idx
		searchBackend = idx
		localIndex = idx
		logger.Info("Using local chunk index", zap.String("path", cfg.SearchCfg.IndexPath))
	}

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		if searchBackend == nil {
			searchBackend = search.NewMockConnector(logger)
		}
		completion = llm.NewMockConnector(logger)
		objectStore = storage.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		if searchBackend == nil {
			searchBackend = search.NewConnector(cfg.SearchCfg, logger)
		}
		completion = llm.NewConnector(cfg.LLMCfg, logger)
		objectStore = storage.NewConnector(cfg.StorageCfg, logger)
	}

	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	documentUC := document.NewUsecase(
		documentRepo,
		chunkRepo,
		objectStore,
		localIndex,
		extract.NewExtractor(),
		fileValidator,
		chunker.Options{ChunkSize: cfg.IngestCfg.ChunkSize, ChunkOverlap: cfg.IngestCfg.ChunkOverlap},
	)

	if c.index != nil {
		n, err := documentUC.RebuildIndex(ctx)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("rebuild chunk index: %w", err)
		}
		if n > 0 {
			logger.Info("Chunk index rebuilt from database", zap.Int("chunk_count", n))
		}
	}

	orchestrator := chat.NewOrchestrator(
		chat.NewReformulator(completion, cfg.ChatCfg.ReformulateTimeout),
		chat.NewRetriever(searchBackend, cfg.ChatCfg.RetrieveTimeout),
		chat.NewAssembler(),
		chat.NewGenerator(completion, cfg.ChatCfg.GenerateTimeout),
		cfg.Models,
		chat.Options{
			Window:        cfg.ChatCfg.WindowSize,
			ResultLimit:   cfg.ChatCfg.ResultLimit,
			AnswerReserve: cfg.ChatCfg.AnswerReserveTokens,
		},
	)

	defaults := entity.DefaultSessionSettings()
	defaults.Model = entity.ModelID(cfg.LLMCfg.DefaultModel)

	c.chatUC = chat.NewUsecase(
		session.NewRegistry(cfg.SessionCfg.IdleTTL, cfg.SessionCfg.CleanupInterval, logger),
		orchestrator,
		documentUC,
		cfg.Models,
		defaults,
	)
	c.documentUC = documentUC

	logger.Info("Use cases initialized",
		zap.String("search_backend", cfg.SearchCfg.Backend),
		zap.Int("models", len(cfg.Models)),
	)

	return c, nil
}
