package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/docchat/internal/api"
	chatapi "github.com/futig/docchat/internal/api/chat"
	documentapi "github.com/futig/docchat/internal/api/document"
	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/pkg/formatter"
	"github.com/futig/docchat/internal/telegram"
	"github.com/futig/docchat/internal/watcher"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	chatHandler := chatapi.NewHandler(c.chatUC, formatter.NewFactory())
	documentHandler := documentapi.NewHandler(c.documentUC, cfg.FileUploadCfg)

	// one request must fit a full turn
	turnTimeout := cfg.ChatCfg.ReformulateTimeout + cfg.ChatCfg.RetrieveTimeout + cfg.ChatCfg.GenerateTimeout
	requestTimeout := turnTimeout + 10*time.Second

	router := api.SetupRouter(chatHandler, documentHandler, api.RouterConfig{
		RequestTimeout: requestTimeout,
		SwaggerFile:    cfg.SwaggerFile,
	}, logger)
	logger.Info("HTTP router configured", zap.Duration("request_timeout", requestTimeout))

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var inbox *watcher.Watcher
	if cfg.IngestCfg.WatchDir != "" {
		inbox = watcher.New(cfg.IngestCfg.WatchDir, c.documentUC, cfg.IngestCfg.WatchDebounce, logger)
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:  server,
		core:    c,
		watcher: inbox,
		logger:  logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The returned
// cleanup releases the database and index.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, cfg.FileUploadCfg.MaxFileSize, c.chatUC, c.documentUC, logger)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, c.close, nil
}
