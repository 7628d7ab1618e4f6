// Package telegram is the chat front-end: one conversation session per chat.
package telegram

import (
	"context"
	"fmt"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/telegram/bot"
	"github.com/futig/docchat/internal/telegram/handlers"
	"github.com/futig/docchat/internal/telegram/keyboard"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	maxFileSize int64,
	chatUC handlers.ChatUsecase,
	documentUC handlers.DocumentUsecase,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	api := b.API()
	b.RegisterHandler(handlers.NewCommandHandler(api, chatUC, documentUC, keyboard.NewBuilder(), logger))
	b.RegisterHandler(handlers.NewQuestionHandler(api, chatUC, logger))
	b.RegisterHandler(handlers.NewCallbackHandler(api, chatUC, logger))
	b.RegisterHandler(handlers.NewDocumentHandler(api, handlers.NewBotFileFetcher(api, maxFileSize), documentUC, maxFileSize, logger))

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
