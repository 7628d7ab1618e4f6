package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/telegram/handlers"
	"github.com/futig/docchat/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handlers    map[handlers.Kind]handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New authorizes the bot token and builds the middleware chain
func New(cfg *config.TelegramConfig, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:         api,
		cfg:         cfg,
		handlers:    make(map[handlers.Kind]handlers.Handler),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		stopChan:    make(chan struct{}),
	}, nil
}

// Start begins long polling; updates are handled until ctx is done or Stop is called
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates up to the shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(b.cfg.ShutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", b.cfg.ShutdownTimeout),
		)
		return errors.New("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, kind, ok := normalize(update)
	if !ok {
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update", zap.String("kind", string(kind)))
		return
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
	}
}

// normalize turns an update into a handler message and picks its handler kind
func normalize(update tgbotapi.Update) (*handlers.Message, handlers.Kind, bool) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil || q.From == nil {
			return nil, "", false
		}
		return &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}, handlers.KindCallback, true
	}

	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return nil, "", false
	}

	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}

	switch {
	case m.IsCommand():
		msg.Command = m.Command()
		msg.CommandArgs = strings.TrimSpace(m.CommandArguments())
		return msg, handlers.KindCommand, true
	case m.Document != nil:
		msg.Document = m.Document
		msg.Text = m.Caption
		return msg, handlers.KindDocument, true
	case strings.TrimSpace(m.Text) != "":
		return msg, handlers.KindQuestion, true
	default:
		return nil, "", false
	}
}

// RegisterHandler registers a handler for its update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	b.handlers[handler.Kind()] = handler
	b.logger.Debug("handler registered", zap.String("kind", string(handler.Kind())))
}

// API returns the bot API instance
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}
