package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TypingNotifier sends periodic "typing" actions while a turn is running
type TypingNotifier struct {
	bot     Sender
	chatID  int64
	ticker  *time.Ticker
	done    chan struct{}
	logger  *zap.Logger
	started bool
}

func NewTypingNotifier(bot Sender, chatID int64, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins sending typing indicators every 4 seconds.
// Telegram expires the action after 5 seconds.
func (t *TypingNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}

	t.started = true
	t.ticker = time.NewTicker(4 * time.Second)

	t.send()

	go func() {
		for {
			select {
			case <-t.ticker.C:
				t.send()
			case <-t.done:
				t.ticker.Stop()
				return
			case <-ctx.Done():
				t.ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops sending typing indicators
func (t *TypingNotifier) Stop() {
	if !t.started {
		return
	}

	close(t.done)
	t.started = false
}

func (t *TypingNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
