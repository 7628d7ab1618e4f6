package handlers

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Kind routes an update to its handler
type Kind string

const (
	KindCommand  Kind = "COMMAND"
	KindQuestion Kind = "QUESTION"
	KindDocument Kind = "DOCUMENT"
	KindCallback Kind = "CALLBACK"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	CommandArgs  string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler processes one kind of update
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
	Kind() Kind
}

// Sender is the part of the bot API handlers talk to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SessionID maps a chat to its conversation session
func SessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          Kind
	messageSender *MessageSender
}

// Kind implements Handler
func (h *BaseHandler) Kind() Kind {
	return h.kind
}

func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}
