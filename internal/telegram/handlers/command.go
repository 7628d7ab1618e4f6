package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/formatter"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/telegram/keyboard"
	"github.com/futig/docchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CommandHandler handles slash commands
type CommandHandler struct {
	BaseHandler
	chatUC     ChatUsecase
	documentUC DocumentUsecase
	keyboard   *keyboard.Builder
	transcript formatter.Formatter
}

func NewCommandHandler(
	bot Sender,
	chatUC ChatUsecase,
	documentUC DocumentUsecase,
	keyboard *keyboard.Builder,
	logger *zap.Logger,
) *CommandHandler {
	return &CommandHandler{
		BaseHandler: BaseHandler{
			kind:          KindCommand,
			messageSender: NewMessageSender(bot, logger),
		},
		chatUC:     chatUC,
		documentUC: documentUC,
		keyboard:   keyboard,
		transcript: formatter.NewMarkdownFormatter(),
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctx = logger.AddFields(ctx,
		zap.String("command", msg.Command),
		zap.String("session_id", SessionID(msg.ChatID)),
	)
	ctxzap.Info(ctx, "command received")

	var err error
	switch msg.Command {
	case "start":
		err = h.start(ctx, msg)
	case "help":
		h.sendMessage(msg.ChatID, render.MsgHelp, nil)
	case "reset":
		err = h.reset(ctx, msg)
	case "models":
		err = h.models(ctx, msg)
	case "model":
		err = h.setModel(ctx, msg)
	case "categories":
		err = h.categories(ctx, msg)
	case "category":
		err = h.setCategory(ctx, msg)
	case "history":
		err = h.toggle(ctx, msg, render.MsgUsageHistory, h.chatUC.SetHistoryEnabled)
	case "debug":
		err = h.toggle(ctx, msg, render.MsgUsageDebug, h.chatUC.SetDebug)
	case "settings":
		err = h.settings(ctx, msg)
	case "docs":
		err = h.documents(ctx, msg)
	case "transcript":
		err = h.exportTranscript(ctx, msg)
	default:
		h.sendMessage(msg.ChatID, render.MsgUnknownCommand, nil)
	}

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
	}
	return nil
}

// start replaces the chat session with an empty one
func (h *CommandHandler) start(ctx context.Context, msg *Message) error {
	if _, err := h.chatUC.CreateSessionWithID(ctx, SessionID(msg.ChatID)); err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.MsgWelcome, nil)
	return nil
}

func (h *CommandHandler) reset(ctx context.Context, msg *Message) error {
	if _, err := ensureSession(ctx, h.chatUC, msg.ChatID); err != nil {
		return err
	}
	if err := h.chatUC.ResetConversation(ctx, SessionID(msg.ChatID)); err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.MsgConversationReset, nil)
	return nil
}

func (h *CommandHandler) models(ctx context.Context, msg *Message) error {
	info, err := ensureSession(ctx, h.chatUC, msg.ChatID)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.MsgSelectModel, h.keyboard.ModelKeyboard(h.chatUC.Models(), info.Settings.Model))
	return nil
}

func (h *CommandHandler) setModel(ctx context.Context, msg *Message) error {
	if msg.CommandArgs == "" {
		h.sendMessage(msg.ChatID, render.MsgUsageModel, nil)
		return nil
	}
	if _, err := ensureSession(ctx, h.chatUC, msg.ChatID); err != nil {
		return err
	}

	settings, err := h.chatUC.SetModel(ctx, SessionID(msg.ChatID), msg.CommandArgs)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.Settings(settings), nil)
	return nil
}

func (h *CommandHandler) categories(ctx context.Context, msg *Message) error {
	info, err := ensureSession(ctx, h.chatUC, msg.ChatID)
	if err != nil {
		return err
	}

	categories, err := h.documentUC.ListCategories(ctx)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.MsgSelectCategory, h.keyboard.CategoryKeyboard(categories, info.Settings.Category))
	return nil
}

func (h *CommandHandler) setCategory(ctx context.Context, msg *Message) error {
	if msg.CommandArgs == "" {
		h.sendMessage(msg.ChatID, render.MsgUsageCategory, nil)
		return nil
	}
	if _, err := ensureSession(ctx, h.chatUC, msg.ChatID); err != nil {
		return err
	}

	settings, err := h.chatUC.SetCategoryFilter(ctx, SessionID(msg.ChatID), msg.CommandArgs)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.Settings(settings), nil)
	return nil
}

type toggleFunc func(ctx context.Context, sessionID string, enabled bool) (*entity.SessionSettings, error)

func (h *CommandHandler) toggle(ctx context.Context, msg *Message, usage string, set toggleFunc) error {
	var enabled bool
	switch strings.ToLower(msg.CommandArgs) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		h.sendMessage(msg.ChatID, usage, nil)
		return nil
	}

	if _, err := ensureSession(ctx, h.chatUC, msg.ChatID); err != nil {
		return err
	}
	settings, err := set(ctx, SessionID(msg.ChatID), enabled)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.Settings(settings), nil)
	return nil
}

func (h *CommandHandler) settings(ctx context.Context, msg *Message) error {
	info, err := ensureSession(ctx, h.chatUC, msg.ChatID)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.Settings(&info.Settings), nil)
	return nil
}

func (h *CommandHandler) documents(ctx context.Context, msg *Message) error {
	docs, err := h.documentUC.ListDocuments(ctx)
	if err != nil {
		return err
	}
	h.sendMessage(msg.ChatID, render.Documents(docs), nil)
	return nil
}

func (h *CommandHandler) exportTranscript(ctx context.Context, msg *Message) error {
	sessionID := SessionID(msg.ChatID)

	turns, err := h.chatUC.GetTranscript(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		h.sendMessage(msg.ChatID, render.MsgEmptyTranscript, nil)
		return nil
	}

	data, err := h.transcript.Format(formatter.Transcript{SessionID: sessionID, Turns: turns})
	if err != nil {
		return fmt.Errorf("format transcript: %w", err)
	}
	return h.messageSender.SendDocument(msg.ChatID, "transcript-"+sessionID+h.transcript.FileExtension(), data)
}
