package handlers

import (
	"context"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/telegram/keyboard"
	"github.com/futig/docchat/internal/telegram/render"
	"go.uber.org/zap"
)

// CallbackHandler handles inline keyboard presses
type CallbackHandler struct {
	BaseHandler
	chatUC ChatUsecase
}

func NewCallbackHandler(bot Sender, chatUC ChatUsecase, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          KindCallback,
			messageSender: NewMessageSender(bot, logger),
		},
		chatUC: chatUC,
	}
}

func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.messageSender.AnswerCallback(msg.CallbackID, render.ErrInvalidParameter)
		return err
	}

	ctx = logger.AddFields(ctx,
		zap.String("callback_action", data.Action),
		zap.String("session_id", SessionID(msg.ChatID)),
	)

	if _, err := ensureSession(ctx, h.chatUC, msg.ChatID); err != nil {
		h.messageSender.AnswerCallback(msg.CallbackID, "")
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	var set func(ctx context.Context, sessionID, value string) (*entity.SessionSettings, error)
	switch data.Action {
	case keyboard.ActionModel:
		set = h.chatUC.SetModel
	default:
		set = h.chatUC.SetCategoryFilter
	}

	settings, err := set(ctx, SessionID(msg.ChatID), data.Value)
	if err != nil {
		h.messageSender.AnswerCallback(msg.CallbackID, "")
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	h.messageSender.AnswerCallback(msg.CallbackID, "✅ "+data.Value)
	h.sendMessage(msg.ChatID, render.Settings(settings), nil)
	return nil
}
