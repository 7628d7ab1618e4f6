package handlers

import (
	"context"

	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler answers plain text messages
type QuestionHandler struct {
	BaseHandler
	bot    Sender
	chatUC ChatUsecase
	logger *zap.Logger
}

func NewQuestionHandler(bot Sender, chatUC ChatUsecase, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: BaseHandler{
			kind:          KindQuestion,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:    bot,
		chatUC: chatUC,
		logger: logger,
	}
}

func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	info, err := ensureSession(ctx, h.chatUC, msg.ChatID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}
	ctx = logger.WithSession(ctx, info.ID)

	typing := NewTypingNotifier(h.bot, msg.ChatID, h.logger)
	typing.Start(ctx)
	resp, err := h.chatUC.SubmitQuestion(ctx, info.ID, msg.Text)
	typing.Stop()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Debug(ctx, "answer sent", zap.Int("citation_count", len(resp.Citations)))
	h.sendMessage(msg.ChatID, render.Answer(resp), nil)
	return nil
}
