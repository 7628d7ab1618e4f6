package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler ingests files attached to a message. The caption, if any,
// is the category.
type DocumentHandler struct {
	BaseHandler
	fetcher     FileFetcher
	documentUC  DocumentUsecase
	maxFileSize int64
}

func NewDocumentHandler(
	bot Sender,
	fetcher FileFetcher,
	documentUC DocumentUsecase,
	maxFileSize int64,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          KindDocument,
			messageSender: NewMessageSender(bot, logger),
		},
		fetcher:     fetcher,
		documentUC:  documentUC,
		maxFileSize: maxFileSize,
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	if msg.Document == nil {
		return nil
	}

	ctx = logger.AddFields(ctx,
		zap.String("filename", msg.Document.FileName),
		zap.Int("size_bytes", msg.Document.FileSize),
	)

	if h.maxFileSize > 0 && int64(msg.Document.FileSize) > h.maxFileSize {
		h.HandleError(ctx, msg.ChatID, fmt.Errorf("%w: %d bytes", entity.ErrFileTooLarge, msg.Document.FileSize))
		return nil
	}

	h.sendMessage(msg.ChatID, render.MsgIngesting, nil)

	content, err := h.fetcher.Fetch(ctx, msg.Document.FileID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, fmt.Errorf("download document: %w", err))
		return nil
	}

	result, err := h.documentUC.Ingest(ctx, &entity.IngestRequest{
		Filename: msg.Document.FileName,
		Category: strings.TrimSpace(msg.Text),
		Content:  content,
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Info(ctx, "document ingested from chat", zap.Int("chunk_count", result.ChunkCount))
	h.sendMessage(msg.ChatID, render.Ingested(result), nil)
	return nil
}
