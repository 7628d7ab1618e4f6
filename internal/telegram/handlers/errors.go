package handlers

import (
	"context"
	"errors"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// HandlerError pairs an error with the message shown to the user
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

func classifyHandlerError(err error) *HandlerError {
	warn := func(user, log string) *HandlerError {
		return &HandlerError{Err: err, UserMessage: user, LogMessage: log, Severity: SeverityWarning}
	}
	fail := func(user, log string) *HandlerError {
		return &HandlerError{Err: err, UserMessage: user, LogMessage: log, Severity: SeverityError}
	}

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return warn(render.ErrSessionExpired, "session not found")
	case errors.Is(err, entity.ErrUnsupportedModel), errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrEmptyQuestion):
		return warn(render.ErrInvalidParameter, "invalid parameter")
	case errors.Is(err, entity.ErrInvalidExtension), errors.Is(err, entity.ErrInvalidFile):
		return warn(render.ErrUnsupportedFile, "unsupported file")
	case errors.Is(err, entity.ErrFileTooLarge):
		return warn(render.ErrFileTooLarge, "file too large")
	case errors.Is(err, entity.ErrEmptyDocument):
		return warn(render.ErrEmptyDocument, "empty document")
	case errors.Is(err, entity.ErrPromptTooLarge):
		return warn(render.ErrPromptTooLarge, "prompt too large")
	case errors.Is(err, entity.ErrConnection):
		return fail(render.ErrServiceDown, "external service unreachable")
	case errors.Is(err, entity.ErrServiceResponse), errors.Is(err, entity.ErrMalformedResponse),
		errors.Is(err, entity.ErrEmptyCompletion):
		return fail(render.ErrServiceFailed, "external service failed")
	default:
		return fail(render.ErrGeneric, "handler error")
	}
}

// HandleError logs err and sends the matching user-facing message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	fields := []zap.Field{zap.Error(handlerErr.Err), zap.Int64("chat_id", chatID)}
	var turnErr *entity.TurnError
	if errors.As(err, &turnErr) {
		fields = append(fields, zap.String("stage", string(turnErr.Stage)))
	}

	if handlerErr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	} else {
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
