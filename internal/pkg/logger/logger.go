package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	logger := ctxzap.Extract(ctx)
	return ctxzap.ToContext(ctx, logger.With(fields...))
}

// WithAction adds "action" field to context logger to describe the flow
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithSession tags every log line of ctx with the chat session
func WithSession(ctx context.Context, sessionID string) context.Context {
	return AddFields(ctx, zap.String("session_id", sessionID))
}

// WithLogger seeds ctx with base unless a logger is already attached
func WithLogger(ctx context.Context, base *zap.Logger) context.Context {
	if ctxzap.Extract(ctx) != ctxzap.Extract(context.Background()) {
		return ctx
	}
	return ctxzap.ToContext(ctx, base)
}
