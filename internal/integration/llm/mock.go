package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a completion service. Reformulation prompts
// get the bare question back, answer prompts get a canned reply.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, model entity.ModelID, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completing prompt", zap.String("model", string(model)))

	question := between(prompt, "<question>", "</question>")
	if !strings.Contains(prompt, "<context>") {
		return question, nil
	}

	return fmt.Sprintf("[MOCK %s] I can only answer from the indexed documents. You asked: %s", model, question), nil
}

func between(s, open, close string) string {
	start := strings.LastIndex(s, open)
	if start < 0 {
		return ""
	}
	rest := s[start+len(open):]
	if end := strings.Index(rest, close); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
