package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Generator produces the answer text for an assembled prompt
type Generator struct {
	llm     CompletionService
	timeout time.Duration
}

func NewGenerator(llm CompletionService, timeout time.Duration) *Generator {
	return &Generator{
		llm:     llm,
		timeout: timeout,
	}
}

// Generate makes a single completion call. Quotes are stripped from the answer.
func (g *Generator) Generate(ctx context.Context, model entity.ModelID, prompt string) (string, error) {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.Complete(callCtx, model, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, entity.ErrConnection) {
			err = fmt.Errorf("%w: completion timed out after %s: %v", entity.ErrConnection, g.timeout, err)
		}
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer := stripQuotes(raw)
	if answer == "" {
		return "", fmt.Errorf("generate answer: %w", entity.ErrEmptyCompletion)
	}

	ctxzap.Debug(ctx, "answer generated", zap.Int("answer_length", len(answer)))
	return answer, nil
}
