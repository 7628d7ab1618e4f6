package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const reformulationInstruction = "Based on the chat history below and the question, generate a query that extend the question with the chat history provided. " +
	"The query should be in natural language. Answer with only the query. Do not add any explanation."

// Reformulator folds prior turns into a standalone search query
type Reformulator struct {
	llm     CompletionService
	timeout time.Duration
}

func NewReformulator(llm CompletionService, timeout time.Duration) *Reformulator {
	return &Reformulator{
		llm:     llm,
		timeout: timeout,
	}
}

// Reformulate returns the query used for retrieval and whether it differs from
// the question. An empty history yields the question verbatim without an LLM
// call. A failed or empty completion degrades to the question as well.
func (r *Reformulator) Reformulate(ctx context.Context, model entity.ModelID, history []entity.ChatTurn, question string) (string, bool) {
	if len(history) == 0 {
		return question, false
	}

	prompt, err := buildReformulationPrompt(history, question)
	if err != nil {
		ctxzap.Warn(ctx, "reformulation degraded, using original question", zap.Error(err))
		return question, false
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.llm.Complete(callCtx, model, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: reformulation timed out after %s", entity.ErrConnection, r.timeout)
		}
		ctxzap.Warn(ctx, "reformulation degraded, using original question", zap.Error(err))
		return question, false
	}

	query := stripQuotes(raw)
	if query == "" {
		ctxzap.Warn(ctx, "reformulation degraded, using original question",
			zap.Error(entity.ErrEmptyCompletion),
		)
		return question, false
	}

	ctxzap.Debug(ctx, "question reformulated", zap.String("search_query", query))
	return query, true
}

func buildReformulationPrompt(history []entity.ChatTurn, question string) (string, error) {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("serialize chat history: %w", err)
	}

	var b strings.Builder
	b.WriteString(reformulationInstruction)
	b.WriteString("\n\n<chat_history>\n")
	b.Write(historyJSON)
	b.WriteString("\n</chat_history>\n<question>\n")
	b.WriteString(question)
	b.WriteString("\n</question>\n")
	return b.String(), nil
}
