package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/docchat/internal/conversation"
	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Options tunes the per-turn pipeline
type Options struct {
	Window        int // prior turns fed to reformulation and the prompt
	ResultLimit   int
	AnswerReserve int // tokens kept free for the answer
}

func (o Options) withDefaults() Options {
	if o.Window < 1 {
		o.Window = conversation.DefaultWindow
	}
	if o.ResultLimit < 1 {
		o.ResultLimit = DefaultResultLimit
	}
	return o
}

// Orchestrator runs one question through reformulation, retrieval, prompt
// assembly and generation, and records the exchange in the session.
type Orchestrator struct {
	reformulator *Reformulator
	retriever    *Retriever
	assembler    *Assembler
	generator    *Generator
	catalog      entity.ModelCatalog
	opts         Options
}

func NewOrchestrator(
	reformulator *Reformulator,
	retriever *Retriever,
	assembler *Assembler,
	generator *Generator,
	catalog entity.ModelCatalog,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		reformulator: reformulator,
		retriever:    retriever,
		assembler:    assembler,
		generator:    generator,
		catalog:      catalog,
		opts:         opts.withDefaults(),
	}
}

// Submit answers question within sess. The question is stored before any
// external call. A failed turn returns *entity.TurnError and leaves no
// assistant turn behind.
func (o *Orchestrator) Submit(ctx context.Context, sess *Session, question string) (*entity.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, entity.ErrEmptyQuestion
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	started := time.Now()
	settings := sess.settings

	sess.state.Ask(question)

	fail := func(stage entity.TurnState, err error) (*entity.Answer, error) {
		sess.state.Abandon()
		ctxzap.Error(ctx, "turn failed",
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return nil, &entity.TurnError{Stage: stage, Err: err}
	}

	model, ok := o.catalog.Lookup(settings.Model)
	if !ok {
		return fail(entity.TurnAwaitingQuestion, fmt.Errorf("%w: %s", entity.ErrUnsupportedModel, settings.Model))
	}

	var history []entity.ChatTurn
	if settings.HistoryEnabled {
		history = sess.state.Window(o.opts.Window)
	}

	query, reformulated := question, false
	if settings.HistoryEnabled {
		o.transition(ctx, entity.TurnReformulating)
		query, reformulated = o.reformulator.Reformulate(ctx, model.ID, history, question)
	}

	o.transition(ctx, entity.TurnRetrieving)
	retrieved, err := o.retriever.Retrieve(ctx, entity.SearchQuery{
		Text:     query,
		Category: settings.Category,
		Limit:    o.opts.ResultLimit,
	})
	if err != nil {
		return fail(entity.TurnRetrieving, err)
	}

	o.transition(ctx, entity.TurnAssembling)
	prompt, err := o.assembler.Assemble(history, retrieved, question, model.ContextWindow-o.opts.AnswerReserve)
	if err != nil {
		return fail(entity.TurnAssembling, err)
	}
	if prompt.HistoryDropped > 0 {
		ctxzap.Warn(ctx, "history truncated to fit model input",
			zap.Int("history_dropped", prompt.HistoryDropped),
			zap.Int("prompt_tokens", prompt.Tokens),
		)
	}

	o.transition(ctx, entity.TurnGenerating)
	text, err := o.generator.Generate(ctx, model.ID, prompt.Text)
	if err != nil {
		return fail(entity.TurnGenerating, err)
	}

	sess.state.Answer(text)
	o.transition(ctx, entity.TurnCompleted)

	ctxzap.Info(ctx, "turn completed",
		zap.String("model", string(model.ID)),
		zap.Bool("reformulated", reformulated),
		zap.Int("result_count", len(prompt.Chunks)),
		zap.Int("citation_count", len(prompt.Citations)),
		zap.Int("prompt_tokens", prompt.Tokens),
		zap.Duration("elapsed", time.Since(started)),
	)

	answer := &entity.Answer{
		Text:      text,
		Citations: prompt.Citations,
	}
	if settings.Debug {
		answer.Debug = &entity.TurnDebug{
			SearchQuery:   query,
			Reformulated:  reformulated,
			Chunks:        prompt.Chunks,
			HistoryUsed:   prompt.HistoryUsed,
			HistoryDrops:  prompt.HistoryDropped,
			PromptTokens:  prompt.Tokens,
			ElapsedMillis: time.Since(started).Milliseconds(),
		}
	}

	return answer, nil
}

func (o *Orchestrator) transition(ctx context.Context, state entity.TurnState) {
	ctxzap.Debug(ctx, "turn state changed", zap.String("state", string(state)))
}
