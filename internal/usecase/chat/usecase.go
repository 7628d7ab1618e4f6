package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase is the surface the API and the bot talk to
type ChatUsecase struct {
	sessions     SessionStore
	orchestrator *Orchestrator
	citations    CitationResolver
	catalog      entity.ModelCatalog
	defaults     entity.SessionSettings
}

func NewUsecase(
	sessions SessionStore,
	orchestrator *Orchestrator,
	citations CitationResolver,
	catalog entity.ModelCatalog,
	defaults entity.SessionSettings,
) *ChatUsecase {
	return &ChatUsecase{
		sessions:     sessions,
		orchestrator: orchestrator,
		citations:    citations,
		catalog:      catalog,
		defaults:     defaults,
	}
}

// CreateSession starts an empty conversation with default settings
func (uc *ChatUsecase) CreateSession(ctx context.Context) (*entity.SessionInfo, error) {
	return uc.CreateSessionWithID(ctx, uuid.New().String())
}

// CreateSessionWithID starts an empty conversation under a caller-chosen id
func (uc *ChatUsecase) CreateSessionWithID(ctx context.Context, id string) (*entity.SessionInfo, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session id", entity.ErrMissingField)
	}

	session := NewSession(id, uc.defaults)
	uc.sessions.Add(session)

	ctxzap.Info(ctx, "session created", zap.String("session_id", id))

	info := session.Info()
	return &info, nil
}

func (uc *ChatUsecase) GetSession(ctx context.Context, sessionID string) (*entity.SessionInfo, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	info := session.Info()
	return &info, nil
}

func (uc *ChatUsecase) EndSession(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(sessionID); err != nil {
		return err
	}
	ctxzap.Info(ctx, "session ended", zap.String("session_id", sessionID))
	return nil
}

// SubmitQuestion runs one turn and resolves links for its citations
func (uc *ChatUsecase) SubmitQuestion(ctx context.Context, sessionID, question string) (*entity.SubmitQuestionResponse, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithSession(logger.WithAction(ctx, "submit_question"), sessionID)

	answer, err := uc.orchestrator.Submit(ctx, session, question)
	if err != nil {
		return nil, err
	}

	citations := make([]entity.Citation, 0, len(answer.Citations))
	if len(answer.Citations) > 0 {
		if uc.citations != nil {
			citations = uc.citations.ResolveCitations(ctx, answer.Citations)
		} else {
			for _, path := range answer.Citations {
				citations = append(citations, entity.Citation{RelativePath: path})
			}
		}
	}

	return &entity.SubmitQuestionResponse{
		Answer:    answer.Text,
		Citations: citations,
		Debug:     answer.Debug,
	}, nil
}

// ResetConversation clears the transcript; the next question starts without history
func (uc *ChatUsecase) ResetConversation(ctx context.Context, sessionID string) error {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	ctxzap.Info(ctx, "conversation reset", zap.String("session_id", sessionID))
	return nil
}

func (uc *ChatUsecase) GetTranscript(ctx context.Context, sessionID string) ([]entity.ChatTurn, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript(), nil
}

// Models lists the supported models in lexical order
func (uc *ChatUsecase) Models() []entity.ModelSpec {
	ids := uc.catalog.IDs()
	specs := make([]entity.ModelSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, uc.catalog[id])
	}
	return specs
}

// DefaultModel is the model new sessions start with
func (uc *ChatUsecase) DefaultModel() entity.ModelID {
	return uc.defaults.Model
}

func (uc *ChatUsecase) SetModel(ctx context.Context, sessionID, model string) (*entity.SessionSettings, error) {
	return uc.UpdateSettings(ctx, sessionID, &entity.UpdateSettingsRequest{Model: &model})
}

func (uc *ChatUsecase) SetCategoryFilter(ctx context.Context, sessionID, category string) (*entity.SessionSettings, error) {
	return uc.UpdateSettings(ctx, sessionID, &entity.UpdateSettingsRequest{Category: &category})
}

func (uc *ChatUsecase) SetHistoryEnabled(ctx context.Context, sessionID string, enabled bool) (*entity.SessionSettings, error) {
	return uc.UpdateSettings(ctx, sessionID, &entity.UpdateSettingsRequest{HistoryEnabled: &enabled})
}

func (uc *ChatUsecase) SetDebug(ctx context.Context, sessionID string, enabled bool) (*entity.SessionSettings, error) {
	return uc.UpdateSettings(ctx, sessionID, &entity.UpdateSettingsRequest{Debug: &enabled})
}

// UpdateSettings applies the set fields of req. Nothing changes if any field is invalid.
func (uc *ChatUsecase) UpdateSettings(ctx context.Context, sessionID string, req *entity.UpdateSettingsRequest) (*entity.SessionSettings, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var model entity.ModelID
	if req.Model != nil {
		model = entity.ModelID(strings.TrimSpace(*req.Model))
		if _, ok := uc.catalog.Lookup(model); !ok {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedModel, *req.Model)
		}
	}

	var category string
	if req.Category != nil {
		category = strings.TrimSpace(*req.Category)
		if category == "" {
			category = entity.CategoryAll
		}
	}

	settings := session.updateSettings(func(s *entity.SessionSettings) {
		if req.Model != nil {
			s.Model = model
		}
		if req.Category != nil {
			s.Category = category
		}
		if req.HistoryEnabled != nil {
			s.HistoryEnabled = *req.HistoryEnabled
		}
		if req.Debug != nil {
			s.Debug = *req.Debug
		}
	})

	ctxzap.Info(ctx, "session settings updated",
		zap.String("session_id", sessionID),
		zap.String("model", string(settings.Model)),
		zap.String("category", settings.Category),
		zap.Bool("history_enabled", settings.HistoryEnabled),
	)

	return &settings, nil
}
