package chat

import (
	"context"

	"github.com/futig/docchat/internal/entity"
)

type ChatUsecase interface {
	CreateSession(ctx context.Context) (*entity.SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*entity.SessionInfo, error)
	EndSession(ctx context.Context, sessionID string) error
	SubmitQuestion(ctx context.Context, sessionID, question string) (*entity.SubmitQuestionResponse, error)
	ResetConversation(ctx context.Context, sessionID string) error
	GetTranscript(ctx context.Context, sessionID string) ([]entity.ChatTurn, error)
	UpdateSettings(ctx context.Context, sessionID string, req *entity.UpdateSettingsRequest) (*entity.SessionSettings, error)
	Models() []entity.ModelSpec
	DefaultModel() entity.ModelID
}
