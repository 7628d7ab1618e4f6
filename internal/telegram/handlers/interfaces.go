package handlers

import (
	"context"

	"github.com/futig/docchat/internal/entity"
)

// ChatUsecase is the conversation surface used by the bot
type ChatUsecase interface {
	CreateSessionWithID(ctx context.Context, id string) (*entity.SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*entity.SessionInfo, error)
	SubmitQuestion(ctx context.Context, sessionID, question string) (*entity.SubmitQuestionResponse, error)
	ResetConversation(ctx context.Context, sessionID string) error
	GetTranscript(ctx context.Context, sessionID string) ([]entity.ChatTurn, error)
	Models() []entity.ModelSpec
	SetModel(ctx context.Context, sessionID, model string) (*entity.SessionSettings, error)
	SetCategoryFilter(ctx context.Context, sessionID, category string) (*entity.SessionSettings, error)
	SetHistoryEnabled(ctx context.Context, sessionID string, enabled bool) (*entity.SessionSettings, error)
	SetDebug(ctx context.Context, sessionID string, enabled bool) (*entity.SessionSettings, error)
}

// DocumentUsecase is the document surface used by the bot
type DocumentUsecase interface {
	Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListDocuments(ctx context.Context) ([]*entity.Document, error)
}

// FileFetcher downloads files users attach in the chat
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}
