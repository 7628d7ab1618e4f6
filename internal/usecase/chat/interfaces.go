package chat

import (
	"context"
	"encoding/json"

	"github.com/futig/docchat/internal/entity"
)

// SearchBackend runs similarity searches over the Chunk Store and returns the
// service response undecoded
type SearchBackend interface {
	Search(ctx context.Context, req *entity.SearchRequest) (json.RawMessage, error)
}

type CompletionService interface {
	Complete(ctx context.Context, model entity.ModelID, prompt string) (string, error)
}

// CitationResolver turns cited paths into linkable citations
type CitationResolver interface {
	ResolveCitations(ctx context.Context, paths []string) []entity.Citation
}

type SessionStore interface {
	Add(session *Session)
	Get(id string) (*Session, error)
	Delete(id string) error
}
