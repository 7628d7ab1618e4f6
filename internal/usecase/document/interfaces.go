package document

import (
	"context"

	"github.com/futig/docchat/internal/entity"
)

type StorageConnector interface {
	Upload(ctx context.Context, relativePath string, content []byte) error
	Presign(ctx context.Context, relativePath string) (string, error)
}

// ChunkIndex is the local search backend; nil when search is remote
type ChunkIndex interface {
	IndexChunks(ctx context.Context, chunks []entity.ChunkRecord) error
	DeleteDocument(ctx context.Context, relativePath string) error
	DocCount() (uint64, error)
}

type TextExtractor interface {
	Extract(filename string, content []byte) (string, error)
}
