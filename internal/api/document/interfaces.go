package document

import (
	"context"

	"github.com/futig/docchat/internal/entity"
)

type DocumentUsecase interface {
	Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error)
	DeleteDocument(ctx context.Context, relativePath string) error
	ListCategories(ctx context.Context) ([]string, error)
	ListDocuments(ctx context.Context) ([]*entity.Document, error)
}
