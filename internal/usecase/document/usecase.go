package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/chunker"
	"github.com/futig/docchat/internal/pkg/validator"
	"github.com/futig/docchat/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase implements document ingestion and lookup
type DocumentUsecase struct {
	documentRepo repository.DocumentRepository
	chunkRepo    repository.ChunkRepository
	storage      StorageConnector
	index        ChunkIndex
	extractor    TextExtractor
	validator    *validator.Validator
	chunking     chunker.Options
}

func NewUsecase(
	documentRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	storage StorageConnector,
	index ChunkIndex,
	extractor TextExtractor,
	validator *validator.Validator,
	chunking chunker.Options,
) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		storage:      storage,
		index:        index,
		extractor:    extractor,
		validator:    validator,
		chunking:     chunking,
	}
}

// Ingest stores the original file, splits its text into chunks and persists
// them. Re-ingesting a relative path replaces its chunks.
func (uc *DocumentUsecase) Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	req.Category = validator.NormalizeCategory(req.Category)
	if err := uc.validator.ValidateIngest(req); err != nil {
		return nil, err
	}

	relativePath := validator.SanitizeFilename(req.Filename)
	if req.RelativePath != "" {
		relativePath = validator.SanitizeRelativePath(req.RelativePath)
	}
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("relative_path", relativePath),
		zap.String("category", req.Category),
	))

	text, err := uc.extractor.Extract(relativePath, req.Content)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	pieces := chunker.Split(text, uc.chunking)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyDocument, relativePath)
	}

	if err := uc.storage.Upload(ctx, relativePath, req.Content); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := entity.Document{
		ID:           uuid.New().String(),
		RelativePath: relativePath,
		Category:     req.Category,
		Size:         int64(len(req.Content)),
	}

	chunks := make([]entity.ChunkRecord, len(pieces))
	for i, piece := range pieces {
		chunks[i] = entity.ChunkRecord{
			ID:           uuid.New().String(),
			RelativePath: relativePath,
			Category:     req.Category,
			ChunkIndex:   i,
			ChunkText:    piece,
		}
	}

	stored, err := uc.documentRepo.ReplaceDocument(ctx, doc, chunks)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	for i := range chunks {
		chunks[i].DocumentID = stored.ID
	}

	if uc.index != nil {
		if err := uc.index.DeleteDocument(ctx, relativePath); err != nil {
			return nil, fmt.Errorf("drop indexed chunks: %w", err)
		}
		if err := uc.index.IndexChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("index chunks: %w", err)
		}
	}

	ctxzap.Info(ctx, "document ingested", zap.Int("chunk_count", len(chunks)))

	return &entity.IngestResult{
		DocumentID:   stored.ID,
		RelativePath: relativePath,
		Category:     req.Category,
		ChunkCount:   len(chunks),
	}, nil
}

// DeleteDocument removes a document with its chunks
func (uc *DocumentUsecase) DeleteDocument(ctx context.Context, relativePath string) error {
	if err := uc.documentRepo.DeleteDocument(ctx, relativePath); err != nil {
		return err
	}
	if uc.index != nil {
		if err := uc.index.DeleteDocument(ctx, relativePath); err != nil {
			return fmt.Errorf("drop indexed chunks: %w", err)
		}
	}
	ctxzap.Info(ctx, "document deleted", zap.String("relative_path", relativePath))
	return nil
}

// ListCategories returns ALL followed by every stored category
func (uc *DocumentUsecase) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.chunkRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]string, 0, len(categories)+1)
	out = append(out, entity.CategoryAll)
	for _, c := range categories {
		if c != entity.CategoryAll {
			out = append(out, c)
		}
	}
	return out, nil
}

func (uc *DocumentUsecase) ListDocuments(ctx context.Context) ([]*entity.Document, error) {
	docs, err := uc.documentRepo.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// ResolveCitations attaches a presigned link to each path. A path whose link
// cannot be resolved is returned without URL.
func (uc *DocumentUsecase) ResolveCitations(ctx context.Context, paths []string) []entity.Citation {
	citations := make([]entity.Citation, 0, len(paths))
	for _, path := range paths {
		citation := entity.Citation{RelativePath: path}

		url, err := uc.storage.Presign(ctx, path)
		if err != nil {
			ctxzap.Warn(ctx, "failed to resolve citation link",
				zap.String("relative_path", path),
				zap.Error(err),
			)
		} else {
			citation.URL = url
		}

		citations = append(citations, citation)
	}
	return citations
}

// RebuildIndex loads every stored chunk into an empty local index.
// It returns the number of chunks indexed.
func (uc *DocumentUsecase) RebuildIndex(ctx context.Context) (int, error) {
	if uc.index == nil {
		return 0, errors.New("no local index configured")
	}

	count, err := uc.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("count indexed chunks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	chunks, err := uc.chunkRepo.ListChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := uc.index.IndexChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	ctxzap.Info(ctx, "local index rebuilt", zap.Int("chunk_count", len(chunks)))
	return len(chunks), nil
}
