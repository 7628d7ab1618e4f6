package repository

import (
	"context"
	"fmt"

	"github.com/futig/docchat/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository defines read access to stored chunks
type ChunkRepository interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListChunks(ctx context.Context) ([]entity.ChunkRecord, error)
}

var _ ChunkRepository = &ChunkPostgres{}

// ChunkPostgres implements ChunkRepository using PostgreSQL
type ChunkPostgres struct {
	db *pgxpool.Pool
}

func NewChunkPostgres(db *pgxpool.Pool) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

// ListCategories returns the distinct chunk categories in lexical order
func (r *ChunkPostgres) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM chunks ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// ListChunks returns every stored chunk, grouped by document in chunk order
func (r *ChunkPostgres) ListChunks(ctx context.Context) ([]entity.ChunkRecord, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, document_id, relative_path, category, chunk_index, chunk
FROM chunks
ORDER BY relative_path, chunk_index`)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]entity.ChunkRecord, 0)
	for rows.Next() {
		var (
			id, docID pgtype.UUID
			index     int32
			c         entity.ChunkRecord
		)
		if err := rows.Scan(&id, &docID, &c.RelativePath, &c.Category, &index, &c.ChunkText); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.ID = uuid.UUID(id.Bytes).String()
		c.DocumentID = uuid.UUID(docID.Bytes).String()
		c.ChunkIndex = int(index)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	return chunks, nil
}
