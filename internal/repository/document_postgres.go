package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docchat/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository defines the interface for ingested document persistence
type DocumentRepository interface {
	ReplaceDocument(ctx context.Context, doc entity.Document, chunks []entity.ChunkRecord) (*entity.Document, error)
	GetDocumentByPath(ctx context.Context, relativePath string) (*entity.Document, error)
	ListDocuments(ctx context.Context) ([]*entity.Document, error)
	DeleteDocument(ctx context.Context, relativePath string) error
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const upsertDocumentQuery = `
INSERT INTO documents (id, relative_path, category, size, chunk_count)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (relative_path) DO UPDATE
SET category = EXCLUDED.category,
    size = EXCLUDED.size,
    chunk_count = EXCLUDED.chunk_count,
    updated_at = NOW()
RETURNING id, relative_path, category, size, chunk_count, created_at`

const documentColumns = `id, relative_path, category, size, chunk_count, created_at`

// ReplaceDocument stores doc and swaps its chunks for the given ones in one
// transaction. An existing document with the same relative path keeps its id.
func (r *DocumentPostgres) ReplaceDocument(ctx context.Context, doc entity.Document, chunks []entity.ChunkRecord) (*entity.Document, error) {
	docID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse document ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, upsertDocumentQuery,
		pgtype.UUID{Bytes: docID, Valid: true},
		doc.RelativePath,
		doc.Category,
		doc.Size,
		len(chunks),
	)
	stored, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}
	storedID := pgtype.UUID{Bytes: uuid.MustParse(stored.ID), Valid: true}

	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, storedID); err != nil {
		return nil, fmt.Errorf("delete old chunks: %w", err)
	}

	rows := make([][]any, 0, len(chunks))
	for _, c := range chunks {
		chunkID, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("parse chunk ID: %w", err)
		}
		rows = append(rows, []any{
			pgtype.UUID{Bytes: chunkID, Valid: true},
			storedID,
			stored.RelativePath,
			stored.Category,
			int32(c.ChunkIndex),
			c.ChunkText,
		})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"chunks"},
		[]string{"id", "document_id", "relative_path", "category", "chunk_index", "chunk"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

func (r *DocumentPostgres) GetDocumentByPath(ctx context.Context, relativePath string) (*entity.Document, error) {
	row := r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE relative_path = $1`, relativePath)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *DocumentPostgres) ListDocuments(ctx context.Context) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY relative_path`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*entity.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes the document and, by cascade, its chunks
func (r *DocumentPostgres) DeleteDocument(ctx context.Context, relativePath string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE relative_path = $1`, relativePath)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		id         pgtype.UUID
		doc        entity.Document
		chunkCount int32
		createdAt  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &doc.RelativePath, &doc.Category, &doc.Size, &chunkCount, &createdAt); err != nil {
		return nil, err
	}

	doc.ID = uuid.UUID(id.Bytes).String()
	doc.ChunkCount = int(chunkCount)
	doc.CreatedAt = createdAt.Time
	return &doc, nil
}
