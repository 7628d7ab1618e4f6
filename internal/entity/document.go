package entity

import "time"

// Document is an ingested source file
type Document struct {
	ID           string    `json:"id"`
	RelativePath string    `json:"relative_path"`
	Category     string    `json:"category"`
	Size         int64     `json:"size"`
	ChunkCount   int       `json:"chunk_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChunkRecord is a persisted chunk of a document
type ChunkRecord struct {
	ID           string
	DocumentID   string
	RelativePath string
	Category     string
	ChunkIndex   int
	ChunkText    string
}

// IngestRequest carries an uploaded document
type IngestRequest struct {
	Filename     string
	RelativePath string // stored path, defaults to the sanitized Filename
	Category     string
	Content      []byte
}

// IngestResult summarizes an ingested document
type IngestResult struct {
	DocumentID   string `json:"document_id"`
	RelativePath string `json:"relative_path"`
	Category     string `json:"category"`
	ChunkCount   int    `json:"chunk_count"`
}

// PresignRequest is the wire request of the presign service
type PresignRequest struct {
	RelativePath string `json:"relative_path"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// PresignResponse is the wire response of the presign service
type PresignResponse struct {
	URL string `json:"url"`
}
