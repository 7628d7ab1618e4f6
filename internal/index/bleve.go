// Package index provides a local Chunk Store backed by Bleve. It answers the
// same request and response shapes as the managed search service.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/futig/docchat/internal/entity"
)

const (
	fieldChunk        = "chunk"
	fieldRelativePath = "relative_path"
	fieldCategory     = "category"
	fieldChunkIndex   = "chunk_index"

	deleteBatchSize = 500
)

// ChunkIndex is a Bleve index of document chunks
type ChunkIndex struct {
	index bleve.Index
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(fieldChunk, textFieldMapping)
	// exact-match fields for filtering and deletion
	docMapping.AddFieldMappingsAt(fieldRelativePath, bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt(fieldCategory, bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt(fieldChunkIndex, bleve.NewNumericFieldMapping())
	im.DefaultMapping = docMapping

	return im
}

// Open creates or opens an on-disk index at path
func Open(path string) (*ChunkIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &ChunkIndex{index: index}, nil
	}

	index, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &ChunkIndex{index: index}, nil
}

// NewInMemory creates an index that lives only in memory
func NewInMemory() (*ChunkIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &ChunkIndex{index: index}, nil
}

// IndexChunks adds or replaces chunks in one batch
func (c *ChunkIndex) IndexChunks(ctx context.Context, chunks []entity.ChunkRecord) error {
	batch := c.index.NewBatch()
	for _, chunk := range chunks {
		doc := map[string]interface{}{
			fieldChunk:        chunk.ChunkText,
			fieldRelativePath: chunk.RelativePath,
			fieldCategory:     chunk.Category,
			fieldChunkIndex:   float64(chunk.ChunkIndex),
		}
		if err := batch.Index(chunk.ID, doc); err != nil {
			return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}
	if err := c.index.Batch(batch); err != nil {
		return fmt.Errorf("apply index batch: %w", err)
	}
	return nil
}

// DeleteDocument removes every chunk of relativePath
func (c *ChunkIndex) DeleteDocument(ctx context.Context, relativePath string) error {
	q := bleve.NewTermQuery(relativePath)
	q.SetField(fieldRelativePath)

	for {
		req := bleve.NewSearchRequest(q)
		req.Size = deleteBatchSize
		res, err := c.index.SearchInContext(ctx, req)
		if err != nil {
			return fmt.Errorf("find chunks of %s: %w", relativePath, err)
		}
		if len(res.Hits) == 0 {
			return nil
		}

		batch := c.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := c.index.Batch(batch); err != nil {
			return fmt.Errorf("delete chunks of %s: %w", relativePath, err)
		}
	}
}

// Search runs a relevance query and returns {"results":[...]} holding the
// requested columns, best match first.
func (c *ChunkIndex) Search(ctx context.Context, req *entity.SearchRequest) (json.RawMessage, error) {
	match := bleve.NewMatchQuery(req.Query)
	match.SetField(fieldChunk)

	var q blevequery.Query = match
	if req.Filter != nil && len(req.Filter.Eq) > 0 {
		conjuncts := []blevequery.Query{match}
		for field, value := range req.Filter.Eq {
			term := bleve.NewTermQuery(value)
			term.SetField(field)
			conjuncts = append(conjuncts, term)
		}
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	columns := req.Columns
	if len(columns) == 0 {
		columns = entity.SearchColumns
	}

	search := bleve.NewSearchRequest(q)
	search.Size = req.Limit
	search.Fields = columns
	res, err := c.index.SearchInContext(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	results := make([]map[string]interface{}, 0, len(res.Hits))
	for _, hit := range res.Hits {
		row := make(map[string]interface{}, len(columns)+1)
		for _, col := range columns {
			row[col] = hit.Fields[col]
		}
		if _, ok := row[fieldRelativePath]; !ok {
			row[fieldRelativePath] = hit.Fields[fieldRelativePath]
		}
		results = append(results, row)
	}

	return json.Marshal(map[string]interface{}{"results": results})
}

// DocCount returns the number of indexed chunks
func (c *ChunkIndex) DocCount() (uint64, error) {
	return c.index.DocCount()
}

// Close closes the Bleve index.
func (c *ChunkIndex) Close() error {
	return c.index.Close()
}
