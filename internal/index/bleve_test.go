package index

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/futig/docchat/internal/entity"
)

func fixtureIndex(t *testing.T) *ChunkIndex {
	t.Helper()
	idx, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	chunks := []entity.ChunkRecord{
		{ID: "a-0", RelativePath: "a.pdf", Category: "finance", ChunkText: "invoice processing"},
		{ID: "b-0", RelativePath: "b.pdf", Category: "hr", ChunkText: "leave policy"},
		{ID: "c-0", RelativePath: "c.pdf", Category: "hr", ChunkText: "invoice for travel expenses is filed with hr"},
	}
	if err := idx.IndexChunks(context.Background(), chunks); err != nil {
		t.Fatalf("IndexChunks: %v", err)
	}
	return idx
}

func search(t *testing.T, idx *ChunkIndex, q entity.SearchQuery) []entity.DocumentChunk {
	t.Helper()
	raw, err := idx.Search(context.Background(), entity.NewSearchRequest(q))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var result entity.SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return result.Chunks
}

func TestChunkIndex_CategoryFilter(t *testing.T) {
	idx := fixtureIndex(t)

	got := search(t, idx, entity.SearchQuery{Text: "invoice", Category: "finance", Limit: 3})
	if len(got) != 1 {
		t.Fatalf("finance results = %+v, want exactly one", got)
	}
	if got[0].RelativePath != "a.pdf" || got[0].Category != "finance" || got[0].ChunkText != "invoice processing" {
		t.Errorf("unexpected chunk %+v", got[0])
	}

	for _, c := range search(t, idx, entity.SearchQuery{Text: "invoice leave", Category: "hr", Limit: 3}) {
		if c.Category != "hr" {
			t.Errorf("chunk %+v leaked through hr filter", c)
		}
	}
}

func TestChunkIndex_AllCategoryDoesNotFilter(t *testing.T) {
	idx := fixtureIndex(t)

	got := search(t, idx, entity.SearchQuery{Text: "invoice", Category: entity.CategoryAll, Limit: 3})
	categories := map[string]bool{}
	for _, c := range got {
		categories[c.Category] = true
	}
	if !categories["finance"] || !categories["hr"] {
		t.Errorf("ALL should search every category, got %+v", got)
	}
}

func TestChunkIndex_LimitAndEmpty(t *testing.T) {
	idx := fixtureIndex(t)

	if got := search(t, idx, entity.SearchQuery{Text: "invoice", Limit: 1}); len(got) != 1 {
		t.Errorf("limit 1 returned %d results", len(got))
	}
	if got := search(t, idx, entity.SearchQuery{Text: "spaceship", Limit: 3}); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestChunkIndex_DeleteDocument(t *testing.T) {
	idx := fixtureIndex(t)

	if err := idx.DeleteDocument(context.Background(), "a.pdf"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	for _, c := range search(t, idx, entity.SearchQuery{Text: "invoice", Limit: 3}) {
		if c.RelativePath == "a.pdf" {
			t.Errorf("a.pdf still searchable after delete")
		}
	}
	count, err := idx.DocCount()
	if err != nil || count != 2 {
		t.Errorf("DocCount = %d, %v; want 2", count, err)
	}
}

func TestOpen_ReopensExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.bleve")

	idx, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = idx.IndexChunks(context.Background(), []entity.ChunkRecord{
		{ID: "x", RelativePath: "x.md", Category: "general", ChunkText: "persistent chunk"},
	})
	if err != nil {
		t.Fatalf("IndexChunks: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()
	if got := search(t, idx, entity.SearchQuery{Text: "persistent", Limit: 3}); len(got) != 1 {
		t.Errorf("reopened index returned %+v", got)
	}
}
