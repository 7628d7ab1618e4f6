package document

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/index"
	"github.com/futig/docchat/internal/integration/storage"
	"github.com/futig/docchat/internal/pkg/chunker"
	"github.com/futig/docchat/internal/pkg/extract"
	"github.com/futig/docchat/internal/pkg/validator"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu     sync.Mutex
	docs   map[string]*entity.Document
	chunks map[string][]entity.ChunkRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		docs:   make(map[string]*entity.Document),
		chunks: make(map[string][]entity.ChunkRecord),
	}
}

func (m *memoryRepo) ReplaceDocument(ctx context.Context, doc entity.Document, chunks []entity.ChunkRecord) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.docs[doc.RelativePath]; ok {
		doc.ID = existing.ID
	}
	doc.ChunkCount = len(chunks)
	m.docs[doc.RelativePath] = &doc
	m.chunks[doc.RelativePath] = chunks
	return &doc, nil
}

func (m *memoryRepo) GetDocumentByPath(ctx context.Context, relativePath string) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[relativePath]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memoryRepo) ListDocuments(ctx context.Context) ([]*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *memoryRepo) DeleteDocument(ctx context.Context, relativePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[relativePath]; !ok {
		return entity.ErrDocumentNotFound
	}
	delete(m.docs, relativePath)
	delete(m.chunks, relativePath)
	return nil
}

func (m *memoryRepo) ListCategories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, chunks := range m.chunks {
		for _, c := range chunks {
			if !seen[c.Category] {
				seen[c.Category] = true
				out = append(out, c.Category)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryRepo) ListChunks(ctx context.Context) ([]entity.ChunkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.ChunkRecord
	for _, chunks := range m.chunks {
		out = append(out, chunks...)
	}
	return out, nil
}

type failingStorage struct{ *storage.MockConnector }

func (failingStorage) Presign(ctx context.Context, relativePath string) (string, error) {
	return "", entity.ErrConnection
}

func newTestUsecase(t *testing.T, repo *memoryRepo, store StorageConnector) (*DocumentUsecase, *index.ChunkIndex) {
	t.Helper()
	idx, err := index.NewInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	uc := NewUsecase(
		repo,
		repo,
		store,
		idx,
		extract.NewExtractor(),
		validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: 1 << 20}),
		chunker.Options{ChunkSize: 100, ChunkOverlap: 20},
	)
	return uc, idx
}

func searchIndex(t *testing.T, idx *index.ChunkIndex, q, category string) string {
	t.Helper()
	raw, err := idx.Search(context.Background(), entity.NewSearchRequest(entity.SearchQuery{Text: q, Category: category, Limit: 10}))
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestIngest_StoresUploadsAndIndexes(t *testing.T) {
	repo := newMemoryRepo()
	store := storage.NewMockConnector(zap.NewNop())
	uc, idx := newTestUsecase(t, repo, store)

	body := strings.Repeat("Invoices are approved by finance. ", 20)
	res, err := uc.Ingest(context.Background(), &entity.IngestRequest{
		Filename: "Invoice Guide.md",
		Category: "finance",
		Content:  []byte(body),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.RelativePath != "Invoice_Guide.md" || res.ChunkCount < 2 {
		t.Errorf("result = %+v", res)
	}
	if _, ok := store.Object("Invoice_Guide.md"); !ok {
		t.Error("original file was not uploaded")
	}
	if got := searchIndex(t, idx, "invoices", "finance"); !strings.Contains(got, "Invoice_Guide.md") {
		t.Errorf("chunks not searchable: %s", got)
	}
}

func TestIngest_ReplacesChunks(t *testing.T) {
	repo := newMemoryRepo()
	uc, idx := newTestUsecase(t, repo, storage.NewMockConnector(zap.NewNop()))
	ctx := context.Background()

	uc.Ingest(ctx, &entity.IngestRequest{Filename: "p.txt", Category: "hr", Content: []byte("old vacation rules")})
	if _, err := uc.Ingest(ctx, &entity.IngestRequest{Filename: "p.txt", Category: "hr", Content: []byte("new remote work rules")}); err != nil {
		t.Fatal(err)
	}

	if got := searchIndex(t, idx, "vacation", ""); strings.Contains(got, "p.txt") {
		t.Errorf("stale chunk still indexed: %s", got)
	}
	if got := searchIndex(t, idx, "remote", ""); !strings.Contains(got, "p.txt") {
		t.Errorf("new chunk missing: %s", got)
	}
	if count, _ := idx.DocCount(); count != 1 {
		t.Errorf("index holds %d chunks, want 1", count)
	}
}

func TestIngest_NestedRelativePathsStayDistinct(t *testing.T) {
	repo := newMemoryRepo()
	store := storage.NewMockConnector(zap.NewNop())
	uc, _ := newTestUsecase(t, repo, store)
	ctx := context.Background()

	for _, category := range []string{"finance", "hr"} {
		res, err := uc.Ingest(ctx, &entity.IngestRequest{
			Filename:     "policy.txt",
			RelativePath: category + "/policy.txt",
			Category:     category,
			Content:      []byte(category + " policy text"),
		})
		if err != nil {
			t.Fatalf("Ingest %s: %v", category, err)
		}
		if res.RelativePath != category+"/policy.txt" {
			t.Errorf("relative path = %q", res.RelativePath)
		}
	}

	docs, err := repo.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("stored %d documents, want 2", len(docs))
	}
	if _, ok := store.Object("hr/policy.txt"); !ok {
		t.Error("nested file was not uploaded under its relative path")
	}
}

func TestIngest_DefaultCategoryAndValidation(t *testing.T) {
	uc, _ := newTestUsecase(t, newMemoryRepo(), storage.NewMockConnector(zap.NewNop()))
	ctx := context.Background()

	res, err := uc.Ingest(ctx, &entity.IngestRequest{Filename: "n.txt", Content: []byte("text")})
	if err != nil || res.Category != validator.DefaultCategory {
		t.Errorf("Ingest = %+v, %v", res, err)
	}

	if _, err := uc.Ingest(ctx, &entity.IngestRequest{Filename: "n.exe", Content: []byte("x")}); !errors.Is(err, entity.ErrInvalidExtension) {
		t.Errorf("expected ErrInvalidExtension, got %v", err)
	}
	if _, err := uc.Ingest(ctx, &entity.IngestRequest{Filename: "blank.txt", Content: []byte("  \n ")}); !errors.Is(err, entity.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	uc, _ := newTestUsecase(t, newMemoryRepo(), storage.NewMockConnector(zap.NewNop()))
	ctx := context.Background()

	uc.Ingest(ctx, &entity.IngestRequest{Filename: "a.txt", Category: "hr", Content: []byte("a")})
	uc.Ingest(ctx, &entity.IngestRequest{Filename: "b.txt", Category: "finance", Content: []byte("b")})

	got, err := uc.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ALL", "finance", "hr"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestResolveCitations(t *testing.T) {
	uc, _ := newTestUsecase(t, newMemoryRepo(), storage.NewMockConnector(zap.NewNop()))
	got := uc.ResolveCitations(context.Background(), []string{"a.pdf", "b.pdf"})
	if len(got) != 2 || got[0].URL == "" || got[1].RelativePath != "b.pdf" {
		t.Errorf("citations = %+v", got)
	}

	uc, _ = newTestUsecase(t, newMemoryRepo(), failingStorage{storage.NewMockConnector(zap.NewNop())})
	got = uc.ResolveCitations(context.Background(), []string{"a.pdf"})
	if len(got) != 1 || got[0].RelativePath != "a.pdf" || got[0].URL != "" {
		t.Errorf("failed resolution must keep the path without URL, got %+v", got)
	}
}

func TestRebuildIndex(t *testing.T) {
	repo := newMemoryRepo()
	repo.ReplaceDocument(context.Background(), entity.Document{ID: "d", RelativePath: "a.txt", Category: "hr"},
		[]entity.ChunkRecord{{ID: "c1", RelativePath: "a.txt", Category: "hr", ChunkText: "payroll schedule"}})

	uc, idx := newTestUsecase(t, repo, storage.NewMockConnector(zap.NewNop()))
	n, err := uc.RebuildIndex(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("RebuildIndex = %d, %v", n, err)
	}
	if got := searchIndex(t, idx, "payroll", "hr"); !strings.Contains(got, "a.txt") {
		t.Errorf("rebuilt index misses chunk: %s", got)
	}

	if n, _ := uc.RebuildIndex(context.Background()); n != 0 {
		t.Errorf("a populated index must not be rebuilt, indexed %d", n)
	}
}
