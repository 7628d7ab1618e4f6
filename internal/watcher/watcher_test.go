package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/validator"
	"go.uber.org/zap"
)

type recordingDocuments struct {
	mu       sync.Mutex
	ingested map[string]string // relative path -> category
	deleted  []string
}

func newRecordingDocuments() *recordingDocuments {
	return &recordingDocuments{ingested: make(map[string]string)}
}

func (r *recordingDocuments) Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested[req.RelativePath] = req.Category
	return &entity.IngestResult{RelativePath: req.RelativePath, Category: req.Category, ChunkCount: 1}, nil
}

func (r *recordingDocuments) DeleteDocument(ctx context.Context, relativePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, relativePath)
	return nil
}

func (r *recordingDocuments) category(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.ingested[name]
	return c, ok
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCategoryFor(t *testing.T) {
	root := "/inbox"
	tests := map[string]string{
		"/inbox/a.pdf":            validator.DefaultCategory,
		"/inbox/finance/a.pdf":    "finance",
		"/inbox/finance/q1/a.pdf": "finance",
		"/elsewhere/hr/a.pdf":     validator.DefaultCategory,
	}
	for path, want := range tests {
		if got := CategoryFor(root, path); got != want {
			t.Errorf("CategoryFor(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestRelativePathFor(t *testing.T) {
	root := "/inbox"
	tests := map[string]string{
		"/inbox/a.pdf":                 "a.pdf",
		"/inbox/finance/policy.txt":    "finance/policy.txt",
		"/inbox/hr/Leave Policy.md":    "hr/Leave_Policy.md",
		"/inbox/finance/q1/report.pdf": "finance/q1/report.pdf",
		"/elsewhere/hr/a.pdf":          "a.pdf",
	}
	for path, want := range tests {
		if got := RelativePathFor(root, filepath.FromSlash(path)); got != want {
			t.Errorf("RelativePathFor(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestSync_SameNameInDifferentCategories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "finance", "policy.txt"), "expenses")
	writeFile(t, filepath.Join(root, "hr", "policy.txt"), "leave")

	docs := newRecordingDocuments()
	w := New(root, docs, 0, zap.NewNop())
	count, err := w.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if count != 2 || len(docs.ingested) != 2 {
		t.Fatalf("synced %d files into %d documents, want 2 each", count, len(docs.ingested))
	}
	if c, _ := docs.category("finance/policy.txt"); c != "finance" {
		t.Errorf("finance/policy.txt category = %q", c)
	}
	if c, _ := docs.category("hr/policy.txt"); c != "hr" {
		t.Errorf("hr/policy.txt category = %q", c)
	}

	w.remove(context.Background(), filepath.Join(root, "hr", "policy.txt"))
	if len(docs.deleted) != 1 || docs.deleted[0] != "hr/policy.txt" {
		t.Errorf("deleted = %v, want [hr/policy.txt]", docs.deleted)
	}
}

func TestSync_IngestsSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"), "top")
	writeFile(t, filepath.Join(root, "hr", "leave.md"), "leave")
	writeFile(t, filepath.Join(root, "hr", "photo.png"), "binary")

	docs := newRecordingDocuments()
	count, err := New(root, docs, 0, zap.NewNop()).Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if count != 2 {
		t.Errorf("synced %d files, want 2", count)
	}
	if c, _ := docs.category("top.txt"); c != validator.DefaultCategory {
		t.Errorf("top.txt category = %q", c)
	}
	if c, _ := docs.category("hr/leave.md"); c != "hr" {
		t.Errorf("hr/leave.md category = %q", c)
	}
	if _, ok := docs.category("hr/photo.png"); ok {
		t.Error("unsupported file was ingested")
	}
}

func TestRun_PicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	docs := newRecordingDocuments()
	w := New(root, docs, 20*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// the watch is registered before the initial sync, so a file written after
	// the sync is seen as an event
	waitFor(t, func() bool {
		writeFile(t, filepath.Join(root, "finance", "budget.txt"), "numbers")
		_, ok := docs.category("finance/budget.txt")
		return ok
	})

	if c, _ := docs.category("finance/budget.txt"); c != "finance" {
		t.Errorf("category = %q, want finance", c)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
