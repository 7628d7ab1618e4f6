// Package watcher ingests documents dropped into an inbox directory. Files in
// a subdirectory take its name as category; top-level files get the default.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/extract"
	"github.com/futig/docchat/internal/pkg/validator"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

type DocumentUsecase interface {
	Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error)
	DeleteDocument(ctx context.Context, relativePath string) error
}

// Watcher watches an inbox directory tree
type Watcher struct {
	root        string
	documents   DocumentUsecase
	debounce    time.Duration
	logger      *zap.Logger
	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	inflight    sync.WaitGroup
}

func New(root string, documents DocumentUsecase, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		root:        filepath.Clean(root),
		documents:   documents,
		debounce:    debounce,
		logger:      logger,
		debounceMap: make(map[string]*time.Timer),
	}
}

// CategoryFor returns the category of a file under root
func CategoryFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return validator.DefaultCategory
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == ".." {
		return validator.DefaultCategory
	}
	return parts[0]
}

// RelativePathFor returns the stored path of a file under root. Files outside
// root keep only their base name.
func RelativePathFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return validator.SanitizeRelativePath(rel)
}

// Sync ingests every supported file already in the inbox
func (w *Watcher) Sync(ctx context.Context) (int, error) {
	count := 0
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supported(path) {
			return nil
		}
		if w.ingest(ctx, path) {
			count++
		}
		return ctx.Err()
	})
	return count, err
}

// Run watches the inbox until ctx is done. Existing files are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw
	defer w.shutdown()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	count, err := w.Sync(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("inbox sync incomplete", zap.Error(err))
	}
	w.logger.Info("inbox watcher started",
		zap.String("root", w.root),
		zap.Int("synced_documents", count),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	path := ev.Name
	w.logger.Debug("inbox event", zap.String("op", ev.Op.String()), zap.String("path", path))

	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch directory", zap.String("path", path), zap.Error(err))
			}
			w.syncDir(ctx, path)
			return
		}
		if supported(path) {
			w.debounceIngest(ctx, path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancelDebounce(path)
		if supported(path) {
			w.remove(ctx, path)
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) syncDir(ctx context.Context, dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if supported(path) {
			w.debounceIngest(ctx, path)
		}
		return nil
	})
}

func (w *Watcher) debounceIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.debounceMap[path]; ok && prev.Stop() {
		w.inflight.Done()
	}

	w.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()

		w.mu.Lock()
		if w.debounceMap[path] == t {
			delete(w.debounceMap, path)
		}
		w.mu.Unlock()

		w.ingest(ctx, path)
	})
	w.debounceMap[path] = t
}

func (w *Watcher) cancelDebounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.debounceMap[path]; ok {
		if t.Stop() {
			w.inflight.Done()
		}
		delete(w.debounceMap, path)
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read inbox file", zap.String("path", path), zap.Error(err))
		return false
	}

	result, err := w.documents.Ingest(ctx, &entity.IngestRequest{
		Filename:     filepath.Base(path),
		RelativePath: RelativePathFor(w.root, path),
		Category:     CategoryFor(w.root, path),
		Content:      content,
	})
	if err != nil {
		w.logger.Warn("failed to ingest inbox file", zap.String("path", path), zap.Error(err))
		return false
	}

	w.logger.Info("inbox file ingested",
		zap.String("path", path),
		zap.String("relative_path", result.RelativePath),
		zap.String("category", result.Category),
		zap.Int("chunk_count", result.ChunkCount),
	)
	return true
}

func (w *Watcher) remove(ctx context.Context, path string) {
	relativePath := RelativePathFor(w.root, path)
	err := w.documents.DeleteDocument(ctx, relativePath)
	if err != nil && !errors.Is(err, entity.ErrDocumentNotFound) {
		w.logger.Warn("failed to drop removed inbox file", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Info("inbox file removed", zap.String("relative_path", relativePath))
}

// shutdown stops pending timers and waits for running ingestions
func (w *Watcher) shutdown() {
	w.mu.Lock()
	for path, t := range w.debounceMap {
		if t.Stop() {
			w.inflight.Done()
		}
		delete(w.debounceMap, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
	w.watcher.Close()
}

func supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extract.SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
