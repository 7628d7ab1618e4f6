package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector keeps uploads in memory
type MockConnector struct {
	logger *zap.Logger

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:  logger,
		objects: make(map[string][]byte),
	}
}

func (m *MockConnector) Upload(ctx context.Context, relativePath string, content []byte) error {
	ctxzap.Info(ctx, "[MOCK] storing document", zap.String("relative_path", relativePath))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[relativePath] = append([]byte(nil), content...)
	return nil
}

func (m *MockConnector) Presign(ctx context.Context, relativePath string) (string, error) {
	return fmt.Sprintf("mock://storage/%s", url.PathEscape(relativePath)), nil
}

// Object returns a stored upload
func (m *MockConnector) Object(relativePath string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.objects[relativePath]
	return content, ok
}
