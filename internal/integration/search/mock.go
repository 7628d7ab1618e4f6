package search

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector serves a small fixed corpus
type MockConnector struct {
	logger *zap.Logger
	corpus []entity.DocumentChunk
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
		corpus: []entity.DocumentChunk{
			{ChunkText: "Invoices are processed within five business days after approval by the cost center owner.", RelativePath: "finance/invoice-guide.pdf", Category: "finance"},
			{ChunkText: "Invoice approval requires a purchase order number and a matching goods receipt.", RelativePath: "finance/invoice-guide.pdf", Category: "finance"},
			{ChunkText: "Employees accrue two days of paid leave per month of service.", RelativePath: "hr/leave-policy.pdf", Category: "hr"},
			{ChunkText: "Leave requests must be submitted at least two weeks in advance.", RelativePath: "hr/leave-policy.pdf", Category: "hr"},
		},
	}
}

func (m *MockConnector) Search(ctx context.Context, req *entity.SearchRequest) (json.RawMessage, error) {
	ctxzap.Info(ctx, "[MOCK] searching chunks", zap.String("query", req.Query))

	terms := strings.Fields(strings.ToLower(req.Query))
	results := make([]entity.DocumentChunk, 0, req.Limit)
	for _, chunk := range m.corpus {
		if len(results) >= req.Limit {
			break
		}
		if req.Filter != nil && chunk.Category != req.Filter.Eq["category"] {
			continue
		}
		if matchesAny(strings.ToLower(chunk.ChunkText), terms) {
			results = append(results, chunk)
		}
	}

	return json.Marshal(entity.SearchResult{Chunks: results})
}

func matchesAny(text string, terms []string) bool {
	for _, term := range terms {
		term = strings.Trim(term, "?.,!")
		if len(term) > 3 && strings.Contains(text, term) {
			return true
		}
	}
	return false
}
