package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/futig/docchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DefaultResultLimit is the number of chunks retrieved per turn
const DefaultResultLimit = 3

// Retrieved is the ranked result set of one search, each result kept in the
// form the search service returned it
type Retrieved struct {
	Results []json.RawMessage
}

// Retriever is the similarity search client of the pipeline
type Retriever struct {
	backend SearchBackend
	timeout time.Duration
}

func NewRetriever(backend SearchBackend, timeout time.Duration) *Retriever {
	return &Retriever{
		backend: backend,
		timeout: timeout,
	}
}

// Retrieve searches for q.Text, restricted to q.Category unless it is empty or
// ALL, and returns at most q.Limit results, best match first.
func (r *Retriever) Retrieve(ctx context.Context, q entity.SearchQuery) (*Retrieved, error) {
	if q.Limit < 1 {
		q.Limit = DefaultResultLimit
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.backend.Search(callCtx, entity.NewSearchRequest(q))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, entity.ErrConnection) {
			err = fmt.Errorf("%w: search timed out after %s: %v", entity.ErrConnection, r.timeout, err)
		}
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	var envelope struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: search response: %v", entity.ErrMalformedResponse, err)
	}
	if envelope.Results == nil {
		return nil, fmt.Errorf("%w: search response has no results field", entity.ErrMalformedResponse)
	}

	results := *envelope.Results
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	ctxzap.Debug(ctx, "chunks retrieved",
		zap.Int("result_count", len(results)),
		zap.Bool("filtered", q.HasFilter()),
	)

	return &Retrieved{Results: results}, nil
}
