package search

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/integration/common"
	pkgRetry "github.com/futig/docchat/internal/pkg/retry"
	pkghttp "github.com/futig/docchat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const serviceName = "search service"

// Connector queries the managed search service. The response is returned
// undecoded so the caller can validate its shape.
type Connector struct {
	config    config.SearchConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.SearchConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Search runs a similarity search restricted to the fixed column projection
func (c *Connector) Search(ctx context.Context, req *entity.SearchRequest) (json.RawMessage, error) {
	ctxzap.Debug(ctx, "querying search service",
		zap.Int("limit", req.Limit),
		zap.Bool("filtered", req.Filter != nil),
	)

	var raw json.RawMessage
	err := pkgRetry.Do(ctx, c.config.Retry, "search", func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.QueryEndpoint, req, &raw)
	})
	if err != nil {
		return nil, common.Classify(serviceName, err)
	}

	return raw, nil
}
