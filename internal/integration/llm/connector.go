package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/integration/common"
	pkgRetry "github.com/futig/docchat/internal/pkg/retry"
	pkghttp "github.com/futig/docchat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const serviceName = "completion service"

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete generates text for prompt with the given model
func (c *Connector) Complete(ctx context.Context, model entity.ModelID, prompt string) (string, error) {
	ctxzap.Debug(ctx, "requesting completion",
		zap.String("model", string(model)),
		zap.Int("prompt_length", len(prompt)),
	)

	req := &entity.CompletionRequest{Model: model, Prompt: prompt}

	var resp entity.CompletionResponse
	err := pkgRetry.Do(ctx, c.config.Retry, "complete", func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompleteEndpoint, req, &resp)
	})
	if err != nil {
		return "", common.Classify(serviceName, err)
	}

	if strings.TrimSpace(resp.Result) == "" {
		return "", fmt.Errorf("%w: %s returned no text", entity.ErrEmptyCompletion, serviceName)
	}

	ctxzap.Debug(ctx, "completion received", zap.Int("result_length", len(resp.Result)))

	return resp.Result, nil
}
