package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/integration/common"
	pkgRetry "github.com/futig/docchat/internal/pkg/retry"
	pkghttp "github.com/futig/docchat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	serviceName = "storage service"

	// cached URLs are dropped this long before the service expires them
	expiryMargin = 30 * time.Second
)

// Connector uploads documents to object storage and resolves presigned URLs
type Connector struct {
	config    config.StorageConnectorConfig
	connector *pkghttp.Connector
	urls      *cache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.StorageConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		urls:      cache.New(urlCacheTTL(cfg.URLTTL), cfg.URLTTL),
		logger:    logger,
	}
}

func urlCacheTTL(ttl time.Duration) time.Duration {
	if ttl > 2*expiryMargin {
		return ttl - expiryMargin
	}
	return ttl / 2
}

// Upload stores the original file under relativePath
func (c *Connector) Upload(ctx context.Context, relativePath string, content []byte) error {
	ctxzap.Info(ctx, "uploading document to storage",
		zap.String("relative_path", relativePath),
		zap.Int("size", len(content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		if err := writer.WriteField("relative_path", relativePath); err != nil {
			return fmt.Errorf("write relative path: %w", err)
		}
		part, err := writer.CreateFormFile("file", relativePath)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	err := pkgRetry.Do(ctx, c.config.Retry, "upload", func() error {
		return c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, nil)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to upload document", zap.Error(err))
		return common.Classify(serviceName, err)
	}

	// a re-upload makes any cached link stale
	c.urls.Delete(relativePath)
	return nil
}

// Presign returns a time-limited URL for relativePath
func (c *Connector) Presign(ctx context.Context, relativePath string) (string, error) {
	if url, ok := c.urls.Get(relativePath); ok {
		return url.(string), nil
	}

	req := &entity.PresignRequest{
		RelativePath: relativePath,
		ExpiresIn:    int(c.config.URLTTL / time.Second),
	}

	var resp entity.PresignResponse
	err := pkgRetry.Do(ctx, c.config.Retry, "presign", func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.PresignEndpoint, req, &resp)
	})
	if err != nil {
		return "", common.Classify(serviceName, err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("%w: %s returned no url", entity.ErrMalformedResponse, serviceName)
	}

	c.urls.SetDefault(relativePath, resp.URL)
	return resp.URL, nil
}
