package common

import (
	"github.com/futig/docchat/internal/config"
	pkgHTTP "github.com/futig/docchat/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the JSON connector shared by the search, llm and
// storage integrations. Every turn hits the same few hosts, so idle
// connections are kept per host up to the connection cap.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithMaxConnsPerHost(cfg.MaxConnsPerHost),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxConnsPerHost),
		pkgHTTP.WithRequestLogging(),
	}

	if cfg.APIKeyHeader != "" {
		opts = append(opts, pkgHTTP.WithAPIKey(cfg.APIKeyHeader, cfg.Token))
	} else {
		opts = append(opts, pkgHTTP.WithAuthToken(cfg.Token))
	}

	return pkgHTTP.NewConnector(&pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}, opts...)
}
