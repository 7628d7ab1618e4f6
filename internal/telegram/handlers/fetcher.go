package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/docchat/internal/entity"
	pkghttp "github.com/futig/docchat/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const downloadTimeout = 30 * time.Second

// the file URL embeds the bot token, so this client never logs requests
var downloadClient = pkghttp.NewClient(
	pkghttp.WithRequestTimeout(downloadTimeout),
	pkghttp.WithMinTLSVersion(tls.VersionTLS12),
)

// BotFileFetcher downloads attachments through the Bot API file endpoint
type BotFileFetcher struct {
	bot     *tgbotapi.BotAPI
	maxSize int64
}

func NewBotFileFetcher(bot *tgbotapi.BotAPI, maxSize int64) *BotFileFetcher {
	return &BotFileFetcher{bot: bot, maxSize: maxSize}
}

func (f *BotFileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := f.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxSize > 0 {
		body = io.LimitReader(resp.Body, f.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", entity.ErrFileTooLarge, f.maxSize)
	}

	return data, nil
}
