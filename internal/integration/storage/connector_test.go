package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	pkgRetry "github.com/futig/docchat/internal/pkg/retry"
	"go.uber.org/zap"
)

func newTestConnector(url string) *Connector {
	return NewConnector(config.StorageConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: url, RequestTimeout: time.Second},
		UploadEndpoint:   "/objects",
		PresignEndpoint:  "/presign",
		URLTTL:           360 * time.Second,
		Retry:            pkgRetry.RetryConfig{Attempts: 1},
	}, zap.NewNop())
}

func TestConnector_PresignIsCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req entity.PresignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.ExpiresIn != 360 {
			t.Errorf("expires_in = %d, want 360", req.ExpiresIn)
		}
		json.NewEncoder(w).Encode(entity.PresignResponse{URL: "https://files/" + req.RelativePath})
	}))
	defer server.Close()

	c := newTestConnector(server.URL)
	for i := 0; i < 2; i++ {
		url, err := c.Presign(context.Background(), "a.pdf")
		if err != nil {
			t.Fatalf("Presign: %v", err)
		}
		if url != "https://files/a.pdf" {
			t.Errorf("url = %q", url)
		}
	}
	if calls != 1 {
		t.Errorf("service calls = %d, want 1", calls)
	}
}

func TestConnector_PresignMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestConnector(server.URL).Presign(context.Background(), "a.pdf")
	if !errors.Is(err, entity.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestConnector_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("relative_path"); got != "guide.pdf" {
			t.Errorf("relative_path = %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "%PDF" {
			t.Errorf("content = %q", content)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	if err := newTestConnector(server.URL).Upload(context.Background(), "guide.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}
