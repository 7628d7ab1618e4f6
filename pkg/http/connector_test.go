package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestConnector(url string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, opts...)
}

func TestConnector_DoRequestDecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/complete" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"echo": body["text"]})
	}))
	defer server.Close()

	c := newTestConnector(server.URL, WithAuthToken("secret"), WithRequestLogging())

	var resp struct {
		Echo string `json:"echo"`
	}
	err := c.DoRequest(context.Background(), http.MethodPost, "/complete", map[string]string{"text": "hi"}, &resp)
	if err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	if resp.Echo != "hi" {
		t.Errorf("echo = %q, want %q", resp.Echo, "hi")
	}
}

func TestConnector_DoRequestRawMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	var raw json.RawMessage
	if err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodPost, "", nil, &raw); err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	if string(raw) != `{"results":[]}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestConnector_HTTPErrorIsRetryableOn5xx(t *testing.T) {
	status := http.StatusServiceUnavailable
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer server.Close()

	c := newTestConnector(server.URL)

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("503 should be retryable")
	}

	status = http.StatusBadRequest
	err = c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	if IsRetryable(err) {
		t.Error("400 should not be retryable")
	}
}

func TestConnector_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &out)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("decode errors should not be retryable")
	}
}

func TestConnector_NetworkErrorOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestConnector(server.URL, WithRequestTimeout(20*time.Millisecond))

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("timeouts should be retryable")
	}
}

func TestConnector_DoMultipartRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "a.txt" || string(data) != "hello" {
			t.Errorf("unexpected upload %q: %q", header.Filename, data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := newTestConnector(server.URL).DoMultipartRequest(context.Background(), http.MethodPut, "/objects",
		func(mw *multipart.Writer) error {
			part, err := mw.CreateFormFile("file", "a.txt")
			if err != nil {
				return err
			}
			_, err = part.Write([]byte("hello"))
			return err
		}, nil)
	if err != nil {
		t.Fatalf("DoMultipartRequest: %v", err)
	}
}

func TestConnector_WithURLOverridesBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/other" {
			t.Errorf("path = %s, want /other", r.URL.Path)
		}
	}))
	defer server.Close()

	c := newTestConnector("http://127.0.0.1:1")
	if err := c.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil, WithURL(server.URL+"/other")); err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
}
