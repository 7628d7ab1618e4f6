package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   zapcore.Level
	}{
		{"/sessions", http.StatusOK, zapcore.InfoLevel},
		{"/health", http.StatusOK, zapcore.DebugLevel},
		{"/sessions/x", http.StatusNotFound, zapcore.WarnLevel},
		{"/health", http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		if got := levelFor(tt.path, tt.status); got != tt.want {
			t.Errorf("levelFor(%q, %d) = %s, want %s", tt.path, tt.status, got, tt.want)
		}
	}
}

func TestLoggerSeedsContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var seeded bool

	handler := middleware.RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxzap.Info(r.Context(), "inside handler")
		seeded = true
		w.WriteHeader(http.StatusTeapot)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions", nil))

	if !seeded {
		t.Fatal("handler not called")
	}
	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	for _, e := range entries {
		if _, ok := e.ContextMap()["request_id"]; !ok {
			t.Errorf("entry %q has no request_id", e.Message)
		}
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("request entry level = %s, want warn", entries[1].Level)
	}
}
