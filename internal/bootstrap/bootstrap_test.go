package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkorolev/legal-doc-assistant/internal/config"
)

func TestNewWithoutCredentialStartsDegraded(t *testing.T) {
	app := New(context.Background(), config.Config{
		LogLevel:       "info",
		GeminiModel:    "gemini-1.5-flash-latest",
		MaxUploadBytes: 10 << 20,
	})
	defer app.Close()

	if app.GatewayInitErr == nil {
		t.Fatalf("expected gateway construction to fail without a credential")
	}

	handler := app.Router.Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected unhealthy status in degraded mode, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on chat in degraded mode, got %d", res.Code)
	}
}
