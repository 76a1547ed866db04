package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cargolink/cargo-backend/internal/auth"
	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/middleware"
	"github.com/cargolink/cargo-backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTExpiry:   24 * time.Hour,
		Environment: "test",
	}
}

func testAuthService(t *testing.T) *auth.Service {
	t.Helper()
	return auth.NewService(testConfig())
}

// jsonRequest builds a request with an optional authenticated claims context
func jsonRequest(t *testing.T, method, target string, body interface{}, claims *models.Claims) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if claims != nil {
		ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
		req = req.WithContext(ctx)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
