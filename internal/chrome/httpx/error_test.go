package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	rr := httptest.NewRecorder()
	WriteError(ctx, rr, NewError("invalid_path", "path must\nbe absolute", http.StatusBadRequest).
		WithDetails(map[string]any{"path": "insights", "status": 999}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "invalid_path", body["error"])
	require.Equal(t, "path must be absolute", body["message"])
	require.Equal(t, float64(http.StatusBadRequest), body["status"], "details cannot override envelope fields")
	require.Equal(t, "req-1", body["request_id"])
	require.Equal(t, "insights", body["path"])
}

func TestNewErrorDefaults(t *testing.T) {
	t.Parallel()

	err := NewError(strings.Repeat("x", 100), "boom", 0)
	require.Equal(t, http.StatusInternalServerError, err.Status)
	require.Len(t, err.Code, 80)

	rr := httptest.NewRecorder()
	WriteError(context.Background(), rr, Error{Code: "internal"})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "request_id")
}
