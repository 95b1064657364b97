package middleware

import (
	"context"
	"net/http"
	"strings"
)

const defaultEnvironment = "Development"

// EnvironmentHeader carries the deployment environment on every response.
const EnvironmentHeader = "X-Chrome-Environment"

type environmentContextKey struct{}

// Environment attaches the deployment environment label to the request context
// and echoes it in EnvironmentHeader. Empty values default to "Development".
func Environment(value string) func(http.Handler) http.Handler {
	label := strings.TrimSpace(value)
	if label == "" {
		label = defaultEnvironment
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(EnvironmentHeader, label)
			ctx := context.WithValue(r.Context(), environmentContextKey{}, label)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnvironmentFromContext returns the environment label for the current
// request, defaulting to "Development".
func EnvironmentFromContext(ctx context.Context) string {
	if ctx == nil {
		return defaultEnvironment
	}
	if value, ok := ctx.Value(environmentContextKey{}).(string); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultEnvironment
}
