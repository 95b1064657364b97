package middleware

import (
	"context"
	"net/http"
	"strings"
)

type requestInfoKeyType int

const requestInfoKey requestInfoKeyType = iota

// RequestInfo holds the request location as seen by the chrome API.
type RequestInfo struct {
	Path     string
	BasePath string
	Method   string
	// Location is the console path the caller is viewing: the path query
	// parameter, else the htmx current URL. Empty when neither is present.
	Location string
}

// RequestInfoMiddleware annotates the context with the request path, the
// mount point and the console location the request is about. It must run
// after HTMX to pick up HX-Current-URL.
func RequestInfoMiddleware(basePath string) func(http.Handler) http.Handler {
	base := NormalizeBasePath(basePath)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			location := strings.TrimSpace(r.URL.Query().Get("path"))
			if location == "" {
				location = HTMXInfoFromContext(r.Context()).CurrentPath()
			}
			info := &RequestInfo{
				Path:     r.URL.Path,
				Method:   r.Method,
				BasePath: base,
				Location: location,
			}
			ctx := context.WithValue(r.Context(), requestInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestInfoFromContext returns the metadata stored by RequestInfoMiddleware.
func RequestInfoFromContext(ctx context.Context) (*RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey).(*RequestInfo)
	return info, ok && info != nil
}

// LocationFromContext returns the console location or "" when unavailable.
func LocationFromContext(ctx context.Context) string {
	if info, ok := RequestInfoFromContext(ctx); ok {
		return info.Location
	}
	return ""
}

// BasePathFromContext returns the API mount point or "/" when unavailable.
func BasePathFromContext(ctx context.Context) string {
	if info, ok := RequestInfoFromContext(ctx); ok && info.BasePath != "" {
		return info.BasePath
	}
	return "/"
}

// NormalizeBasePath returns base with a leading slash and no trailing slash.
// Empty input yields "/".
func NormalizeBasePath(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if base != "/" {
		base = strings.TrimRight(base, "/")
		if base == "" {
			return "/"
		}
	}
	return base
}
