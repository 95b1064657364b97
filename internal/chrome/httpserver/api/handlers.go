// Package api serves breadcrumb trails, navigation trees and route matches as
// JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/hanko-chrome/internal/chrome/breadcrumbs"
	"finitefield.org/hanko-chrome/internal/chrome/httpserver/middleware"
	"finitefield.org/hanko-chrome/internal/chrome/httpx"
	"finitefield.org/hanko-chrome/internal/chrome/navigation"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
	"finitefield.org/hanko-chrome/internal/chrome/routes"
)

const maxBodyBytes = 1 << 20

// Resolver resolves trails against the live registry.
type Resolver interface {
	Trail(ctx context.Context, bundleID, path string) (breadcrumbs.Trail, error)
	Matcher() *routes.Matcher
}

// Dependencies wires the handlers to the registry and the trail resolver.
type Dependencies struct {
	Registry breadcrumbs.Source
	Resolver Resolver
}

// Handlers implements the chrome JSON API.
type Handlers struct {
	registry breadcrumbs.Source
	resolver Resolver
}

// NewHandlers constructs the API handlers.
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{registry: deps.Registry, resolver: deps.Resolver}
}

// Mount registers the API routes on r.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/breadcrumbs", h.Breadcrumbs)
	r.Post("/breadcrumbs", h.ComputeBreadcrumbs)
	r.Get("/bundles", h.Bundles)
	r.Get("/navigation/{bundle}", h.Navigation)
	r.Get("/routes/match", h.MatchRoute)
}

// Breadcrumbs resolves the trail for the requested location against the
// registry.
func (h *Handlers) Breadcrumbs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := middleware.LocationFromContext(ctx)
	if location == "" {
		httpx.WriteError(ctx, w, httpx.NewError("missing_path", "path query parameter or HX-Current-URL header is required", http.StatusBadRequest))
		return
	}

	trail, err := h.resolver.Trail(ctx, r.URL.Query().Get("bundle"), location)
	if err != nil {
		writeTrailError(ctx, w, location, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, trail)
}

type computeResponse struct {
	BundleID string                `json:"bundleId"`
	Segments []breadcrumbs.Segment `json:"segments"`
}

// ComputeBreadcrumbs computes a trail from the inputs in the request body
// without consulting the registry.
func (h *Handlers) ComputeBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in breadcrumbs.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "request body must be a JSON object: "+err.Error(), http.StatusBadRequest))
		return
	}
	in.BundleID = strings.TrimSpace(in.BundleID)
	if in.BundleID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("missing_bundle", "bundleId is required", http.StatusBadRequest))
		return
	}

	matcher, err := routes.NewMatcher(in.KnownRoutes)
	if err != nil {
		observability.FromContext(ctx).Warn("skipped unusable known routes", zap.Error(err))
	}
	httpx.WriteJSON(w, http.StatusOK, computeResponse{
		BundleID: in.BundleID,
		Segments: breadcrumbs.ComputeWith(in, matcher),
	})
}

type bundleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items int    `json:"items"`
}

type bundlesResponse struct {
	Revision uint64          `json:"revision"`
	Bundles  []bundleSummary `json:"bundles"`
}

// Bundles lists the registered bundles.
func (h *Handlers) Bundles(w http.ResponseWriter, r *http.Request) {
	snap := h.registry.Snapshot()
	resp := bundlesResponse{Revision: snap.Revision, Bundles: make([]bundleSummary, 0, len(snap.Bundles))}
	for _, id := range snap.BundleIDs() {
		b := snap.Bundles[id]
		resp.Bundles = append(resp.Bundles, bundleSummary{ID: b.ID, Title: b.Title, Items: len(b.Navigation.Items())})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type navigationResponse struct {
	BundleID   string                `json:"bundleId"`
	Title      string                `json:"title"`
	Revision   uint64                `json:"revision"`
	Navigation navigation.Navigation `json:"navigation"`
}

// Navigation returns a bundle's navigation tree. When a location is known the
// entry matching it is marked active.
func (h *Handlers) Navigation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "bundle")

	snap := h.registry.Snapshot()
	bundle, ok := snap.Bundle(id)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("bundle_not_found", "no navigation registered for bundle", http.StatusNotFound).
			WithDetails(map[string]any{"bundle": id}))
		return
	}

	nav := bundle.Navigation
	if location := middleware.LocationFromContext(ctx); location != "" {
		nav = navigation.MarkActive(nav, location)
	}
	httpx.WriteJSON(w, http.StatusOK, navigationResponse{
		BundleID:   bundle.ID,
		Title:      bundle.Title,
		Revision:   snap.Revision,
		Navigation: nav,
	})
}

type matchResponse struct {
	Path    string        `json:"path"`
	Matched bool          `json:"matched"`
	Match   *routes.Match `json:"match,omitempty"`
}

// MatchRoute reports which registered route covers the requested location.
func (h *Handlers) MatchRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := middleware.LocationFromContext(ctx)
	if location == "" {
		httpx.WriteError(ctx, w, httpx.NewError("missing_path", "path query parameter is required", http.StatusBadRequest))
		return
	}

	resp := matchResponse{Path: location}
	if match, ok := h.resolver.Matcher().Match(location); ok {
		resp.Matched = true
		resp.Match = &match
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func writeTrailError(ctx context.Context, w http.ResponseWriter, location string, err error) {
	details := map[string]any{"path": location}
	switch {
	case errors.Is(err, breadcrumbs.ErrInvalidPath):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_path", err.Error(), http.StatusBadRequest).WithDetails(details))
	case errors.Is(err, breadcrumbs.ErrBundleRequired):
		httpx.WriteError(ctx, w, httpx.NewError("missing_bundle", err.Error(), http.StatusBadRequest).WithDetails(details))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpx.WriteError(ctx, w, httpx.NewError("request_canceled", err.Error(), http.StatusServiceUnavailable))
	default:
		observability.FromContext(ctx).Error("resolve breadcrumbs", zap.String("path", location), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal", "failed to resolve breadcrumbs", http.StatusInternalServerError))
	}
}
