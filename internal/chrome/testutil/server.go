// Package testutil starts the chrome HTTP stack against fixture navigation for
// tests.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"finitefield.org/hanko-chrome/internal/chrome/breadcrumbs"
	"finitefield.org/hanko-chrome/internal/chrome/httpserver"
	"finitefield.org/hanko-chrome/internal/chrome/navigation"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
	"finitefield.org/hanko-chrome/internal/chrome/registry"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom mount point for the API routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithEnvironment sets the deployment environment label.
func WithEnvironment(env string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Environment = env
	}
}

// WithRegistry serves reg instead of FixtureRegistry.
func WithRegistry(reg *registry.Registry) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Registry = reg
	}
}

// FixtureRegistry returns a registry with an "insights" bundle using the
// wrapped navigation form and an "openshift" bundle using the bare list form.
func FixtureRegistry() *registry.Registry {
	reg := registry.New()
	reg.Replace([]registry.Bundle{{
		ID:    "insights",
		Title: "Red Hat Insights",
		Navigation: navigation.Wrap(
			navigation.NavItem{Title: "Dashboard", Href: "/insights/dashboard"},
			navigation.NavItem{Title: "Inventory", Routes: []navigation.NavItem{
				{Title: "Systems", Href: "/insights/inventory/systems"},
				{Title: "Groups", Href: "/insights/inventory/groups"},
			}},
			navigation.NavItem{GroupID: "security", Title: "Security", NavItems: []navigation.NavItem{
				{Title: "Vulnerability", Routes: []navigation.NavItem{
					{Title: "CVEs", Href: "/insights/vulnerability/cves"},
				}},
			}},
		),
	}, {
		ID:    "openshift",
		Title: "OpenShift",
		Navigation: navigation.List(
			navigation.NavItem{Title: "Clusters", Href: "/openshift/clusters"},
		),
	}}, []registry.Route{
		{Path: "/insights/dashboard", Module: "dashboard"},
		{Path: "/insights/inventory", Module: "inventory"},
		{Path: "/insights/vulnerability/cves", Module: "vulnerability"},
		{Path: "/openshift/clusters", Module: "ocm"},
	})
	return reg
}

// NewServer constructs an httptest server running the chrome HTTP stack with
// sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	gatherer := prometheus.NewRegistry()
	cfg := httpserver.Config{
		BasePath: "/",
		Logger:   zaptest.NewLogger(t),
		Gatherer: gatherer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Registry == nil {
		cfg.Registry = FixtureRegistry()
	}
	if cfg.Resolver == nil {
		svc := breadcrumbs.NewService(cfg.Registry,
			breadcrumbs.WithLogger(cfg.Logger),
			breadcrumbs.WithMetrics(observability.NewMetrics(gatherer)),
		)
		t.Cleanup(svc.Stop)
		cfg.Resolver = svc
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
