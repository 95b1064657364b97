package registry

import (
	"sort"
	"sync"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
)

// Bundle is a top-level product area with its own navigation tree.
type Bundle struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Navigation navigation.Navigation `json:"navigation"`
}

// Route is a concrete application route registered by a module.
type Route struct {
	Path   string `json:"path" yaml:"path"`
	Module string `json:"module,omitempty" yaml:"module,omitempty"`
}

// Snapshot is an immutable view of the registry. Callers must not modify the
// maps or slices it holds.
type Snapshot struct {
	Revision uint64
	Bundles  map[string]Bundle
	Routes   []Route
}

// Bundle returns the bundle registered under id.
func (s Snapshot) Bundle(id string) (Bundle, bool) {
	b, ok := s.Bundles[id]
	return b, ok
}

// BundleIDs returns the registered bundle ids in sorted order.
func (s Snapshot) BundleIDs() []string {
	ids := make([]string, 0, len(s.Bundles))
	for id := range s.Bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoutePaths returns the concrete route paths in registration order.
func (s Snapshot) RoutePaths() []string {
	paths := make([]string, 0, len(s.Routes))
	for _, r := range s.Routes {
		paths = append(paths, r.Path)
	}
	return paths
}

// NavigationByBundle returns the navigation trees keyed by bundle id.
func (s Snapshot) NavigationByBundle() map[string]navigation.Navigation {
	out := make(map[string]navigation.Navigation, len(s.Bundles))
	for id, b := range s.Bundles {
		out[id] = b.Navigation
	}
	return out
}

// Registry holds the navigation trees and route table served by the chrome.
// Every change produces a new Snapshot with a higher revision; snapshots
// already handed out are never modified.
type Registry struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New returns an empty registry at revision 0.
func New() *Registry {
	return &Registry{snap: Snapshot{Bundles: map[string]Bundle{}}}
}

// Snapshot returns the current view.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Revision returns the current revision.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Revision
}

// Replace swaps the whole content and returns the new revision.
func (r *Registry) Replace(bundles []Bundle, routes []Route) uint64 {
	next := make(map[string]Bundle, len(bundles))
	for _, b := range bundles {
		next[b.ID] = b
	}
	routesCopy := append([]Route(nil), routes...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = Snapshot{Revision: r.snap.Revision + 1, Bundles: next, Routes: routesCopy}
	return r.snap.Revision
}

// PutBundle registers or replaces a single bundle and returns the new revision.
func (r *Registry) PutBundle(b Bundle) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string]Bundle, len(r.snap.Bundles)+1)
	for id, existing := range r.snap.Bundles {
		next[id] = existing
	}
	next[b.ID] = b
	r.snap = Snapshot{Revision: r.snap.Revision + 1, Bundles: next, Routes: r.snap.Routes}
	return r.snap.Revision
}

// SetRoutes replaces the route table and returns the new revision.
func (r *Registry) SetRoutes(routes []Route) uint64 {
	routesCopy := append([]Route(nil), routes...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = Snapshot{Revision: r.snap.Revision + 1, Bundles: r.snap.Bundles, Routes: routesCopy}
	return r.snap.Revision
}
