package breadcrumbs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v2"
	"go.uber.org/zap"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
	"finitefield.org/hanko-chrome/internal/chrome/registry"
	"finitefield.org/hanko-chrome/internal/chrome/routes"
)

var (
	// ErrInvalidPath is returned for paths that are empty or not absolute.
	ErrInvalidPath = errors.New("breadcrumbs: path must be absolute")
	// ErrBundleRequired is returned when no bundle is given and none can be
	// derived from the path.
	ErrBundleRequired = errors.New("breadcrumbs: bundle is required")
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// Source provides the navigation registry the service resolves against.
type Source interface {
	Snapshot() registry.Snapshot
}

var _ Source = (*registry.Registry)(nil)

// Trail is a resolved breadcrumb trail.
type Trail struct {
	BundleID string    `json:"bundleId"`
	Path     string    `json:"path"`
	Revision uint64    `json:"revision"`
	Segments []Segment `json:"segments"`
}

// Service resolves trails for console locations against the registry. Results
// are memoised per registry revision, so a reload never serves stale trails.
type Service struct {
	source  Source
	cache   *ccache.Cache
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger

	mu         sync.Mutex
	matcher    *routes.Matcher
	matcherRev uint64
	compiled   bool
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the memo size and entry lifetime. Non-positive values keep
// the defaults.
func WithCache(maxSize int64, ttl time.Duration) Option {
	return func(s *Service) {
		if maxSize > 0 {
			s.cache = newCache(maxSize)
		}
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMetrics records resolution outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger used when no request logger is on the context.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a Service reading from source.
func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cache == nil {
		s.cache = newCache(defaultCacheSize)
	}
	s.logger = observability.OrNop(s.logger)
	return s
}

func newCache(maxSize int64) *ccache.Cache {
	prune := uint32(maxSize >> 3)
	if prune == 0 {
		prune = 1
	}
	return ccache.New(ccache.Configure().MaxSize(maxSize).ItemsToPrune(prune))
}

// Stop releases the memo's background worker.
func (s *Service) Stop() {
	s.cache.Stop()
}

// Trail resolves the trail for path within bundleID. An empty bundleID is
// taken from the first path segment. The bundle title falls back to its id
// when the bundle is unknown or untitled.
func (s *Service) Trail(ctx context.Context, bundleID, path string) (Trail, error) {
	if err := ctx.Err(); err != nil {
		return Trail{}, err
	}
	path, err := cleanPath(path)
	if err != nil {
		return Trail{}, err
	}
	bundleID = strings.TrimSpace(bundleID)
	if bundleID == "" {
		bundleID = BundleFromPath(path)
	}
	if bundleID == "" {
		return Trail{}, ErrBundleRequired
	}

	logger := observability.FromContextOr(ctx, s.logger)

	snap := s.source.Snapshot()
	key := fmt.Sprintf("%d|%s|%s", snap.Revision, bundleID, path)
	if item := s.cache.Get(key); item != nil && !item.Expired() {
		s.metrics.ObserveResolution(observability.OutcomeCached)
		return cloneTrail(item.Value().(Trail)), nil
	}

	title := bundleID
	navs := map[string]navigation.Navigation{}
	if bundle, ok := snap.Bundle(bundleID); ok {
		if bundle.Title != "" {
			title = bundle.Title
		}
		navs[bundleID] = navigation.MarkActive(bundle.Navigation, path)
	}

	segments := ComputeWith(Input{
		BundleID:    bundleID,
		BundleTitle: title,
		Navigation:  navs,
		CurrentPath: path,
	}, s.matcherFor(snap, logger))

	outcome := observability.OutcomeResolved
	if len(segments) == 1 {
		outcome = observability.OutcomeRootOnly
	}
	s.metrics.ObserveResolution(outcome)
	logger.Debug("breadcrumb trail resolved",
		zap.String("bundle", bundleID),
		zap.String("path", path),
		zap.Uint64("revision", snap.Revision),
		zap.String("outcome", outcome),
		zap.Int("segments", len(segments)),
	)

	trail := Trail{BundleID: bundleID, Path: path, Revision: snap.Revision, Segments: segments}
	s.cache.Set(key, cloneTrail(trail), s.ttl)
	return trail, nil
}

// Matcher returns the route matcher for the current registry revision.
func (s *Service) Matcher() *routes.Matcher {
	return s.matcherFor(s.source.Snapshot(), s.logger)
}

func (s *Service) matcherFor(snap registry.Snapshot, logger *zap.Logger) *routes.Matcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.compiled && s.matcherRev == snap.Revision {
		return s.matcher
	}
	matcher, err := routes.NewMatcher(snap.RoutePaths())
	if err != nil {
		logger.Warn("skipped unusable routes", zap.Uint64("revision", snap.Revision), zap.Error(err))
	}
	s.matcher, s.matcherRev, s.compiled = matcher, snap.Revision, true
	return matcher
}

// BundleFromPath returns the first segment of path, which names the bundle in
// console URLs.
func BundleFromPath(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func cleanPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return navigation.NormalizeRoute(path), nil
}

func cloneTrail(t Trail) Trail {
	t.Segments = slices.Clone(t.Segments)
	return t
}
