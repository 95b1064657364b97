package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ErrInvalidPattern is returned for route paths the router cannot register.
var ErrInvalidPattern = errors.New("invalid route pattern")

// Match is the outcome of matching a path against the registered patterns.
type Match struct {
	// Pattern is the wildcard pattern that matched, in the form it was given.
	Pattern string `json:"pattern"`
	// PathnameBase is the concrete prefix of the path consumed by Pattern.
	PathnameBase string `json:"pathnameBase"`
}

// Matcher ranks wildcard route patterns against concrete paths. Ranking is
// delegated to chi's radix tree, so static segments win over parameters, and
// parameters over the trailing wildcard. A Matcher is safe for concurrent use
// once built.
type Matcher struct {
	mux      *chi.Mux
	patterns map[string]string
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// NewMatcher registers the wildcard form of every known route. Routes the
// router rejects are skipped and reported through the returned error; the
// Matcher is usable either way.
func NewMatcher(known []string) (*Matcher, error) {
	m := &Matcher{
		mux:      chi.NewMux(),
		patterns: make(map[string]string, len(known)),
	}
	var errs []error
	for _, route := range known {
		original := Wildcard(route)
		pattern := Wildcard(toChiPattern(route))
		if _, seen := m.patterns[pattern]; seen {
			continue
		}
		if err := m.register(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w %q: %v", ErrInvalidPattern, route, err))
			continue
		}
		m.patterns[pattern] = original
	}
	return m, errors.Join(errs...)
}

// MatchBase matches path against patterns that already carry the wildcard
// suffix. Patterns the router rejects are ignored.
func MatchBase(patterns []string, path string) (Match, bool) {
	m, _ := NewMatcher(patterns)
	return m.Match(path)
}

// Len returns the number of registered patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match returns the best pattern for path and the prefix of path it consumed.
func (m *Matcher) Match(path string) (Match, bool) {
	if m.Len() == 0 {
		return Match{}, false
	}

	// A trailing slash lets "/a/*" match "/a" itself, as the pattern promises.
	probe := cleanPath(path)
	if !strings.HasSuffix(probe, "/") {
		probe += "/"
	}

	rctx := chi.NewRouteContext()
	pattern := m.mux.Find(rctx, http.MethodGet, probe)
	if pattern == "" {
		return Match{}, false
	}
	rest := rctx.URLParam("*")

	base := strings.TrimRight(strings.TrimSuffix(probe, rest), "/")
	if base == "" {
		base = "/"
	}
	original, ok := m.patterns[pattern]
	if !ok {
		original = pattern
	}
	return Match{Pattern: original, PathnameBase: base}, true
}

func (m *Matcher) register(pattern string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	m.mux.Get(pattern, noop)
	return nil
}

// Wildcard appends the "/*" suffix to a concrete route path. It is idempotent.
func Wildcard(path string) string {
	p := strings.TrimSpace(path)
	p = strings.TrimSuffix(p, "*")
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p + "/*"
}

// toChiPattern rewrites ":name" parameters into chi's "{name}" form.
func toChiPattern(route string) string {
	parts := strings.Split(strings.TrimSpace(route), "/")
	for i, part := range parts {
		if len(part) > 1 && strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}
