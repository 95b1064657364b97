package registry

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
)

// DefaultRoutesFile is the routes file looked up inside the navigation directory.
const DefaultRoutesFile = "routes.yaml"

var (
	// ErrDuplicateBundle is returned when two files register the same bundle id.
	ErrDuplicateBundle = errors.New("duplicate bundle")
	// ErrInvalidFile is returned for files that are neither a bundle nor a route list.
	ErrInvalidFile = errors.New("invalid navigation file")
)

// Loader reads bundle navigation files and the route table from disk. Bundle
// files are YAML or JSON, one bundle per file, either as
//
//	id: insights
//	title: Insights
//	navItems: [...]
//
// or as a bare item list, in which case the id is taken from the file name.
type Loader struct {
	Dir        string
	RoutesFile string
}

// titlePolicy strips any markup from registered titles.
var titlePolicy = bluemonday.StrictPolicy()

// NewLoader returns a loader for dir. An empty routesFile means
// DefaultRoutesFile inside dir.
func NewLoader(dir, routesFile string) *Loader {
	return &Loader{Dir: dir, RoutesFile: routesFile}
}

// RoutesPath returns the resolved path of the routes file.
func (l *Loader) RoutesPath() string {
	if strings.TrimSpace(l.RoutesFile) != "" {
		return l.RoutesFile
	}
	return filepath.Join(l.Dir, DefaultRoutesFile)
}

// Load reads every bundle file and the routes file. A missing routes file
// yields an empty route table.
func (l *Loader) Load() ([]Bundle, []Route, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read navigation dir: %w", err)
	}

	routesPath, _ := filepath.Abs(l.RoutesPath())
	seen := make(map[string]string, len(entries))
	var bundles []Bundle
	for _, entry := range entries {
		if entry.IsDir() || !IsNavigationFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.Dir, entry.Name())
		if abs, _ := filepath.Abs(path); abs == routesPath {
			continue
		}
		bundle, err := l.loadBundle(path)
		if err != nil {
			return nil, nil, err
		}
		if prev, dup := seen[bundle.ID]; dup {
			return nil, nil, fmt.Errorf("%w %q in %s and %s", ErrDuplicateBundle, bundle.ID, prev, entry.Name())
		}
		seen[bundle.ID] = entry.Name()
		bundles = append(bundles, bundle)
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].ID < bundles[j].ID })

	routes, err := l.loadRoutes()
	if err != nil {
		return nil, nil, err
	}
	return bundles, routes, nil
}

// LoadInto loads from disk and replaces the registry content.
func (l *Loader) LoadInto(r *Registry) (uint64, error) {
	bundles, routes, err := l.Load()
	if err != nil {
		return 0, err
	}
	return r.Replace(bundles, routes), nil
}

// IsNavigationFile reports whether name has an extension the loader reads.
func IsNavigationFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

type bundleFile struct {
	ID       string               `yaml:"id"`
	Title    string               `yaml:"title"`
	NavItems []navigation.NavItem `yaml:"navItems"`
}

func (l *Loader) loadBundle(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return Bundle{}, fmt.Errorf("%w %s: %v", ErrInvalidFile, filepath.Base(path), err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var bundle Bundle
	switch doc.Kind {
	case yaml.SequenceNode:
		var items []navigation.NavItem
		if err := doc.Decode(&items); err != nil {
			return Bundle{}, fmt.Errorf("%w %s: %v", ErrInvalidFile, filepath.Base(path), err)
		}
		bundle = Bundle{ID: name, Navigation: navigation.List(items...)}
	case yaml.MappingNode:
		var file bundleFile
		if err := doc.Decode(&file); err != nil {
			return Bundle{}, fmt.Errorf("%w %s: %v", ErrInvalidFile, filepath.Base(path), err)
		}
		bundle = Bundle{ID: strings.TrimSpace(file.ID), Title: file.Title, Navigation: navigation.Wrap(file.NavItems...)}
	default:
		return Bundle{}, fmt.Errorf("%w %s: expected a mapping or a list", ErrInvalidFile, filepath.Base(path))
	}

	if bundle.ID == "" {
		bundle.ID = name
	}
	bundle.Title = sanitizeTitle(bundle.Title)
	if bundle.Title == "" {
		bundle.Title = bundle.ID
	}
	bundle.Navigation.NavItems = sanitizeItems(bundle.Navigation.NavItems)
	return bundle, nil
}

func (l *Loader) loadRoutes() ([]Route, error) {
	path := l.RoutesPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidFile, filepath.Base(path), err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}

	var routes []Route
	if err := doc.Decode(&routes); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidFile, filepath.Base(path), err)
	}
	out := routes[:0]
	for _, r := range routes {
		if r.Path = strings.TrimSpace(r.Path); r.Path != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// UnmarshalYAML accepts a plain path string as well as a mapping.
func (r *Route) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = Route{Path: value.Value}
		return nil
	}
	type plain Route
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Route(p)
	return nil
}

func parseDocument(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0], nil
	}
	return &root, nil
}

func sanitizeTitle(text string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(text)))
}

func sanitizeItems(items []navigation.NavItem) []navigation.NavItem {
	for i := range items {
		items[i].Title = sanitizeTitle(items[i].Title)
		items[i].NavItems = sanitizeItems(items[i].NavItems)
		items[i].Routes = sanitizeItems(items[i].Routes)
	}
	return items
}
