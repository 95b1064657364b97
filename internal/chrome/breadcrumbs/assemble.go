// Package breadcrumbs turns a bundle navigation tree, the registered routes and
// the current location into the trail shown above console pages.
package breadcrumbs

import (
	"strings"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
	"finitefield.org/hanko-chrome/internal/chrome/routes"
)

// Segment is one link of a trail.
type Segment struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Input carries everything a trail is computed from. CurrentPath does not
// take part in the computation; it identifies the location the navigation
// flags were set for and keys memoised results.
type Input struct {
	BundleID    string                           `json:"bundleId"`
	BundleTitle string                           `json:"bundleTitle"`
	Navigation  map[string]navigation.Navigation `json:"navigation"`
	KnownRoutes []string                         `json:"knownRoutes"`
	CurrentPath string                           `json:"currentPath"`
}

// Compute builds the trail for in. It compiles a route matcher from
// in.KnownRoutes; use ComputeWith to reuse one across calls.
func Compute(in Input) []Segment {
	matcher, _ := routes.NewMatcher(in.KnownRoutes)
	return ComputeWith(in, matcher)
}

// ComputeWith builds the trail for in using matcher in place of
// in.KnownRoutes.
//
// The trail starts with the bundle root. When the bundle has navigation and an
// active leaf, the expandable ancestors of that leaf follow, then the leaf
// itself. Ancestors have no href of their own; theirs is rebuilt from the
// route that matches the leaf. Every missing piece degrades the result
// instead of failing: no navigation or no active leaf yields the root alone,
// and no matching route points every ancestor at the bundle root.
func ComputeWith(in Input, matcher *routes.Matcher) []Segment {
	root := "/" + in.BundleID
	segments := []Segment{{Title: in.BundleTitle, Href: root}}

	nav, ok := in.Navigation[in.BundleID]
	if !ok {
		return segments
	}
	leaf, ok := navigation.FindActiveLeaf(navigation.Flatten(nav))
	if !ok {
		return segments
	}

	var fragments []string
	if match, ok := matcher.Match(leaf.Item.Href); ok {
		fragments = strings.Split(match.PathnameBase, "/")
	}
	for index, ancestor := range leaf.Ancestors {
		segments = append(segments, Segment{
			Title: ancestor.Title,
			Href:  ancestorHref(fragments, index, root),
		})
	}
	return append(segments, Segment{Title: leaf.Item.Title, Href: leaf.Item.Href})
}

// ancestorHref keeps index+3 fragments of the matched base: the empty
// fragment before the leading slash, the bundle, and one fragment per level
// down to and including the ancestor. An empty result falls back to root.
func ancestorHref(fragments []string, index int, root string) string {
	end := min(index+3, len(fragments))
	if href := strings.Join(fragments[:end], "/"); href != "" {
		return href
	}
	return root
}
