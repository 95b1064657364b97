package navigation

import "strings"

// MarkActive returns a copy of nav in which only the entry whose href best
// matches path is active. An href matches when it equals path or is a prefix
// of it ending on a segment boundary; the longest matching href wins and ties
// go to the entry found first depth-first. Active flags already present in nav
// are cleared. nav itself is not modified.
func MarkActive(nav Navigation, path string) Navigation {
	current := NormalizeRoute(path)

	best, bestLen, ordinal := -1, -1, 0
	walk(nav.NavItems, func(item NavItem) {
		if href := hrefPath(item.Href); href != "" && Matches(href, current) && len(href) > bestLen {
			best, bestLen = ordinal, len(href)
		}
		ordinal++
	})

	ordinal = 0
	return Navigation{
		NavItems: mark(nav.NavItems, best, &ordinal),
		Legacy:   nav.Legacy,
	}
}

// Matches reports whether the route target covers current: an exact match, or
// a prefix ending on a "/" boundary. The root route only matches itself.
func Matches(target, current string) bool {
	target = NormalizeRoute(target)
	current = NormalizeRoute(current)
	if target == "/" {
		return current == "/"
	}
	if current == target {
		return true
	}
	return strings.HasPrefix(current, target+"/")
}

// NormalizeRoute cleans a request path for comparisons: leading slash, no
// duplicate or trailing slashes.
func NormalizeRoute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

// hrefPath strips the query and fragment of an href. External links never
// match a console path.
func hrefPath(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" || !strings.HasPrefix(href, "/") {
		return ""
	}
	return NormalizeRoute(href)
}

func walk(items []NavItem, visit func(NavItem)) {
	for _, item := range items {
		visit(item)
		walk(item.NavItems, visit)
		walk(item.Routes, visit)
	}
}

func mark(items []NavItem, target int, ordinal *int) []NavItem {
	if items == nil {
		return nil
	}
	out := make([]NavItem, len(items))
	for i, item := range items {
		item.Active = *ordinal == target
		*ordinal++
		item.NavItems = mark(item.NavItems, target, ordinal)
		item.Routes = mark(item.Routes, target, ordinal)
		out[i] = item
	}
	return out
}
