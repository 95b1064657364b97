package navigation

import "fmt"

// Stats summarises a navigation tree.
type Stats struct {
	Items      int
	Groups     int
	Expandable int
	Leaves     int
	Active     int
	Depth      int
}

// Issue describes a tree that breaks the shape the resolver relies on.
type Issue struct {
	Title   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%q: %s", i.Title, i.Message)
}

// Inspect counts the entries of nav and reports shape problems: entries that
// are both a group and expandable, leaves without an href, groups nested below
// the first level, and more than one active entry.
func Inspect(nav Navigation) (Stats, []Issue) {
	var (
		stats  Stats
		issues []Issue
	)
	var visit func(items []NavItem, depth int)
	visit = func(items []NavItem, depth int) {
		if len(items) == 0 {
			return
		}
		if depth > stats.Depth {
			stats.Depth = depth
		}
		for _, item := range items {
			stats.Items++
			if item.Active {
				stats.Active++
			}
			switch item.Kind() {
			case KindGroup:
				stats.Groups++
				if item.IsExpandable() {
					issues = append(issues, Issue{Title: item.Title, Message: "has both groupId and routes"})
				}
				if depth > 1 {
					issues = append(issues, Issue{Title: item.Title, Message: "group below the first level is never expanded"})
				}
			case KindExpandable:
				stats.Expandable++
			default:
				stats.Leaves++
				if item.Href == "" {
					issues = append(issues, Issue{Title: item.Title, Message: "leaf without href"})
				}
			}
			visit(item.NavItems, depth+1)
			visit(item.Routes, depth+1)
		}
	}
	visit(nav.NavItems, 1)

	if stats.Active > 1 {
		issues = append(issues, Issue{Message: fmt.Sprintf("%d entries marked active; the first depth-first wins", stats.Active)})
	}
	return stats, issues
}
