package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func activeTitles(nav Navigation) []string {
	var out []string
	walk(nav.NavItems, func(item NavItem) {
		if item.Active {
			out = append(out, item.Title)
		}
	})
	return out
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target, current string
		want            bool
	}{
		{"/insights/inventory", "/insights/inventory", true},
		{"/insights/inventory", "/insights/inventory/", true},
		{"/insights/inventory", "/insights/inventory/systems", true},
		{"/insights/inventory", "/insights/inventory-ng", false},
		{"/insights//inventory/", "/insights/inventory", true},
		{"/", "/", true},
		{"/", "/insights", false},
		{"insights", "/insights/x", true},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Matches(tc.target, tc.current), "%s vs %s", tc.target, tc.current)
	}
}

func TestMarkActivePicksMostSpecificHref(t *testing.T) {
	t.Parallel()

	nav := Wrap(
		NavItem{Title: "Overview", Href: "/insights", Active: true},
		NavItem{GroupID: "g", NavItems: []NavItem{
			{Title: "Inventory", Href: "/insights/inventory", Routes: []NavItem{
				{Title: "Systems", Href: "/insights/inventory/systems"},
				{Title: "Groups", Href: "/insights/inventory/groups?tab=all"},
			}},
		}},
	)

	marked := MarkActive(nav, "/insights/inventory/systems/42")
	require.Equal(t, []string{"Systems"}, activeTitles(marked))
	require.Equal(t, []string{"Overview"}, activeTitles(nav), "input must not be modified")

	marked = MarkActive(nav, "/insights/inventory/groups")
	require.Equal(t, []string{"Groups"}, activeTitles(marked), "query strings are ignored")

	marked = MarkActive(nav, "/other")
	require.Empty(t, activeTitles(marked), "stale flags are cleared")
	require.False(t, marked.Legacy)
}

func TestMarkActiveTieGoesToFirstEntry(t *testing.T) {
	t.Parallel()

	nav := List(
		NavItem{Title: "First", Href: "/a/b"},
		NavItem{Title: "Second", Href: "/a/b/"},
		NavItem{Title: "External", Href: "https://example.com/a/b"},
	)
	marked := MarkActive(nav, "/a/b")
	require.Equal(t, []string{"First"}, activeTitles(marked))
	require.True(t, marked.Legacy)
}

func TestMarkActiveFeedsResolver(t *testing.T) {
	t.Parallel()

	nav := Wrap(NavItem{Title: "Inventory", Routes: []NavItem{
		{Title: "Systems", Href: "/insights/inventory/systems"},
	}})
	leaf, ok := FindActiveLeaf(Flatten(MarkActive(nav, "/insights/inventory/systems")))
	require.True(t, ok)
	require.Equal(t, "Systems", leaf.Item.Title)
	require.Equal(t, []string{"Inventory"}, titles(leaf.Ancestors))
}

func TestInspect(t *testing.T) {
	t.Parallel()

	nav := Wrap(
		NavItem{Title: "A", Href: "/a", Active: true},
		NavItem{GroupID: "g", NavItems: []NavItem{{Title: "B", Active: true}}},
		NavItem{Title: "E", Routes: []NavItem{{Title: "C", Href: "/e/c"}}},
	)
	stats, issues := Inspect(nav)
	require.Equal(t, Stats{Items: 5, Groups: 1, Expandable: 1, Leaves: 3, Active: 2, Depth: 2}, stats)
	require.Len(t, issues, 2)
	require.Equal(t, "leaf without href", issues[0].Message)
	require.Contains(t, issues[1].String(), "2 entries marked active")
}
