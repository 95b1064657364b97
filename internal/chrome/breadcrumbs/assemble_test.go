package breadcrumbs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
)

func requireTrail(t *testing.T, want, got []Segment) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeUnknownBundle(t *testing.T) {
	t.Parallel()

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation:  map[string]navigation.Navigation{"openshift": navigation.Wrap()},
		CurrentPath: "/insights",
	})
	requireTrail(t, []Segment{{Title: "Insights", Href: "/insights"}}, got)

	got = Compute(Input{BundleID: "insights", BundleTitle: "Insights"})
	requireTrail(t, []Segment{{Title: "Insights", Href: "/insights"}}, got)
}

func TestComputeNestedLeaf(t *testing.T) {
	t.Parallel()

	in := Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation: map[string]navigation.Navigation{
			"insights": navigation.Wrap(navigation.NavItem{
				Title: "Inventory",
				Routes: []navigation.NavItem{
					{Title: "Systems", Href: "/insights/inventory/systems", Active: true},
				},
			}),
		},
		KnownRoutes: []string{"/insights/inventory/systems"},
		CurrentPath: "/insights/inventory/systems",
	}

	want := []Segment{
		{Title: "Insights", Href: "/insights"},
		{Title: "Inventory", Href: "/insights/inventory"},
		{Title: "Systems", Href: "/insights/inventory/systems"},
	}
	requireTrail(t, want, Compute(in))
	requireTrail(t, Compute(in), Compute(in))
}

func TestComputeGroupAtTopLevel(t *testing.T) {
	t.Parallel()

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation: map[string]navigation.Navigation{
			"insights": navigation.Wrap(navigation.NavItem{
				GroupID:  "g1",
				NavItems: []navigation.NavItem{{Title: "A", Href: "/insights/a", Active: true}},
			}),
		},
	})
	requireTrail(t, []Segment{
		{Title: "Insights", Href: "/insights"},
		{Title: "A", Href: "/insights/a"},
	}, got)
}

func TestComputeNoActiveLeaf(t *testing.T) {
	t.Parallel()

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation: map[string]navigation.Navigation{
			"insights": navigation.List(navigation.NavItem{Title: "A", Href: "/insights/a"}),
		},
		KnownRoutes: []string{"/insights/a"},
	})
	requireTrail(t, []Segment{{Title: "Insights", Href: "/insights"}}, got)
}

func TestComputeWithoutMatchingRouteFallsBackToRoot(t *testing.T) {
	t.Parallel()

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation: map[string]navigation.Navigation{
			"insights": navigation.Wrap(navigation.NavItem{
				Title: "Inventory",
				Routes: []navigation.NavItem{{
					Title:  "Hosts",
					Routes: []navigation.NavItem{{Title: "Systems", Href: "/insights/inventory/hosts/systems", Active: true}},
				}},
			}),
		},
		KnownRoutes: []string{"/openshift"},
	})
	requireTrail(t, []Segment{
		{Title: "Insights", Href: "/insights"},
		{Title: "Inventory", Href: "/insights"},
		{Title: "Hosts", Href: "/insights"},
		{Title: "Systems", Href: "/insights/inventory/hosts/systems"},
	}, got)
}

func TestComputeDeepTreeUsesMatchedBase(t *testing.T) {
	t.Parallel()

	nav := navigation.Wrap(navigation.NavItem{
		Title: "Inventory",
		Routes: []navigation.NavItem{{
			Title:  "Hosts",
			Routes: []navigation.NavItem{{Title: "Systems", Href: "/insights/inventory/hosts/systems", Active: true}},
		}},
	})

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation:  map[string]navigation.Navigation{"insights": nav},
		KnownRoutes: []string{"/insights/inventory/hosts/systems"},
	})
	requireTrail(t, []Segment{
		{Title: "Insights", Href: "/insights"},
		{Title: "Inventory", Href: "/insights/inventory"},
		{Title: "Hosts", Href: "/insights/inventory/hosts"},
		{Title: "Systems", Href: "/insights/inventory/hosts/systems"},
	}, got)

	// A shorter matched base clamps deeper ancestors to the whole base.
	got = Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation:  map[string]navigation.Navigation{"insights": nav},
		KnownRoutes: []string{"/insights/inventory"},
	})
	requireTrail(t, []Segment{
		{Title: "Insights", Href: "/insights"},
		{Title: "Inventory", Href: "/insights/inventory"},
		{Title: "Hosts", Href: "/insights/inventory"},
		{Title: "Systems", Href: "/insights/inventory/hosts/systems"},
	}, got)
}

func TestComputeFirstActiveWins(t *testing.T) {
	t.Parallel()

	got := Compute(Input{
		BundleID:    "insights",
		BundleTitle: "Insights",
		Navigation: map[string]navigation.Navigation{
			"insights": navigation.Wrap(
				navigation.NavItem{Title: "Advisor", Routes: []navigation.NavItem{
					{Title: "Recommendations", Href: "/insights/advisor/recommendations", Active: true},
				}},
				navigation.NavItem{Title: "Systems", Href: "/insights/inventory", Active: true},
			),
		},
		KnownRoutes: []string{"/insights/advisor/recommendations", "/insights/inventory"},
	})
	require.Len(t, got, 3)
	require.Equal(t, Segment{Title: "Recommendations", Href: "/insights/advisor/recommendations"}, got[2])
	require.Equal(t, "/insights/advisor", got[1].Href)
}

func TestAncestorHref(t *testing.T) {
	t.Parallel()

	fragments := []string{"", "insights", "inventory", "systems"}
	require.Equal(t, "/insights/inventory", ancestorHref(fragments, 0, "/insights"))
	require.Equal(t, "/insights/inventory/systems", ancestorHref(fragments, 1, "/insights"))
	require.Equal(t, "/insights/inventory/systems", ancestorHref(fragments, 5, "/insights"))
	require.Equal(t, "/insights", ancestorHref(nil, 0, "/insights"))
	require.Equal(t, "/", ancestorHref([]string{"", ""}, 0, "/insights"), "root match keeps the bare slash")
}
