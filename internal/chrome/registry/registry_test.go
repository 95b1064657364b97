package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistryRevisions(t *testing.T) {
	t.Parallel()

	r := New()
	require.Equal(t, uint64(0), r.Revision())
	require.Empty(t, r.Snapshot().Bundles)

	rev := r.Replace([]Bundle{
		{ID: "insights", Title: "Insights", Navigation: navigation.Wrap(navigation.NavItem{Title: "A", Href: "/insights/a"})},
	}, []Route{{Path: "/insights/a"}})
	require.Equal(t, uint64(1), rev)

	before := r.Snapshot()
	rev = r.PutBundle(Bundle{ID: "openshift", Title: "OpenShift"})
	require.Equal(t, uint64(2), rev)
	require.Len(t, before.Bundles, 1, "earlier snapshots are not modified")
	require.Equal(t, []string{"insights", "openshift"}, r.Snapshot().BundleIDs())

	rev = r.SetRoutes([]Route{{Path: "/openshift"}, {Path: "/insights"}})
	require.Equal(t, uint64(3), rev)
	require.Equal(t, []string{"/openshift", "/insights"}, r.Snapshot().RoutePaths())
	require.Equal(t, []string{"/insights/a"}, before.RoutePaths())

	b, ok := r.Snapshot().Bundle("insights")
	require.True(t, ok)
	require.Equal(t, "Insights", b.Title)
	_, ok = r.Snapshot().Bundle("missing")
	require.False(t, ok)

	navs := r.Snapshot().NavigationByBundle()
	require.Len(t, navs, 2)
	require.Len(t, navs["insights"].Items(), 1)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.PutBundle(Bundle{ID: "insights"})
		}()
		go func() {
			defer wg.Done()
			_ = r.Snapshot().NavigationByBundle()
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(8), r.Revision())
}
