package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
)

const insightsYAML = `
id: insights
title: "Red Hat <b>Insights</b>"
navItems:
  - title: Inventory
    routes:
      - title: Systems
        href: /insights/inventory/systems
  - groupId: g1
    navItems:
      - title: "Cost & Usage"
        href: /insights/cost
`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoaderReadsBundlesAndRoutes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "insights.yaml", insightsYAML)
	writeFile(t, dir, "openshift.json", `[{"title":"Clusters","href":"/openshift/clusters"}]`)
	writeFile(t, dir, "routes.yaml", `
- /insights/inventory/systems
- path: /openshift/clusters
  module: ocm
- "  "
`)
	writeFile(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	bundles, routes, err := NewLoader(dir, "").Load()
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	insights := bundles[0]
	require.Equal(t, "insights", insights.ID)
	require.Equal(t, "Red Hat Insights", insights.Title, "markup is stripped from titles")
	require.False(t, insights.Navigation.Legacy)
	require.Equal(t, navigation.KindExpandable, insights.Navigation.Items()[0].Kind())
	require.Equal(t, "Cost & Usage", insights.Navigation.Items()[1].NavItems[0].Title, "entities are not escaped")

	openshift := bundles[1]
	require.Equal(t, "openshift", openshift.ID, "bare lists take their id from the file name")
	require.Equal(t, "openshift", openshift.Title)
	require.True(t, openshift.Navigation.Legacy)

	require.Equal(t, []Route{
		{Path: "/insights/inventory/systems"},
		{Path: "/openshift/clusters", Module: "ocm"},
	}, routes)
}

func TestLoaderWithoutRoutesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "insights.yml", insightsYAML)

	r := New()
	rev, err := NewLoader(dir, "").LoadInto(r)
	require.NoError(t, err)
	require.Equal(t, uint64(1), rev)
	require.Empty(t, r.Snapshot().Routes)
	require.Equal(t, []string{"insights"}, r.Snapshot().BundleIDs())
}

func TestLoaderExternalRoutesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	other := t.TempDir()
	writeFile(t, dir, "insights.yaml", insightsYAML)
	writeFile(t, other, "modules.json", `["/insights"]`)

	loader := NewLoader(dir, filepath.Join(other, "modules.json"))
	_, routes, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, []Route{{Path: "/insights"}}, routes)
}

func TestLoaderErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate bundle", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "id: insights\nnavItems: []\n")
		writeFile(t, dir, "b.yaml", "id: insights\nnavItems: []\n")
		_, _, err := NewLoader(dir, "").Load()
		require.True(t, errors.Is(err, ErrDuplicateBundle), "got %v", err)
	})

	t.Run("scalar document", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "just text\n")
		_, _, err := NewLoader(dir, "").Load()
		require.True(t, errors.Is(err, ErrInvalidFile), "got %v", err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "navItems: [\n")
		_, _, err := NewLoader(dir, "").Load()
		require.True(t, errors.Is(err, ErrInvalidFile), "got %v", err)
	})

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()
		_, _, err := NewLoader(filepath.Join(t.TempDir(), "absent"), "").Load()
		require.Error(t, err)
	})

	t.Run("failed load keeps registry", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "navItems: [\n")
		r := New()
		r.PutBundle(Bundle{ID: "kept"})
		_, err := NewLoader(dir, "").LoadInto(r)
		require.Error(t, err)
		require.Equal(t, []string{"kept"}, r.Snapshot().BundleIDs())
	})
}
