package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Address)
	require.Equal(t, "/", cfg.Server.BasePath)
	require.Equal(t, "Development", cfg.Server.Environment)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, time.Minute, cfg.Server.IdleTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "./navigation", cfg.Navigation.Dir)
	require.True(t, cfg.Navigation.Watch)
	require.Equal(t, int64(1024), cfg.Cache.MaxSize)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chrome.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  address: ":9090"
  base_path: /console
navigation:
  dir: /srv/navigation
  watch: false
cache:
  ttl: 30s
`), 0o644))
	t.Setenv("CHROME_LOG_LEVEL", "debug")
	t.Setenv("CHROME_SERVER_ADDRESS", ":7070")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Server.Address, "environment wins over the file")
	require.Equal(t, "/console", cfg.Server.BasePath)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/srv/navigation", cfg.Navigation.Dir)
	require.False(t, cfg.Navigation.Watch)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "chrome.yaml")
		require.NoError(t, os.WriteFile(file, []byte("cache:\n  max_size: 0\nnavigation:\n  dir: \"\"\n"), 0o644))
		_, err := Load(viper.New(), file)
		require.ErrorContains(t, err, "cache.max_size")
		require.ErrorContains(t, err, "navigation.dir")
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
