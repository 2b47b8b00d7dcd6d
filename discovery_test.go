// FILE: lixenwraith/envconfig/discovery_test.go
package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDiscoverFile tests snapshot file search order
func TestDiscoverFile(t *testing.T) {
	t.Run("ExplicitPath", func(t *testing.T) {
		opts := DefaultDiscoveryOptions("svc")
		env := FromMap(map[string]string{"SVC_CONFIG": "/explicit/svc.toml"})
		assert.Equal(t, "/explicit/svc.toml", DiscoverFile(opts, env))
	})

	t.Run("CustomPathsFirst", func(t *testing.T) {
		custom := t.TempDir()
		xdg := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(custom, "svc.yaml"), []byte("a: 1"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "svc"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "svc", "svc.toml"), []byte("a = 1"), 0644))

		opts := FileDiscoveryOptions{
			Name:       "svc",
			Extensions: []string{".toml", ".yaml"},
			Paths:      []string{custom},
			UseXDG:     true,
		}
		env := FromMap(map[string]string{"XDG_CONFIG_HOME": xdg})
		assert.Equal(t, filepath.Join(custom, "svc.yaml"), DiscoverFile(opts, env))

		opts.Paths = nil
		assert.Equal(t, filepath.Join(xdg, "svc", "svc.toml"), DiscoverFile(opts, env))
	})

	t.Run("ExtensionOrder", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.json"), []byte("{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.yml"), []byte("a: 1"), 0644))

		opts := DefaultDiscoveryOptions("svc")
		opts.Paths = []string{dir}
		opts.UseCurrentDir = false
		opts.UseXDG = false
		assert.Equal(t, filepath.Join(dir, "svc.json"), DiscoverFile(opts, Snapshot{}))
	})

	t.Run("NothingFound", func(t *testing.T) {
		opts := FileDiscoveryOptions{
			Name:       "svc",
			Extensions: []string{".toml"},
			Paths:      []string{t.TempDir()},
		}
		assert.Empty(t, DiscoverFile(opts, Snapshot{}))
	})

	t.Run("XDGDefaults", func(t *testing.T) {
		paths := xdgConfigPaths("svc", FromMap(map[string]string{"HOME": "/home/u"}))
		assert.Equal(t, []string{"/home/u/.config/svc", "/etc/xdg/svc", "/etc/svc"}, paths)

		paths = xdgConfigPaths("svc", FromMap(map[string]string{
			"XDG_CONFIG_HOME": "/cfg",
			"XDG_CONFIG_DIRS": "/a:/b",
		}))
		assert.Equal(t, []string{"/cfg/svc", "/a/svc", "/b/svc"}, paths)
	})
}
