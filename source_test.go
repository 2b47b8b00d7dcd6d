// FILE: lixenwraith/envconfig/source_test.go
package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSnapshot tests snapshot construction and layering
func TestSnapshot(t *testing.T) {
	t.Run("FromEnviron", func(t *testing.T) {
		s := FromEnviron([]string{"A=1", "B=x=y", "EMPTY=", "BROKEN", "=nokey", "A=2"})
		assert.Equal(t, []string{"A", "B", "EMPTY"}, s.Keys())

		v, ok := s.Lookup("A")
		assert.True(t, ok)
		assert.Equal(t, "2", v)

		v, _ = s.Lookup("B")
		assert.Equal(t, "x=y", v)

		v, ok = s.Lookup("EMPTY")
		assert.True(t, ok)
		assert.Empty(t, v)

		_, ok = s.Lookup("BROKEN")
		assert.False(t, ok)
	})

	t.Run("ZeroValue", func(t *testing.T) {
		var s Snapshot
		assert.Zero(t, s.Len())
		_, ok := s.Lookup("ANY")
		assert.False(t, ok)
	})

	t.Run("MergeLaterWins", func(t *testing.T) {
		base := FromMap(map[string]string{"A": "base", "B": "base"})
		override := FromMap(map[string]string{"B": "override", "C": "new"})
		merged, err := Merge(base, override)
		require.NoError(t, err)

		assert.Equal(t, 3, merged.Len())
		a, _ := merged.Lookup("A")
		b, _ := merged.Lookup("B")
		assert.Equal(t, "base", a)
		assert.Equal(t, "override", b)

		// Inputs are unchanged
		b, _ = base.Lookup("B")
		assert.Equal(t, "base", b)
	})

	t.Run("MergeEmptyLayers", func(t *testing.T) {
		merged, err := Merge(Snapshot{}, FromMap(map[string]string{"A": "1"}), Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, merged.Keys())

		none, err := Merge()
		require.NoError(t, err)
		assert.Zero(t, none.Len())
	})

	t.Run("KeyFor", func(t *testing.T) {
		assert.Equal(t, "SITECONFIG__DATABASE", KeyFor("SiteConfig", "database"))
		assert.Equal(t, "SITECONFIG__DATABASE__URL", KeyFor(KeyFor("SiteConfig", "database"), "url"))
		assert.Equal(t, "APP___VERSION", KeyFor("app", "_version"))
	})
}

// TestFromFile tests snapshots read from configuration files
func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}
	want := map[string]string{
		"SITECONFIG__NAME":           "svc",
		"SITECONFIG__DATABASE__URL":  "https://site.com",
		"SITECONFIG__DATABASE__PORT": "6543",
	}
	check := func(t *testing.T, s Snapshot) {
		t.Helper()
		assert.Equal(t, len(want), s.Len())
		for k, v := range want {
			got, ok := s.Lookup(k)
			assert.True(t, ok, k)
			assert.Equal(t, v, got, k)
		}
	}

	t.Run("TOML", func(t *testing.T) {
		s, err := FromFile(write("config.toml", `
[siteconfig]
name = "svc"

[siteconfig.database]
url = "https://site.com"
port = 6543
`))
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("JSON", func(t *testing.T) {
		s, err := FromFile(write("config.json", `{
  "siteconfig": {
    "name": "svc",
    "database": {"url": "https://site.com", "port": 6543}
  }
}`))
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("YAML", func(t *testing.T) {
		s, err := FromFile(write("config.yaml", `
siteconfig:
  name: svc
  database:
    url: https://site.com
    port: 6543
`))
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("DetectedFromContent", func(t *testing.T) {
		s, err := FromFile(write("config", `{"siteconfig": {"name": "svc", "database": {"url": "https://site.com", "port": 6543}}}`))
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("ScalarForms", func(t *testing.T) {
		s, err := FromFile(write("scalars.toml", `
[app]
debug = true
ratio = 0.25
started = 2024-01-02T03:04:05Z
`))
		require.NoError(t, err)
		debug, _ := s.Lookup("APP__DEBUG")
		ratio, _ := s.Lookup("APP__RATIO")
		started, _ := s.Lookup("APP__STARTED")
		assert.Equal(t, "true", debug)
		assert.Equal(t, "0.25", ratio)
		assert.Equal(t, "2024-01-02T03:04:05Z", started)
	})

	t.Run("NullLeavesAbsent", func(t *testing.T) {
		js, err := FromFile(write("nulls.json", `{"app": {"name": null, "port": 80}}`))
		require.NoError(t, err)
		_, ok := js.Lookup("APP__NAME")
		assert.False(t, ok)
		assert.Equal(t, []string{"APP__PORT"}, js.Keys())

		ym, err := FromFile(write("nulls.yaml", "app:\n  name:\n  port: 80\n"))
		require.NoError(t, err)
		_, ok = ym.Lookup("APP__NAME")
		assert.False(t, ok)

		r, err := NewBuilder().WithPrefix("app").WithSnapshot(js).Build()
		require.NoError(t, err)
		var cfg struct {
			Name string `env:"name"`
			Port int    `env:"port"`
		}
		err = r.Scan(&cfg)
		assert.Equal(t, []string{"Environment variable 'APP__NAME' is not set"}, defectMessages(t, err))
	})

	t.Run("ListsRejected", func(t *testing.T) {
		_, err := FromFile(write("list.toml", `
[app]
hosts = ["a", "b"]
`))
		assert.ErrorContains(t, err, "list values are not supported")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := FromFile(filepath.Join(dir, "absent.toml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := FromFile(write("bad.json", `{"app": `))
		assert.Error(t, err)
	})

	t.Run("FeedsResolver", func(t *testing.T) {
		file, err := FromFile(write("layer.toml", `
[siteconfig]
name = "from-file"

[siteconfig.database]
url = "file-db"
`))
		require.NoError(t, err)
		env := FromMap(map[string]string{"SITECONFIG__NAME": "from-env"})

		merged, err := Merge(file, env)
		require.NoError(t, err)
		r, err := NewBuilder().WithSnapshot(merged).Build()
		require.NoError(t, err)
		cfg, err := Load[SiteConfig](r)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Name)
		assert.Equal(t, "file-db", cfg.Database.URL)
	})
}
