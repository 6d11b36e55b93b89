package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"LogLevel", cfg.LogLevel, "info"},
		{"SettingsFile", cfg.SettingsFile, ""},
		{"Locale", cfg.Locale, "en"},
		{"Cache.Path", cfg.Cache.Path, ""},
		{"Cache.Metrics", cfg.Cache.Metrics, false},
		{"Observer.Lat", cfg.Observer.Lat, 0.0},
		{"Observer.Lon", cfg.Observer.Lon, 0.0},
		{"Search.MaxIterations", cfg.Search.MaxIterations, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALMAGEST_LOG_LEVEL", "debug")
	t.Setenv("ALMAGEST_CACHE_PATH", "/tmp/almagest.db")
	t.Setenv("ALMAGEST_CACHE_METRICS", "true")
	t.Setenv("ALMAGEST_OBSERVER_LAT", "32.716667")
	t.Setenv("ALMAGEST_SEARCH_MAX_ITERATIONS", "500")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/almagest.db", cfg.Cache.Path)
	assert.True(t, cfg.Cache.Metrics)
	assert.InDelta(t, 32.716667, cfg.Observer.Lat, 1e-9)
	assert.Equal(t, 500, cfg.Search.MaxIterations)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almagest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
locale: es
settings_file: chart.yaml
observer:
  lat: 51.5
  lon: -0.12
cache:
  path: cache.db
`), 0644))

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Locale)
	assert.Equal(t, "chart.yaml", cfg.SettingsFile)
	assert.InDelta(t, 51.5, cfg.Observer.Lat, 1e-9)
	assert.InDelta(t, -0.12, cfg.Observer.Lon, 1e-9)
	assert.Equal(t, "cache.db", cfg.Cache.Path)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestReadFile_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almagest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: es\n"), 0644))
	t.Setenv("ALMAGEST_LOCALE", "en")

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
}

func TestReadFile_Missing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestReadFile_DefaultNameOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, ReadFile(New(), ""))
}

func TestValidate(t *testing.T) {
	valid := Config{Search: SearchConfig{MaxIterations: 1}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"pole", func(c *Config) { c.Observer.Lat = 90 }, "observer.lat"},
		{"longitude", func(c *Config) { c.Observer.Lon = 181 }, "observer.lon"},
		{"iterations", func(c *Config) { c.Search.MaxIterations = 0 }, "search.max_iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
