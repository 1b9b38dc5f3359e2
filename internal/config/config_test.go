// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/storage"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, name := range []string{
		"ZONEDASH_WIDGET", "ZONEDASH_LAYOUT", "ZONEDASH_STORAGE", "ZONEDASH_DATA_DIR",
		"ZONEDASH_OFFLINE", "ZONEDASH_LATITUDE", "ZONEDASH_LONGITUDE", "ZONEDASH_DARK",
	} {
		t.Setenv(name, "")
	}
	return home
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, "main", cfg.Widget.Name)
	assert.Equal(t, storage.BackendFiles, cfg.Storage.Backend)
	assert.Equal(t, feeds.DefaultCovidURL, cfg.Network.CovidURL)
	assert.Equal(t, feeds.DefaultSunURL, cfg.Network.SunURL)
	assert.Equal(t, DarkAuto, cfg.Render.Dark)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty name", func(c *Config) { c.Widget.Name = " " }, "widget.name"},
		{"name with separator", func(c *Config) { c.Widget.Name = "a/b" }, "widget.name"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"zero rate", func(c *Config) { c.Network.RequestsPerMinute = 0 }, "network.requests_per_minute"},
		{"timeout too long", func(c *Config) { c.Network.TimeoutSeconds = 600 }, "network.timeout_seconds"},
		{"ftp covid url", func(c *Config) { c.Network.CovidURL = "ftp://example.com" }, "network.covid_url"},
		{"latitude", func(c *Config) { c.Location.Latitude = 91 }, "location.latitude"},
		{"longitude", func(c *Config) { c.Location.Longitude = -181 }, "location.longitude"},
		{"negative width", func(c *Config) { c.Render.Width = -1 }, "render.width"},
		{"dark mode", func(c *Config) { c.Render.Dark = "dim" }, "render.dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "expected ValidateErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}

func TestConfig_Migrate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "file"
	cfg.Render.Dark = "on"
	require.NoError(t, cfg.Migrate())
	assert.Equal(t, storage.BackendFiles, cfg.Storage.Backend)
	assert.Equal(t, DarkOn, cfg.Render.Dark)

	cfg.Storage.Backend = "sqlite3"
	cfg.Render.Dark = "off"
	require.NoError(t, cfg.Migrate())
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DarkOff, cfg.Render.Dark)
}

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ZONEDASH_WIDGET", "office")
	t.Setenv("ZONEDASH_LAYOUT", "/tmp/office.ldl")
	t.Setenv("ZONEDASH_STORAGE", "sqlite")
	t.Setenv("ZONEDASH_OFFLINE", "true")
	t.Setenv("ZONEDASH_LATITUDE", "43.65")
	t.Setenv("ZONEDASH_LONGITUDE", "not-a-number")
	t.Setenv("ZONEDASH_DARK", "dark")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "office", cfg.Widget.Name)
	assert.Equal(t, "/tmp/office.ldl", cfg.Widget.LayoutFile)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.True(t, cfg.Network.Offline)
	assert.Equal(t, 43.65, cfg.Location.Latitude)
	assert.Equal(t, 0.0, cfg.Location.Longitude)
	assert.Equal(t, DarkOn, cfg.Render.Dark)
}

func TestConfig_LoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfig_SaveAndLoadTOML(t *testing.T) {
	home := isolate(t)

	cfg := Default()
	cfg.Widget.Name = "cottage"
	cfg.Location = LocationConfig{Latitude: 44.23, Longitude: -76.48, Locality: "Kingston"}
	cfg.Render.Width = 80
	require.NoError(t, Save(cfg))

	path := filepath.Join(home, ".zonedash", "config.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# zonedash configuration file"))
	assert.Contains(t, string(data), `name = "cottage"`)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_LoadJSONFallback(t *testing.T) {
	home := isolate(t)

	cfg := Default()
	cfg.Storage.Backend = "db"
	require.NoError(t, SaveJSON(cfg, filepath.Join(home, ".zonedash", "config.json")))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendSQLite, loaded.Storage.Backend)
}

func TestConfig_LoadInvalidFallsBack(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".zonedash")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[render]\ndark = \"sepia\"\n"), 0644))

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.dark")
	require.NotNil(t, cfg)
	assert.Equal(t, DarkAuto, cfg.Render.Dark)
}

func TestConfig_LoadFromPath_PartialFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[network]\noffline = true\n"), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.True(t, cfg.Network.Offline)
	assert.Equal(t, "main", cfg.Widget.Name)
	assert.Equal(t, 30, cfg.Network.RequestsPerMinute)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("render.width", "72"))
	require.NoError(t, cfg.Set("network.offline", "yes"))
	require.NoError(t, cfg.Set("location.latitude", "51.05"))
	require.NoError(t, cfg.Set("widget.layout_file", "~/main.ldl"))
	require.NoError(t, cfg.Set("Render.Hyperlinks", true))

	v, err := cfg.Get("render.width")
	require.NoError(t, err)
	assert.Equal(t, 72, v)
	assert.True(t, cfg.Network.Offline)
	assert.Equal(t, 51.05, cfg.Location.Latitude)
	assert.Equal(t, "~/main.ldl", cfg.Widget.LayoutFile)
	assert.True(t, cfg.Render.Hyperlinks)

	_, err = cfg.Get("render.colour")
	assert.ErrorContains(t, err, "unknown field: render.colour")
	_, err = cfg.Get("version.major")
	assert.ErrorContains(t, err, "not a struct")
	assert.ErrorContains(t, cfg.Set("render.width", "wide"), "invalid integer")
	assert.Error(t, cfg.Set("", "x"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Default()
	cfg.Storage.Dir = "/data"
	cfg.Widget.ICloud = true
	cfg.Network.TimeoutSeconds = 5
	cfg.Location = LocationConfig{Latitude: 1, Longitude: 2, Locality: "x"}

	assert.Equal(t, filepath.Join("/data", "iCloud"), cfg.StorageOptions().Dir)
	assert.Equal(t, 5*time.Second, cfg.DataSourceOptions().Timeout)
	fc := cfg.FeedConfig()
	assert.Equal(t, 1.0, fc.Latitude)
	assert.Equal(t, "x", fc.Locality)
	assert.Equal(t, feeds.DefaultSunURL, fc.SunURL)
}

func TestConfig_String(t *testing.T) {
	out := Default().String()
	assert.Contains(t, out, `"widget"`)
	assert.Contains(t, out, `"backend": "files"`)
}
