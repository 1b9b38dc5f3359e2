// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/zonedash/internal/datasource"
	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/storage"
	"github.com/jeranaias/zonedash/internal/util"
)

// Version is the configuration format version written by Save.
const Version = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete zonedash configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Widget   WidgetConfig   `toml:"widget" json:"widget"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Network  NetworkConfig  `toml:"network" json:"network"`
	Location LocationConfig `toml:"location" json:"location"`
	Render   RenderConfig   `toml:"render" json:"render"`
}

// WidgetConfig selects the widget and its layout source.
type WidgetConfig struct {
	// Name identifies the widget's stored documents.
	Name string `toml:"name" json:"name"`

	// LayoutFile holds the layout source. Empty uses the stored layout.
	LayoutFile string `toml:"layout_file" json:"layout_file"`

	// ICloud stores documents under the iCloud directory naming.
	ICloud bool `toml:"icloud" json:"icloud"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	// Backend is "files", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend"`

	// Dir is the blob directory for the files backend.
	Dir string `toml:"dir" json:"dir"`

	// Database is the SQLite database path.
	Database string `toml:"database" json:"database"`
}

// NetworkConfig controls data fetching.
type NetworkConfig struct {
	// Offline blocks all non-localhost requests.
	Offline bool `toml:"offline" json:"offline"`

	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
	TimeoutSeconds    int `toml:"timeout_seconds" json:"timeout_seconds"`

	CovidURL string `toml:"covid_url" json:"covid_url"`
	SunURL   string `toml:"sun_url" json:"sun_url"`
}

// LocationConfig stands in for the device location service.
type LocationConfig struct {
	Latitude  float64 `toml:"latitude" json:"latitude"`
	Longitude float64 `toml:"longitude" json:"longitude"`
	Locality  string  `toml:"locality" json:"locality"`
}

// RenderConfig controls terminal output.
type RenderConfig struct {
	// Width in cells. Zero uses the preview size.
	Width int `toml:"width" json:"width"`

	// Dark is "auto", "dark" or "light".
	Dark string `toml:"dark" json:"dark"`

	// Hyperlinks emits OSC 8 links for stack URLs.
	Hyperlinks bool `toml:"hyperlinks" json:"hyperlinks"`
}

// Dark mode values.
const (
	DarkAuto  = "auto"
	DarkOn    = "dark"
	DarkOff   = "light"
	iCloudDir = "iCloud"
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Version: Version,
		Widget: WidgetConfig{
			Name: "main",
		},
		Storage: StorageConfig{
			Backend: storage.BackendFiles,
		},
		Network: NetworkConfig{
			RequestsPerMinute: datasource.DefaultRequestsPerMinute,
			TimeoutSeconds:    int(datasource.DefaultTimeout / time.Second),
			CovidURL:          feeds.DefaultCovidURL,
			SunURL:            feeds.DefaultSunURL,
		},
		Render: RenderConfig{
			Dark: DarkAuto,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the zonedash configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".zonedash"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DataDir returns the blob directory for the files backend. The iCloud
// flag selects a separate directory so both stores can coexist.
func (c *Config) DataDir() string {
	dir := c.Storage.Dir
	if dir == "" {
		dir = storage.DefaultDir()
	}
	if c.Widget.ICloud {
		dir = filepath.Join(dir, iCloudDir)
	}
	return dir
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:  c.Storage.Backend,
		Dir:      c.DataDir(),
		Database: c.Storage.Database,
	}
}

// DataSourceOptions returns the options for datasource.NewHTTP.
func (c *Config) DataSourceOptions() datasource.Options {
	return datasource.Options{
		Timeout:           time.Duration(c.Network.TimeoutSeconds) * time.Second,
		RequestsPerMinute: c.Network.RequestsPerMinute,
	}
}

// FeedConfig returns the location and endpoints for feeds.New.
func (c *Config) FeedConfig() feeds.Config {
	return feeds.Config{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
		Locality:  c.Location.Locality,
		SunURL:    c.Network.SunURL,
		CovidURL:  c.Network.CovidURL,
	}
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		if loadErr == nil {
			loadErr = err
		}
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}

	// Defaults, with any load error for informational purposes
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies environment overrides, migration, defaults and validation.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# zonedash configuration file\n")
	sb.WriteString("# Generated by zonedash - edit with care\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Widget.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "widget.name",
			Message: "cannot be empty",
		})
	} else if strings.ContainsAny(c.Widget.Name, `/\`) {
		errs = append(errs, ValidationError{
			Field:   "widget.name",
			Message: fmt.Sprintf("invalid name '%s', must not contain path separators", c.Widget.Name),
		})
	}

	validBackends := map[string]bool{
		storage.BackendFiles: true, storage.BackendSQLite: true, storage.BackendMemory: true,
	}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: files, sqlite, memory", c.Storage.Backend),
		})
	}

	if c.Network.RequestsPerMinute < 1 {
		errs = append(errs, ValidationError{
			Field:   "network.requests_per_minute",
			Message: "must be at least 1",
		})
	}
	if c.Network.TimeoutSeconds < 1 || c.Network.TimeoutSeconds > 300 {
		errs = append(errs, ValidationError{
			Field:   "network.timeout_seconds",
			Message: fmt.Sprintf("timeout %d out of range (1-300)", c.Network.TimeoutSeconds),
		})
	}
	for field, raw := range map[string]string{
		"network.covid_url": c.Network.CovidURL,
		"network.sun_url":   c.Network.SunURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid URL '%s', must be http or https", raw),
			})
		}
	}

	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, ValidationError{
			Field:   "location.latitude",
			Message: fmt.Sprintf("latitude %g out of range (-90 to 90)", c.Location.Latitude),
		})
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs = append(errs, ValidationError{
			Field:   "location.longitude",
			Message: fmt.Sprintf("longitude %g out of range (-180 to 180)", c.Location.Longitude),
		})
	}

	if c.Render.Width < 0 {
		errs = append(errs, ValidationError{
			Field:   "render.width",
			Message: "cannot be negative",
		})
	}
	validDark := map[string]bool{DarkAuto: true, DarkOn: true, DarkOff: true}
	if !validDark[strings.ToLower(c.Render.Dark)] {
		errs = append(errs, ValidationError{
			Field:   "render.dark",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: auto, dark, light", c.Render.Dark),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Widget.Name == "" {
		c.Widget.Name = defaults.Widget.Name
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Network.RequestsPerMinute == 0 {
		c.Network.RequestsPerMinute = defaults.Network.RequestsPerMinute
	}
	if c.Network.TimeoutSeconds == 0 {
		c.Network.TimeoutSeconds = defaults.Network.TimeoutSeconds
	}
	if c.Network.CovidURL == "" {
		c.Network.CovidURL = defaults.Network.CovidURL
	}
	if c.Network.SunURL == "" {
		c.Network.SunURL = defaults.Network.SunURL
	}
	if c.Render.Dark == "" {
		c.Render.Dark = defaults.Render.Dark
	}
}

// Migrate normalizes older spellings.
func (c *Config) Migrate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "fs":
		c.Storage.Backend = storage.BackendFiles
	case "sqlite3", "db":
		c.Storage.Backend = storage.BackendSQLite
	}
	switch strings.ToLower(c.Render.Dark) {
	case "true", "on":
		c.Render.Dark = DarkOn
	case "false", "off":
		c.Render.Dark = DarkOff
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - ZONEDASH_WIDGET: overrides widget.name
//   - ZONEDASH_LAYOUT: overrides widget.layout_file
//   - ZONEDASH_STORAGE: overrides storage.backend
//   - ZONEDASH_DATA_DIR: overrides storage.dir
//   - ZONEDASH_OFFLINE: set to "1" or "true" to enable offline mode
//   - ZONEDASH_LATITUDE / ZONEDASH_LONGITUDE: override the location
//   - ZONEDASH_DARK: overrides render.dark
func (c *Config) ApplyEnvOverrides() {
	if name := os.Getenv("ZONEDASH_WIDGET"); name != "" {
		c.Widget.Name = name
	}
	if layout := os.Getenv("ZONEDASH_LAYOUT"); layout != "" {
		c.Widget.LayoutFile = layout
	}
	if backend := os.Getenv("ZONEDASH_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("ZONEDASH_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if offline := os.Getenv("ZONEDASH_OFFLINE"); offline != "" {
		c.Network.Offline = offline == "1" || strings.ToLower(offline) == "true"
	}
	if lat := os.Getenv("ZONEDASH_LATITUDE"); lat != "" {
		if v, err := strconv.ParseFloat(lat, 64); err == nil {
			c.Location.Latitude = v
		}
	}
	if lon := os.Getenv("ZONEDASH_LONGITUDE"); lon != "" {
		if v, err := strconv.ParseFloat(lon, 64); err == nil {
			c.Location.Longitude = v
		}
	}
	if dark := os.Getenv("ZONEDASH_DARK"); dark != "" {
		c.Render.Dark = dark
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "render.width").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "render.width").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks key through the config struct, matching toml tags first and
// Go field names second.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByKey(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByKey(v reflect.Value, part string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
		if tag == part {
			return v.Field(i), true
		}
	}
	name := normalizeFieldName(part)
	field := v.FieldByNameFunc(func(n string) bool {
		return strings.EqualFold(n, name)
	})
	return field, field.IsValid()
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"widget.name",
		"widget.layout_file",
		"widget.icloud",
		"storage.backend",
		"storage.dir",
		"storage.database",
		"network.offline",
		"network.requests_per_minute",
		"network.timeout_seconds",
		"network.covid_url",
		"network.sun_url",
		"location.latitude",
		"location.longitude",
		"location.locality",
		"render.width",
		"render.dark",
		"render.hyperlinks",
	}
}

// String returns a JSON representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
