// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatcpe configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig describes how to reach the chat backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds each request.
	TimeoutSecs int `toml:"timeout_secs"`
	// RateLimit is the maximum requests per second; 0 disables throttling.
	RateLimit float64 `toml:"rate_limit"`
	// Burst is the throttle bucket size when RateLimit is set.
	Burst int `toml:"burst"`
}

// StorageConfig selects where the session token is kept.
type StorageConfig struct {
	// Backend is one of sqlite, redis, memory.
	Backend string `toml:"backend"`
	// Path is the sqlite database file. Empty means ~/.chatcpe/storage.db.
	Path string `toml:"path"`
	// RedisURL is used by the redis backend.
	RedisURL string `toml:"redis_url"`
	// Prefix namespaces redis keys so several profiles can share a server.
	Prefix string `toml:"prefix"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	Theme        string `toml:"theme"` // auto, dark, light
	Markdown     bool   `toml:"markdown"`
	AltScreen    bool   `toml:"alt_screen"`
	Mouse        bool   `toml:"mouse"`
	WatchSession bool   `toml:"watch_session"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
			RateLimit:   0,
			Burst:       5,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Prefix:  "chatcpe:",
		},
		UI: UIConfig{
			Theme:        "auto",
			Markdown:     true,
			AltScreen:    true,
			Mouse:        false,
			WatchSession: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// HomeEnv overrides the configuration directory.
const HomeEnv = "CHATCPE_HOME"

// ConfigDir returns the chatcpe configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatcpe"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file if present, then applies .env and
// environment overrides, fills derived defaults and validates.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit config file. A missing file is not
// an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", statErr)
	}

	LoadDotEnv()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path onto cfg. Keys absent from the file keep their
// current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unknown config keys ignored", "path", path, "keys", strings.Join(keys, ","))
	}
	return nil
}

// LoadDotEnv loads .env from the working directory into the process
// environment. Variables that are already set are not replaced.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}
}

// fillDefaults resolves values that depend on the environment.
func fillDefaults(cfg *Config) error {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.UI.Theme = strings.ToLower(cfg.UI.Theme)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if cfg.Storage.Path != "" && cfg.Log.File != "" {
		return nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(dir, "storage.db")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dir, "chatcpe.log")
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.MarshalTOML()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MarshalTOML renders cfg with a short header.
func (c *Config) MarshalTOML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# chatcpe configuration file\n")
	buf.WriteString("# Generated by chatcpe - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
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
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", c.API.BaseURL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("unsupported scheme %q", u.Scheme),
		})
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "cannot be negative"})
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		errs = append(errs, ValidationError{Field: "api.burst", Message: "must be at least 1 when rate_limit is set"})
	}

	switch c.Storage.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			errs = append(errs, ValidationError{Field: "storage.redis_url", Message: "required for the redis backend"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: sqlite, redis, memory", c.Storage.Backend),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverlay holds the variables that may override file settings. Nil
// pointers mean the variable is unset.
type envOverlay struct {
	APIURL       *string        `env:"CHATCPE_API_URL"`
	ViteAPIURL   *string        `env:"VITE_API_BASE_URL"`
	Timeout      *time.Duration `env:"CHATCPE_TIMEOUT"`
	RateLimit    *float64       `env:"CHATCPE_RATE_LIMIT"`
	Storage      *string        `env:"CHATCPE_STORAGE"`
	StoragePath  *string        `env:"CHATCPE_STORAGE_PATH"`
	RedisURL     *string        `env:"CHATCPE_REDIS_URL"`
	Theme        *string        `env:"CHATCPE_THEME"`
	LogLevel     *string        `env:"CHATCPE_LOG_LEVEL"`
	LogFile      *string        `env:"CHATCPE_LOG_FILE"`
	NoWatch      *bool          `env:"CHATCPE_NO_WATCH"`
	NoAltScreen  *bool          `env:"CHATCPE_NO_ALT_SCREEN"`
	PlainAnswers *bool          `env:"CHATCPE_PLAIN"`
}

// ApplyEnvOverrides copies set environment variables over c.
func (c *Config) ApplyEnvOverrides() error {
	var o envOverlay
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	// The web client's variable is honoured so one .env can serve both.
	if o.ViteAPIURL != nil {
		c.API.BaseURL = *o.ViteAPIURL
	}
	if o.APIURL != nil {
		c.API.BaseURL = *o.APIURL
	}
	if o.Timeout != nil {
		c.API.TimeoutSecs = int(o.Timeout.Round(time.Second) / time.Second)
	}
	if o.RateLimit != nil {
		c.API.RateLimit = *o.RateLimit
	}
	if o.Storage != nil {
		c.Storage.Backend = *o.Storage
	}
	if o.StoragePath != nil {
		c.Storage.Path = *o.StoragePath
	}
	if o.RedisURL != nil {
		c.Storage.RedisURL = *o.RedisURL
	}
	if o.Theme != nil {
		c.UI.Theme = *o.Theme
	}
	if o.LogLevel != nil {
		c.Log.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		c.Log.File = *o.LogFile
	}
	if o.NoWatch != nil {
		c.UI.WatchSession = !*o.NoWatch
	}
	if o.NoAltScreen != nil {
		c.UI.AltScreen = !*o.NoAltScreen
	}
	if o.PlainAnswers != nil {
		c.UI.Markdown = !*o.PlainAnswers
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func boolField(p func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*p(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*p(c) = b
			return nil
		},
	}
}

var fields = map[string]field{
	"api.base_url": stringField(func(c *Config) *string { return &c.API.BaseURL }),
	"api.timeout_secs": {
		get: func(c *Config) string { return strconv.Itoa(c.API.TimeoutSecs) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			c.API.TimeoutSecs = n
			return nil
		},
	},
	"api.rate_limit": {
		get: func(c *Config) string { return strconv.FormatFloat(c.API.RateLimit, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			c.API.RateLimit = f
			return nil
		},
	},
	"api.burst": {
		get: func(c *Config) string { return strconv.Itoa(c.API.Burst) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			c.API.Burst = n
			return nil
		},
	},
	"storage.backend":   stringField(func(c *Config) *string { return &c.Storage.Backend }),
	"storage.path":      stringField(func(c *Config) *string { return &c.Storage.Path }),
	"storage.redis_url": stringField(func(c *Config) *string { return &c.Storage.RedisURL }),
	"storage.prefix":    stringField(func(c *Config) *string { return &c.Storage.Prefix }),
	"ui.theme":          stringField(func(c *Config) *string { return &c.UI.Theme }),
	"ui.markdown":       boolField(func(c *Config) *bool { return &c.UI.Markdown }),
	"ui.alt_screen":     boolField(func(c *Config) *bool { return &c.UI.AltScreen }),
	"ui.mouse":          boolField(func(c *Config) *bool { return &c.UI.Mouse }),
	"ui.watch_session":  boolField(func(c *Config) *bool { return &c.UI.WatchSession }),
	"log.level":         stringField(func(c *Config) *string { return &c.Log.Level }),
	"log.file":          stringField(func(c *Config) *string { return &c.Log.File }),
}

// Keys lists the settable keys in dot notation.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a value by dot-notation key, e.g. "api.base_url".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("unknown field: %s", key)
	}
	return f.get(c), nil
}

// Set parses value into the field named by key and revalidates. On a
// validation failure the previous value is restored.
func (c *Config) Set(key, value string) error {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown field: %s", key)
	}
	old := f.get(c)
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := fillDefaults(c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		_ = f.set(c, old)
		return err
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			slog.Warn("config load failed, using defaults", "error", err)
			cfg = Default()
			_ = fillDefaults(cfg)
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
