// Package config provides application configuration management.
package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/pelletier/go-toml/v2"
)

// Configuration defaults are used when values are not specified.
const (
	DefaultPort        = 8080
	DefaultMapName     = "default"
	DefaultEventsLimit = 50
)

// Sentinel errors for configuration lookups.
var (
	ErrUnknownMap  = errors.New("unknown error map")
	ErrInvalidMap  = errors.New("invalid error map")
	ErrDefaultMap  = errors.New("default error map cannot be removed")
	ErrInvalidPort = errors.New("invalid port")
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `json:"port" toml:"port"`                       // HTTP server port
	AllowedOrigins []string `json:"allowed_origins" toml:"allowed_origins"` // Extra WebSocket origins
	APIKey         string   `json:"api_key" toml:"api_key"`                 // Required for map changes and the audit API
}

// AuditConfig holds resolution event log settings.
type AuditConfig struct {
	Path string `json:"path" toml:"path"` // JSON lines file; empty disables logging
}

// MapConfig describes one error map. Messages containing "{{" are
// text/template sources evaluated per item; others are literal.
type MapConfig struct {
	Messages      map[string]string `json:"messages" toml:"messages"`
	Fallback      string            `json:"fallback,omitempty" toml:"fallback,omitempty"`
	FallbackLabel *string           `json:"fallback_label,omitempty" toml:"fallback_label,omitempty"` // "<label> <text>" fallback
}

// Config holds all application configuration. It is safe for concurrent use.
type Config struct {
	Server ServerConfig         `json:"server" toml:"server"`
	Audit  AuditConfig          `json:"audit" toml:"audit"`
	Maps   map[string]MapConfig `json:"maps" toml:"maps"`

	mu       sync.RWMutex
	filePath string
	compiled map[string]errmatch.Map
}

// New creates a new Config with default values.
func New(filePath string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: DefaultPort},
		Maps:     map[string]MapConfig{DefaultMapName: defaultMap()},
		filePath: filePath,
	}
	c.compiled = map[string]errmatch.Map{DefaultMapName: mustCompile(DefaultMapName, c.Maps[DefaultMapName])}
	return c
}

func defaultMap() MapConfig {
	label := ""
	return MapConfig{
		Messages: map[string]string{
			string(errmatch.AnyRequired):  "{{.Label}} is required",
			string(errmatch.AnyAllowOnly): "{{.Label}} must be one of {{.Limit}}",
			string(errmatch.StringMin):    "{{.Label}} must be at least {{.Limit}} characters",
			string(errmatch.StringMax):    "{{.Label}} must be at most {{.Limit}} characters",
			string(errmatch.NumberMin):    "{{.Label}} must be at least {{.Limit}}",
			string(errmatch.NumberMax):    "{{.Label}} must be at most {{.Limit}}",
			string(errmatch.StringEmail):  "{{.Label}} must be a valid email address",
			string(errmatch.StringURI):    "{{.Label}} must be a valid URL",
		},
		FallbackLabel: &label,
	}
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	return c.filePath
}

// isTOML reports whether the file should be read and written as TOML.
func (c *Config) isTOML() bool {
	return strings.EqualFold(filepath.Ext(c.filePath), ".toml")
}

// Load reads config from file, creating a default if none exists.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		key, err := GenerateAPIKey()
		if err != nil {
			return goerr.Wrap(err, "failed to generate API key")
		}
		c.Server.APIKey = key
		slog.Info("created default config with a new API key", "path", c.filePath)
		return c.saveLocked()
	}
	if err != nil {
		return goerr.Wrap(err, "failed to read config", goerr.V("path", c.filePath))
	}

	// Decoders merge into existing map entries, so the built-in default
	// map must not be present while the file is read.
	prevMaps := c.Maps
	c.Maps = nil

	if c.isTOML() {
		err = toml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		c.Maps = prevMaps
		return goerr.Wrap(err, "failed to parse config", goerr.V("path", c.filePath))
	}

	c.applyDefaults()

	if err := c.validate(); err != nil {
		c.Maps = prevMaps
		return err
	}

	if err := c.compileLocked(); err != nil {
		c.Maps = prevMaps
		return err
	}
	return nil
}

// validate checks all configuration fields for correctness.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return goerr.Wrap(ErrInvalidPort, "invalid server.port", goerr.V("port", c.Server.Port))
	}
	for name, mc := range c.Maps {
		if err := validateMap(name, mc); err != nil {
			return err
		}
	}
	return nil
}

func validateMap(name string, mc MapConfig) error {
	if name == "" {
		return goerr.Wrap(ErrInvalidMap, "map name is empty")
	}
	if mc.Fallback != "" && mc.FallbackLabel != nil {
		return goerr.Wrap(ErrInvalidMap, "fallback and fallback_label are mutually exclusive", goerr.V("map", name))
	}
	for kind := range mc.Messages {
		if errmatch.Kind(kind) == errmatch.Fallback {
			return goerr.Wrap(ErrInvalidMap, "use the fallback field instead of a fallback message", goerr.V("map", name))
		}
		if !errmatch.Kind(kind).Known() {
			slog.Warn("error map uses an unrecognized kind", "map", name, "kind", kind)
		}
	}
	return nil
}

// applyDefaults sets default values for zero-value fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Maps == nil {
		c.Maps = map[string]MapConfig{}
	}
	if _, ok := c.Maps[DefaultMapName]; !ok {
		c.Maps[DefaultMapName] = defaultMap()
	}
}

// compileLocked rebuilds every error map. Caller must hold c.mu.
func (c *Config) compileLocked() error {
	compiled := make(map[string]errmatch.Map, len(c.Maps))
	for name, mc := range c.Maps {
		m, err := Compile(name, mc)
		if err != nil {
			return err
		}
		compiled[name] = m
	}
	c.compiled = compiled
	return nil
}

// saveLocked persists configuration. Caller must hold c.mu.
func (c *Config) saveLocked() error {
	var (
		data []byte
		err  error
	)
	if c.isTOML() {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return goerr.Wrap(err, "failed to marshal config")
	}

	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create config directory", goerr.V("dir", dir))
	}

	if err := os.WriteFile(c.filePath, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write config", goerr.V("path", c.filePath))
	}

	return nil
}

// --- Error maps ---

// Map returns the compiled error map registered under name.
func (c *Config) Map(name string) (errmatch.Map, error) {
	if name == "" {
		name = DefaultMapName
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.compiled[name]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownMap, "error map lookup failed", goerr.V("map", name))
	}
	return m, nil
}

// MapConfig returns a copy of the raw configuration of map name.
func (c *Config) MapConfig(name string) (MapConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mc, ok := c.Maps[name]
	if !ok {
		return MapConfig{}, false
	}
	mc.Messages = maps.Clone(mc.Messages)
	return mc, true
}

// MapNames returns the configured map names in sorted order.
func (c *Config) MapNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.Maps))
}

// SetMap adds or replaces map name and saves the configuration.
func (c *Config) SetMap(name string, mc MapConfig) error {
	if err := validateMap(name, mc); err != nil {
		return err
	}
	m, err := Compile(name, mc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, existed := c.Maps[name]
	mc.Messages = maps.Clone(mc.Messages)
	c.Maps[name] = mc
	if err := c.saveLocked(); err != nil {
		if existed {
			c.Maps[name] = prev
		} else {
			delete(c.Maps, name)
		}
		return err
	}
	c.compiled[name] = m
	return nil
}

// RemoveMap deletes map name and saves the configuration.
func (c *Config) RemoveMap(name string) error {
	if name == DefaultMapName {
		return goerr.Wrap(ErrDefaultMap, "cannot remove map", goerr.V("map", name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.Maps[name]
	if !ok {
		return goerr.Wrap(ErrUnknownMap, "cannot remove map", goerr.V("map", name))
	}
	delete(c.Maps, name)
	if err := c.saveLocked(); err != nil {
		c.Maps[name] = prev
		return err
	}
	delete(c.compiled, name)
	return nil
}

// --- API key ---

// APIKey returns the key guarding map changes and the audit API.
func (c *Config) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.Server.APIKey
}

// SetAPIKey updates the API key and saves the configuration.
func (c *Config) SetAPIKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.Server.APIKey
	c.Server.APIKey = key
	if err := c.saveLocked(); err != nil {
		c.Server.APIKey = prev
		return err
	}
	return nil
}

// GenerateAPIKey generates a new random 32-character alphanumeric API key.
func GenerateAPIKey() (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 32
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		result[i] = chars[n.Int64()]
	}
	return string(result), nil
}

// --- Snapshot ---

// Snapshot is a point-in-time copy of configuration values.
type Snapshot struct {
	Port           int
	AllowedOrigins []string
	AuditPath      string
	MapNames       []string
}

// Snapshot returns a point-in-time copy of all configuration values.
func (c *Config) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Port:           c.Server.Port,
		AllowedOrigins: slices.Clone(c.Server.AllowedOrigins),
		AuditPath:      c.Audit.Path,
		MapNames:       slices.Sorted(maps.Keys(c.Maps)),
	}
}

// HasAudit reports whether resolution events are logged.
func (s *Snapshot) HasAudit() bool {
	return s.AuditPath != ""
}
