// Package config loads ttgen settings from a TOML file and the environment.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. [Default] values
//  2. the first config file found: an explicit path, ./ttgen.toml, or
//     $XDG_CONFIG_HOME/ttgen/config.toml
//  3. TTGEN_* environment variables (see [Config.ApplyEnv])
//
// Example file:
//
//	strict = true
//	assets = "./assets"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ttgen/pkg/errors"
)

const (
	appName = "ttgen"

	// LocalFile is looked up in the working directory.
	LocalFile = "ttgen.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config holds all settings.
type Config struct {
	Strict    bool   `toml:"strict"`
	Assets    string `toml:"assets"`
	OutputDir string `toml:"output_dir"`
	Seed      string `toml:"seed"`

	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig tunes layout resolution.
type LayoutConfig struct {
	RootMargin   float64   `toml:"root_margin"`
	BoxColor     []float64 `toml:"box_color"` // r, g, b in [0, 1]
	BoxThickness float64   `toml:"box_thickness"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// StoreConfig selects the save archive.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures `ttgen serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxBodySize int64  `toml:"max_body_size"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strict: true,
		Layout: LayoutConfig{
			RootMargin:   0.8,
			BoxColor:     []float64{1, 1, 1},
			BoxThickness: 0.02,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			Database:   appName,
			Collection: "saves",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxBodySize: 1 << 20,
		},
	}
}

// Load resolves the configuration. An explicit path must exist; the implicit
// locations are optional. It returns the file that was used, if any.
func Load(explicit string) (Config, string, error) {
	cfg := Default()

	path, err := find(explicit)
	if err != nil {
		return cfg, "", err
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

func find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", explicit)
			}
			return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", explicit)
		}
		return explicit, nil
	}
	candidates := []string{LocalFile}
	if dir, err := Dir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", nil
}

// Dir returns the user config directory ($XDG_CONFIG_HOME/ttgen or ~/.config/ttgen).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ApplyEnv overrides settings from environment variables:
//
//	TTGEN_STRICT       strict decoding (true/false)
//	TTGEN_ASSETS       asset directory
//	TTGEN_REDIS_ADDR   redis address; selects the redis cache
//	TTGEN_MONGO_URI    mongodb URI; selects the mongo store
//	TTGEN_ADDR         server listen address
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TTGEN_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
	c.Assets = envOr(getenv, "TTGEN_ASSETS", c.Assets)
	if v := getenv("TTGEN_REDIS_ADDR"); v != "" {
		c.Cache.Backend = CacheRedis
		c.Cache.RedisAddr = v
	}
	if v := getenv("TTGEN_MONGO_URI"); v != "" {
		c.Store.Backend = StoreMongo
		c.Store.MongoURI = v
	}
	c.Server.Addr = envOr(getenv, "TTGEN_ADDR", c.Server.Addr)
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis cache")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want %s)",
			c.Cache.Backend, strings.Join([]string{CacheFile, CacheRedis, CacheNone}, ", "))
	}

	switch c.Store.Backend {
	case StoreNone, StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo store")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want %s)",
			c.Store.Backend, strings.Join([]string{StoreNone, StoreMemory, StoreFile, StoreMongo}, ", "))
	}

	if n := len(c.Layout.BoxColor); n != 3 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.box_color needs 3 channels, got %d", n)
	}
	for _, ch := range c.Layout.BoxColor {
		if ch < 0 || ch > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.box_color channels must be within [0, 1]")
		}
	}
	if c.Layout.RootMargin < 0 || c.Layout.BoxThickness < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout margins and thickness must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}
