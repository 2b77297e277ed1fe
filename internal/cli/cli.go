package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/assets"
	"github.com/matzehuels/ttgen/pkg/cache"
	"github.com/matzehuels/ttgen/pkg/compiler"
	"github.com/matzehuels/ttgen/pkg/config"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ttgen"

	// cachePrefix scopes redis keys so several tools can share one server.
	cachePrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out *console

	// Config is loaded before any subcommand runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    newConsole(os.Stdout),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig resolves the config file and environment into c.Config.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a compiler runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool, assetDir string) (*compiler.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if c.Config.Cache.Backend == config.CacheRedis {
		keyer = cache.NewScopedKeyer(nil, cachePrefix)
	}
	runner := compiler.NewRunner(ch, keyer, c.Logger)
	if c.Config.Cache.TTL.Duration > 0 {
		runner.TTL = c.Config.Cache.TTL.Duration
	}
	if assetDir == "" {
		assetDir = c.Config.Assets
	}
	if assetDir != "" {
		runner.Assets = assets.Dir{Base: assetDir}
	}
	return runner, nil
}

// newCache opens the configured cache. A missing home directory silently
// disables the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured save archive. The none backend returns nil.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Store
	switch sc.Backend {
	case config.StoreNone:
		return nil, nil
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        sc.MongoURI,
			Database:   sc.Database,
			Collection: sc.Collection,
		})
	case config.StoreFile:
		dir := sc.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.dir")
			}
			dir = filepath.Join(base, "saves")
		}
		return store.NewFileStore(dir)
	}
	return store.NewMemoryStore(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ttgen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/ttgen/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// compileOptions builds compiler options from the loaded config.
func (c *CLI) compileOptions() compiler.Options {
	lc := c.Config.Layout
	margin := lc.RootMargin
	opts := compiler.Options{
		Strict:       c.Config.Strict,
		RootMargin:   &margin,
		BoxThickness: lc.BoxThickness,
		Seed:         c.Config.Seed,
		Logger:       c.Logger,
	}
	if len(lc.BoxColor) == 3 {
		opts.BoxColor = &geom.Color{R: lc.BoxColor[0], G: lc.BoxColor[1], B: lc.BoxColor[2]}
	}
	return opts
}
