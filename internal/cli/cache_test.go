package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/cache"
	"github.com/matzehuels/ttgen/pkg/config"
)

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, cache.Hash([]byte(key)), []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Config.Cache.Dir = dir
	if err := c.cacheClearCommand().RunE(nil, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir still holds %d entries", len(entries))
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Config.Cache.Dir = filepath.Join(t.TempDir(), "never-created")
	if err := c.cacheClearCommand().RunE(nil, nil); err != nil {
		t.Errorf("clear on missing dir: %v", err)
	}
}

func TestLocalCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	if got, _ := c.localCacheDir(); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("default = %q", got)
	}
	c.Config.Cache.Dir = "/srv/ttgen-cache"
	if got, _ := c.localCacheDir(); got != "/srv/ttgen-cache" {
		t.Errorf("configured = %q", got)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		noCache bool
		want    string
	}{
		{"file", config.CacheFile, false, "*cache.FileCache"},
		{"none", config.CacheNone, false, "cache.NullCache"},
		{"no-cache flag", config.CacheFile, true, "cache.NullCache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&bytes.Buffer{}, log.InfoLevel)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.Dir = t.TempDir()

			ch, err := c.newCache(ctx, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer ch.Close()
			if got := typeName(ch); got != tt.want {
				t.Errorf("cache = %s, want %s", got, tt.want)
			}
		})
	}
}
