// Package cache stores compiled artifacts keyed by a content hash of the
// scene source and the options that shaped it.
//
// Three backends are provided: [NullCache] disables caching, [FileCache]
// keeps entries on local disk for the CLI, and [RedisCache] shares entries
// between server replicas.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long compiled artifacts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts are the compile options that change the output for a
// given source. Two runs with equal opts and equal source hashes produce
// byte-identical saves.
type ArtifactKeyOpts struct {
	Format       string    `json:"format"`
	Strict       bool      `json:"strict"`
	Seed         string    `json:"seed,omitempty"`
	OriginX      float64   `json:"origin_x"`
	OriginY      float64   `json:"origin_y"`
	RootMargin   float64   `json:"root_margin"`
	BoxColor     []float64 `json:"box_color,omitempty"`
	BoxThickness float64   `json:"box_thickness"`
	Assets       string    `json:"assets,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the source hash together with every option field.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
