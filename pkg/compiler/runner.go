package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/assets"
	"github.com/matzehuels/ttgen/pkg/cache"
	"github.com/matzehuels/ttgen/pkg/ids"
	"github.com/matzehuels/ttgen/pkg/loader"
	"github.com/matzehuels/ttgen/pkg/observability"
	"github.com/matzehuels/ttgen/pkg/schema"
	"github.com/matzehuels/ttgen/pkg/tts"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner executes load → compile → serialize with an artifact cache.
//
// The Runner is stateless apart from its cache and logger: every Execute
// builds its own registry, layout and issuer, so one Runner may serve
// concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// IDs creates the issuer for an unseeded compilation.
	IDs    func() ids.Issuer
	Assets assets.Resolver
	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		IDs:    ids.NewRandom,
		Assets: assets.Static{},
		TTL:    cache.DefaultTTL,
	}
}

// Output is the result of one Execute.
type Output struct {
	Name string
	// Hash is the SHA-256 of the source document.
	Hash string
	// Save is the indented save JSON.
	Save        []byte
	ObjectCount int
	CacheHit    bool
	// Result is nil on a cache hit.
	Result *Result
	Stats  RunStats
}

// RunStats times the stages of a miss. Only Total is set on a hit.
type RunStats struct {
	Load      time.Duration
	Compile   time.Duration
	Serialize time.Duration
	Total     time.Duration
}

// Execute compiles src and returns the serialized save. An identical source
// with identical options is served from the cache.
func (r *Runner) Execute(ctx context.Context, src []byte, format loader.Format, opts Options) (*Output, error) {
	start := time.Now()
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash := cache.Hash(src)
	key := r.Keyer.ArtifactKey(hash, r.keyOpts(format, opts))

	if out, ok := r.fromCache(ctx, key, hash); ok {
		out.Stats.Total = time.Since(start)
		r.Logger.Info("served from cache", "scene", out.Name, "hash", hash[:12])
		return out, nil
	}

	out := &Output{Hash: hash}

	loadStart := time.Now()
	observability.Compile().OnLoadStart(ctx, string(format), len(src))
	doc, err := loader.LoadBytes(src, format)
	out.Stats.Load = time.Since(loadStart)
	observability.Compile().OnLoadComplete(ctx, string(format), out.Stats.Load, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	res, err := r.compile(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	out.Name, out.Result = res.Name, res
	out.Stats.Compile = res.Stats.Duration

	serStart := time.Now()
	observability.Compile().OnSerializeStart(ctx, res.Name)
	save, data, err := r.serialize(res, opts)
	out.Stats.Serialize = time.Since(serStart)
	objects := 0
	if save != nil {
		objects = save.ObjectCount()
	}
	observability.Compile().OnSerializeComplete(ctx, res.Name, objects, out.Stats.Serialize, err)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	out.Save, out.ObjectCount = data, objects

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}

	out.Stats.Total = time.Since(start)
	r.Logger.Info("compiled scene",
		"scene", res.Name,
		"components", res.Stats.Components,
		"objects", objects,
		"duration", out.Stats.Total)
	return out, nil
}

// Compile runs the core compiler with hooks but without caching or
// serialization.
func (r *Runner) Compile(ctx context.Context, src []byte, format loader.Format, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	doc, err := loader.LoadBytes(src, format)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return r.compile(ctx, doc, opts)
}

func (r *Runner) compile(ctx context.Context, doc any, opts Options) (*Result, error) {
	name := sceneName(doc)
	observability.Compile().OnCompileStart(ctx, name)
	res, err := Compile(doc, opts)
	var n int
	var d time.Duration
	if res != nil {
		n, d = res.Stats.Components, res.Stats.Duration
	}
	observability.Compile().OnCompileComplete(ctx, name, n, d, err)
	return res, err
}

func (r *Runner) serialize(res *Result, opts Options) (*tts.Save, []byte, error) {
	issuer := r.issuer(opts.Seed)
	save, err := tts.NewSerializer(issuer, r.Assets).Serialize(tts.Scene{
		Name:     res.Name,
		Registry: res.Registry,
		Players:  res.Players,
	})
	if err != nil {
		return nil, nil, err
	}
	data, err := tts.Marshal(save)
	if err != nil {
		return save, nil, err
	}
	return save, data, nil
}

func (r *Runner) issuer(seed string) ids.Issuer {
	if seed != "" {
		return ids.NewSeeded(seed)
	}
	if r.IDs != nil {
		return r.IDs()
	}
	return ids.NewRandom()
}

// fromCache returns a cached save. Unreadable entries are treated as misses.
func (r *Runner) fromCache(ctx context.Context, key, hash string) (*Output, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	save, err := tts.Unmarshal(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &Output{
		Name:        save.SaveName,
		Hash:        hash,
		Save:        data,
		ObjectCount: save.ObjectCount(),
		CacheHit:    true,
	}, true
}

func (r *Runner) keyOpts(format loader.Format, opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:       string(format),
		Strict:       opts.Strict,
		OriginX:      opts.OriginX,
		OriginY:      opts.OriginY,
		RootMargin:   opts.rootMargin(),
		BoxThickness: opts.BoxThickness,
		Seed:         opts.Seed,
		Assets:       fmt.Sprint(r.Assets),
	}
	if c := opts.BoxColor; c != nil {
		k.BoxColor = []float64{c.R, c.G, c.B}
	}
	return k
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func sceneName(doc any) string {
	if m, ok := schema.AsMap(doc); ok {
		if v, ok := m.Get(fieldName); ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
