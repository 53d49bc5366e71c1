package validate

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tanglin/bufyaml"
)

// Cache holds recent validator results keyed by content hash. The
// window is short: it exists to absorb repeated requests for unchanged
// text, and a content change always misses regardless of time.
type Cache struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[[sha256.Size]byte]cacheEntry
}

type cacheEntry struct {
	diags []Diagnostic
	at    time.Time
}

// NewCache builds a cache whose entries live for the given window.
func NewCache(window time.Duration) *Cache {
	return &Cache{
		window:  window,
		entries: make(map[[sha256.Size]byte]cacheEntry),
	}
}

func cacheKey(path string, content []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(content)

	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))

	return key
}

// Get returns the cached diagnostics for this exact content, if still
// within the window.
func (c *Cache) Get(path string, content []byte) ([]Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey(path, content)]
	if !ok || time.Since(e.at) > c.window {
		return nil, false
	}

	return e.diags, true
}

// Put stores a result and drops expired entries on the way.
func (c *Cache) Put(path string, content []byte, diags []Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	for key, e := range c.entries {
		if now.Sub(e.at) > c.window {
			delete(c.entries, key)
		}
	}

	c.entries[cacheKey(path, content)] = cacheEntry{diags: diags, at: now}
}

// Validator combines the runner and cache behind one call.
type Validator struct {
	runner  *Runner
	cache   *Cache
	logger  *zap.Logger
	enabled bool
}

// NewValidator wires a validator from tool settings.
func NewValidator(cfg bufyaml.ValidatorConfig, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Validator{
		runner:  NewRunner(cfg, logger),
		cache:   NewCache(cfg.Debounce()),
		logger:  logger,
		enabled: cfg.Enabled(),
	}
}

// Validate returns diagnostics for the file content, served from the
// cache when the same content was checked within the window. Runs
// beyond the limiter's budget are dropped with ErrRateLimited.
func (v *Validator) Validate(ctx context.Context, path string, content []byte) ([]Diagnostic, error) {
	return v.validate(ctx, path, content, v.runner.Run)
}

// ValidateWait is Validate for batch callers such as the CLI, which
// want pacing rather than dropped runs.
func (v *Validator) ValidateWait(ctx context.Context, path string, content []byte) ([]Diagnostic, error) {
	return v.validate(ctx, path, content, v.runner.RunWait)
}

func (v *Validator) validate(
	ctx context.Context,
	path string,
	content []byte,
	run func(context.Context, string, []byte) ([]Diagnostic, error),
) ([]Diagnostic, error) {
	if !v.enabled {
		return nil, nil
	}

	if diags, ok := v.cache.Get(path, content); ok {
		v.logger.Debug("validator cache hit", zap.String("path", path))

		return diags, nil
	}

	diags, err := run(ctx, path, content)
	if err != nil {
		return nil, err
	}

	v.cache.Put(path, content, diags)

	return diags, nil
}
