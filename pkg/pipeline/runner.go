package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twofish/pkg/cache"
	"github.com/matzehuels/twofish/pkg/engine"
	"github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/observability"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Runner executes edits and renders with caching.
// Both CLI and server use this to avoid duplicating caching and logging.
//
// The Runner is stateless except for the cache and logger. Scenes are
// immutable, so multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// RelayoutWithCacheInfo runs the cascade from indexChanged and reports
// whether the result came from the cache.
func (r *Runner) RelayoutWithCacheInfo(ctx context.Context, s *scene.Scene, indexChanged int) (engine.Result, bool, error) {
	var key string
	if data, err := io.MarshalScene(s); err == nil {
		key = r.Keyer.RelayoutKey(cache.Hash(data), indexChanged)
		if res, ok := r.cachedResult(ctx, key); ok {
			r.Logger.Debug("relayout cache hit", "index", indexChanged)
			return res, true, nil
		}
	}

	res, err := r.run(ctx, "relayout", s, func() (engine.Result, error) {
		return engine.Relayout(s, indexChanged)
	})
	if err != nil {
		return res, false, err
	}

	if key != "" {
		if data, err := io.MarshalResult(res); err == nil {
			if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLRelayout)); err == nil {
				observability.Cache().OnCacheSet(ctx, "relayout", len(data))
			} else {
				r.Logger.Warn("cache write failed", "err", err)
			}
		}
	}
	return res, false, nil
}

// Relayout is a convenience wrapper that calls RelayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Relayout(ctx context.Context, s *scene.Scene, indexChanged int) (engine.Result, error) {
	res, _, err := r.RelayoutWithCacheInfo(ctx, s, indexChanged)
	return res, err
}

func (r *Runner) cachedResult(ctx context.Context, key string) (engine.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "relayout")
		return engine.Result{}, false
	}
	res, err := io.ReadResult(bytes.NewReader(data))
	if err != nil {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, "relayout")
		return engine.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "relayout")
	return res, true
}

// Apply creates a relation.
func (r *Runner) Apply(ctx context.Context, s *scene.Scene, req engine.Request) (engine.Result, error) {
	return r.run(ctx, "apply", s, func() (engine.Result, error) {
		return engine.Apply(s, req)
	})
}

// EditParams changes a relation's parameters.
func (r *Runner) EditParams(ctx context.Context, s *scene.Scene, id string, edit engine.ParamsEdit) (engine.Result, error) {
	return r.run(ctx, "edit", s, func() (engine.Result, error) {
		return engine.EditParams(s, id, edit)
	})
}

// UpdateGeometry applies an external geometry change to a shape.
func (r *Runner) UpdateGeometry(ctx context.Context, s *scene.Scene, id string, p engine.Patch) (engine.Result, error) {
	return r.run(ctx, "resize", s, func() (engine.Result, error) {
		return engine.UpdateGeometry(s, id, p)
	})
}

// MoveGroup translates a group.
func (r *Runner) MoveGroup(ctx context.Context, s *scene.Scene, id string, axis scene.Axis, value float64) (engine.Result, error) {
	return r.run(ctx, "move", s, func() (engine.Result, error) {
		return engine.MoveGroup(s, id, axis, value)
	})
}

// Detach removes a child from a relation.
func (r *Runner) Detach(ctx context.Context, s *scene.Scene, relationID, childID string) (engine.Result, error) {
	return r.run(ctx, "detach", s, func() (engine.Result, error) {
		return engine.Detach(s, relationID, childID)
	})
}

// Delete removes a node.
func (r *Runner) Delete(ctx context.Context, s *scene.Scene, id string) (engine.Result, error) {
	return r.run(ctx, "delete", s, func() (engine.Result, error) {
		return engine.Delete(s, id)
	})
}

// run wraps an edit with hooks and logging.
func (r *Runner) run(ctx context.Context, op string, s *scene.Scene, fn func() (engine.Result, error)) (engine.Result, error) {
	hooks := observability.Engine()
	hooks.OnEditStart(ctx, op, s.Len())
	start := time.Now()

	res, err := fn()
	elapsed := time.Since(start)
	hooks.OnEditComplete(ctx, op, elapsed, err)
	if err != nil {
		r.Logger.Debug("edit failed", "op", op, "err", err)
		return res, err
	}

	for _, d := range res.Diagnostics {
		hooks.OnRelationSkipped(ctx, string(d.Kind), d.RelationID, d.Err)
		r.Logger.Warn("relation skipped", "op", op, "relation", d.RelationID, "kind", d.Kind, "err", d.Err)
	}
	r.Logger.Info("edit complete",
		"op", op,
		"nodes", res.Scene.Len(),
		"writes", len(res.Positions),
		"removed", len(res.Removed),
		"duration", elapsed)
	return res, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
