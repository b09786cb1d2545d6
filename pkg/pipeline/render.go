package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/twofish/pkg/cache"
	"github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/observability"
	"github.com/matzehuels/twofish/pkg/render/diagram"
	"github.com/matzehuels/twofish/pkg/render/nodelink"
	"github.com/matzehuels/twofish/pkg/scene"
)

// RenderWithCacheInfo renders the scene and reports whether the artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	data, err := io.MarshalScene(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	key := r.Keyer.RenderKey(cache.Hash(data), cache.RenderKeyOpts{
		View:     opts.View,
		Format:   opts.Format,
		Scale:    opts.Scale,
		Labels:   opts.Labels,
		Detailed: opts.Detailed,
	})

	if !opts.Refresh {
		if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return out, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	out, err := Render(s, opts)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, out, r.ttl(cache.TTLRender)); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(out))
	}
	r.Logger.Debug("rendered", "view", opts.View, "format", opts.Format, "bytes", len(out))
	return out, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts RenderOptions) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return out, err
}

// Render draws the scene without caching.
func Render(s *scene.Scene, opts RenderOptions) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if opts.View == ViewScene {
		out, err := diagram.Render(s, opts.diagramOptions())
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", opts.Format, err)
		}
		return out, nil
	}

	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed})
	var (
		out []byte
		err error
	)
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPNG:
		out, err = nodelink.RenderPNG(dot)
	default:
		out, err = nodelink.RenderSVG(dot)
	}
	if err != nil {
		return nil, fmt.Errorf("render graph %s: %w", opts.Format, err)
	}
	return out, nil
}
