package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twofish/pkg/cache"
	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/observability"
	"github.com/matzehuels/twofish/pkg/scene"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

type recordingHooks struct {
	observability.NoopEngineHooks
	ops     []string
	skipped []string
}

func (h *recordingHooks) OnEditStart(_ context.Context, op string, _ int) {
	h.ops = append(h.ops, op)
}

func (h *recordingHooks) OnRelationSkipped(_ context.Context, _ string, id string, _ error) {
	h.skipped = append(h.skipped, id)
}

func shape(id string, x, y, w, h float64) scene.Node {
	return scene.Node{ID: id, Kind: scene.KindRect, BBox: scene.Box(x, y, w, h)}
}

func stackScene() *scene.Scene {
	return scene.MustNew(
		shape("A", 0, 0, 20, 10),
		shape("B", 30, 0, 10, 10),
		scene.Node{
			ID: "S", Kind: scene.KindStack, Children: []string{"A", "B"},
			Params: scene.Params{Direction: scene.Horizontal, Spacing: scene.Some(5)},
		},
	)
}

func newTestRunner(c cache.Cache) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf)), &buf
}

func TestRelayoutUsesCache(t *testing.T) {
	c := newMemCache()
	r, _ := newTestRunner(c)
	ctx := context.Background()
	s := stackScene()

	first, hit, err := r.RelayoutWithCacheInfo(ctx, s, 0)
	if err != nil {
		t.Fatalf("Relayout() error = %v", err)
	}
	if hit {
		t.Error("first Relayout() reported a cache hit")
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	second, hit, err := r.RelayoutWithCacheInfo(ctx, s, 0)
	if err != nil {
		t.Fatalf("second Relayout() error = %v", err)
	}
	if !hit {
		t.Error("second Relayout() missed the cache")
	}
	b1, _ := first.Scene.Node("B")
	b2, _ := second.Scene.Node("B")
	if b1.Claim(scene.AxisX) != b2.Claim(scene.AxisX) {
		t.Errorf("cached claim = %+v, want %+v", b2.Claim(scene.AxisX), b1.Claim(scene.AxisX))
	}
	if len(second.Positions) != len(first.Positions) {
		t.Errorf("cached positions = %d, want %d", len(second.Positions), len(first.Positions))
	}

	if _, hit, _ := r.RelayoutWithCacheInfo(ctx, s, -1); hit {
		t.Error("a different index shared the cache entry")
	}
}

func TestRelayoutRecomputesCorruptEntry(t *testing.T) {
	c := newMemCache()
	r, _ := newTestRunner(c)
	ctx := context.Background()
	s := stackScene()

	if _, err := r.Relayout(ctx, s, 0); err != nil {
		t.Fatalf("Relayout() error = %v", err)
	}
	for k := range c.data {
		c.data[k] = []byte("{not json")
	}
	if _, hit, err := r.RelayoutWithCacheInfo(ctx, s, 0); err != nil || hit {
		t.Errorf("Relayout() over corrupt entry = hit %v, err %v; want recompute", hit, err)
	}
}

func TestRunnerLogsSkippedRelations(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetEngineHooks(hooks)
	defer observability.Reset()

	r, logs := newTestRunner(nil)
	s := scene.MustNew(
		shape("a", 0, 0, 10, 10),
		shape("b", 10, 20, 10, 10),
		shape("c", 0, 40, 10, 10),
		shape("d", 10, 60, 10, 10),
		scene.Node{ID: "r1", Kind: scene.KindAlign, Children: []string{"a", "c"}, Params: scene.Params{Alignment: scene.AlignLeft}},
		scene.Node{ID: "r2", Kind: scene.KindAlign, Children: []string{"b", "d"}, Params: scene.Params{Alignment: scene.AlignLeft}},
		scene.Node{ID: "r3", Kind: scene.KindAlign, Children: []string{"a", "b"}, Params: scene.Params{Alignment: scene.AlignLeft}},
	)

	res, err := r.Relayout(context.Background(), s, -1)
	if err != nil {
		t.Fatalf("Relayout() error = %v", err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want 1", res.Diagnostics)
	}
	if len(hooks.ops) != 1 || hooks.ops[0] != "relayout" {
		t.Errorf("hook ops = %v, want [relayout]", hooks.ops)
	}
	if len(hooks.skipped) != 1 || hooks.skipped[0] != "r3" {
		t.Errorf("skipped = %v, want [r3]", hooks.skipped)
	}
	if !strings.Contains(logs.String(), "relation skipped") {
		t.Errorf("log output missing warning:\n%s", logs.String())
	}
}

func TestRunnerEdits(t *testing.T) {
	r, _ := newTestRunner(nil)
	ctx := context.Background()
	s := scene.MustNew(shape("a", 0, 0, 10, 10), shape("b", 20, 5, 10, 10))

	res, err := r.Apply(ctx, s, engine.Request{
		Kind: scene.KindAlign, ID: "l", Children: []string{"a", "b"},
		Params: scene.Params{Alignment: scene.AlignLeft},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	right := scene.AlignRight
	res, err = r.EditParams(ctx, res.Scene, "l", engine.ParamsEdit{Alignment: &right})
	if err != nil {
		t.Fatalf("EditParams() error = %v", err)
	}

	res, err = r.UpdateGeometry(ctx, res.Scene, "a", engine.Patch{Width: scene.Some(30)})
	if err != nil {
		t.Fatalf("UpdateGeometry() error = %v", err)
	}
	b, _ := res.Scene.Node("b")
	if got, _ := b.Effective(scene.AxisX); got != 20 {
		t.Errorf("b x = %v, want 20", got)
	}

	res, err = r.Detach(ctx, res.Scene, "l", "b")
	if err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	if res.Scene.Has("l") {
		t.Error("degenerate relation survived Detach")
	}

	if _, err := r.Delete(ctx, res.Scene, "missing"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Delete(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestRenderOptionsDefaults(t *testing.T) {
	opts := RenderOptions{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.View != ViewScene || opts.Format != FormatSVG || opts.Scale != DefaultScale {
		t.Errorf("defaults = %+v", opts)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		view, format string
		wantErr      bool
	}{
		{"scene", "svg", false},
		{"scene", "pdf", false},
		{"scene", "png", true},
		{"graph", "dot", false},
		{"graph", "png", false},
		{"graph", "pdf", true},
		{"timeline", "svg", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.view, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q, %q) error = %v, wantErr %v", tt.view, tt.format, err, tt.wantErr)
		}
	}
}

func TestRenderCaches(t *testing.T) {
	c := newMemCache()
	r, _ := newTestRunner(c)
	ctx := context.Background()
	res, err := engine.Relayout(stackScene(), -1)
	if err != nil {
		t.Fatalf("Relayout() error = %v", err)
	}

	opts := RenderOptions{View: ViewGraph, Format: FormatDOT}
	out, hit, err := r.RenderWithCacheInfo(ctx, res.Scene, opts)
	if err != nil || hit {
		t.Fatalf("Render() = hit %v, err %v", hit, err)
	}
	if !bytes.Contains(out, []byte(`"A" -> "S";`)) {
		t.Errorf("dot output missing edge:\n%s", out)
	}
	if _, hit, _ := r.RenderWithCacheInfo(ctx, res.Scene, opts); !hit {
		t.Error("second Render() missed the cache")
	}

	svg, err := r.Render(ctx, res.Scene, RenderOptions{})
	if err != nil {
		t.Fatalf("Render(scene) error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("scene render is not SVG: %.60q", svg)
	}
}
