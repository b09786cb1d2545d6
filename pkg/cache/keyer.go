package cache

import "strconv"

// Keyer derives cache keys.
type Keyer interface {
	// RelayoutKey is the key of a cascade over the scene with the given hash
	// from the changed index.
	RelayoutKey(sceneHash string, indexChanged int) string

	// RenderKey is the key of a rendered artifact of the scene.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the artifact.
type RenderKeyOpts struct {
	View     string  `json:"view"`
	Format   string  `json:"format"`
	Scale    float64 `json:"scale"`
	Labels   bool    `json:"labels"`
	Detailed bool    `json:"detailed"`
}

// DefaultKeyer produces keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RelayoutKey implements Keyer.
func (DefaultKeyer) RelayoutKey(sceneHash string, indexChanged int) string {
	return "relayout:" + sceneHash + ":" + strconv.Itoa(indexChanged)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return hashKey("render", sceneHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to the keys of inner.
// A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RelayoutKey implements Keyer.
func (k *ScopedKeyer) RelayoutKey(sceneHash string, indexChanged int) string {
	return k.prefix + k.inner.RelayoutKey(sceneHash, indexChanged)
}

// RenderKey implements Keyer.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
