package cache

// ScopedKeyer wraps a Keyer with a namespace prefix so independent
// deployments (or tenants of a shared render service) can share one
// cache backend without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key the
// inner keyer generates. A nil inner falls back to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CircuitKey(sourceHash string) string {
	return k.prefix + k.inner.CircuitKey(sourceHash)
}

func (k *ScopedKeyer) LayoutKey(circuitHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(circuitHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
