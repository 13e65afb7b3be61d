package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants sharing one Redis or Mongo backend get isolated namespaces.
//
// Example usage:
//
//	// Per-instance keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner keyer falls back to the default scheme.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ViewKey generates a prefixed key for view caching.
func (k *ScopedKeyer) ViewKey(snapshotHash string, opts ViewKeyOpts) string {
	return k.prefix + k.inner.ViewKey(snapshotHash, opts)
}

// PositionsKey generates a prefixed key for position caching.
func (k *ScopedKeyer) PositionsKey(viewHash string, opts PositionsKeyOpts) string {
	return k.prefix + k.inner.PositionsKey(viewHash, opts)
}
