package cache

// ScopedKeyer wraps a Keyer with a prefix for project isolation.
// This is useful when several projects share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:web:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SpecifiersKey generates a prefixed key for parsed import specifiers.
func (k *ScopedKeyer) SpecifiersKey(parser string, contents []byte) string {
	return k.prefix + k.inner.SpecifiersKey(parser, contents)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(mapHash, opts)
}
