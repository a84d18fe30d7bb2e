package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The serve command uses
// it to keep rendered diagrams apart from build results in a shared cache.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ForestKey returns the prefixed forest key.
func (k *ScopedKeyer) ForestKey(inputHash string, opts ForestKeyOpts) string {
	return k.prefix + k.inner.ForestKey(inputHash, opts)
}

// TermKey returns the prefixed term key.
func (k *ScopedKeyer) TermKey(forestKey, id, format string) string {
	return k.prefix + k.inner.TermKey(forestKey, id, format)
}
