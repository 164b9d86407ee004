package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP service uses this to give each project its own cache namespace
// while sharing one Redis backend.
//
// Example usage:
//
//	// Project-specific keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
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

// RouteKey generates a prefixed key for a routing result.
func (k *ScopedKeyer) RouteKey(docHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(docHash, opts)
}

// ReportKey generates a prefixed key for a design rule check report.
func (k *ScopedKeyer) ReportKey(docHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(docHash, opts)
}
