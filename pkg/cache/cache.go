// Package cache provides pluggable result caching for routing runs and
// design rule check reports.
//
// Both operations are pure functions of an immutable document snapshot plus
// options, so their results are cacheable under a key derived from the
// document hash and the options. Backends:
//
//   - FileCache: per-user on-disk cache for CLI usage
//   - RedisCache: shared cache for the HTTP service
//   - NullCache: disables caching
//
// Keys are produced by a Keyer so multi-tenant deployments can namespace
// entries with a ScopedKeyer without touching the backends.
package cache

import (
	"context"
	"time"
)

// TTL constants for the different cached artifact classes.
const (
	// TTLRoute applies to routing results. Routing is deterministic, so
	// entries only go stale when the engine itself changes.
	TTLRoute = 7 * 24 * time.Hour

	// TTLReport applies to design rule check reports.
	TTLReport = 7 * 24 * time.Hour

	// TTLNone disables expiration.
	TTLNone = time.Duration(0)
)

// Cache is the backend interface. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RouteKeyOpts are the routing options that affect the cached result.
type RouteKeyOpts struct {
	Resolution     float64 `json:"resolution"`
	PreferredLayer string  `json:"preferred_layer"`
}

// ReportKeyOpts are the check options that affect the cached report.
type ReportKeyOpts struct {
	Rules any `json:"rules"`
}

// Keyer derives cache keys from document hashes and options. Implementations
// must be deterministic: identical inputs always yield identical keys.
type Keyer interface {
	// RouteKey generates a key for a routing result.
	RouteKey(docHash string, opts RouteKeyOpts) string

	// ReportKey generates a key for a design rule check report.
	ReportKey(docHash string, opts ReportKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a type prefix plus a SHA-256 hash
// over the document hash and options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RouteKey generates a key for a routing result.
func (k *DefaultKeyer) RouteKey(docHash string, opts RouteKeyOpts) string {
	return hashKey("route", docHash, opts)
}

// ReportKey generates a key for a design rule check report.
func (k *DefaultKeyer) ReportKey(docHash string, opts ReportKeyOpts) string {
	return hashKey("report", docHash, opts)
}
