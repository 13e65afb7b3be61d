// Package cache provides pluggable byte caches and the key scheme for
// Flockview's pipeline stages.
//
// Every expensive stage output is content-addressed: a built view is keyed
// by the snapshot hash plus the build parameters, computed positions by the
// view hash plus the layout engine. Identical inputs therefore always hit,
// and entries never go stale; TTLs exist only to bound storage.
//
// Backends share one interface. [NewFileCache] backs the CLI,
// [NewMemoryCache] the server's in-process tier and tests, [NewRedisCache]
// and [NewMongoCache] the shared tiers, and [NewNullCache] disables caching
// entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque bytes by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero or negative ttl stores the value
	// without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Stage TTLs. Keys are content-addressed, so these bound storage rather
// than freshness.
const (
	// ViewTTL applies to built views.
	ViewTTL = 24 * time.Hour

	// PositionsTTL applies to computed layout positions, the slowest
	// stage to recompute.
	PositionsTTL = 7 * 24 * time.Hour
)

// Keyer derives cache keys for pipeline stage outputs.
type Keyer interface {
	// ViewKey keys a built view by the snapshot content hash and the
	// build parameters.
	ViewKey(snapshotHash string, opts ViewKeyOpts) string

	// PositionsKey keys computed positions by the view content hash and
	// the layout options.
	PositionsKey(viewHash string, opts PositionsKeyOpts) string
}

// ViewKeyOpts carries the build inputs that change a view's content.
type ViewKeyOpts struct {
	// Params is the canonical JSON serialization of the build
	// parameters.
	Params string `json:"params"`
}

// PositionsKeyOpts carries the layout inputs that change positions.
type PositionsKeyOpts struct {
	Engine string `json:"engine"`
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a SHA-256
// over the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ViewKey generates a key for view caching.
func (k *DefaultKeyer) ViewKey(snapshotHash string, opts ViewKeyOpts) string {
	return hashKey("view", snapshotHash, opts)
}

// PositionsKey generates a key for position caching.
func (k *DefaultKeyer) PositionsKey(viewHash string, opts PositionsKeyOpts) string {
	return hashKey("positions", viewHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
