// Package cache stores compiled layouts and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: never stores anything (caching disabled)
//   - [RedisCache]: shared cache for several `netgrid serve` instances
//   - [MongoCache]: document store with a TTL index for long-lived results
//
// # Keys
//
// A [Keyer] derives keys from the content hash of the input netlist and the
// options that affect the output, so changing a router parameter never
// returns a stale layout. [ScopedKeyer] prefixes every key for isolation
// between API clients.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// KeyVersion is embedded in every key. Bump it when the layout algorithm or
// an artifact encoding changes so old entries are never served.
const KeyVersion = "v1"

// Default lifetimes of cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiring entries.
type Cache interface {
	// Get returns the value stored under key and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// LayoutKeyOpts are the options that change a compiled layout.
type LayoutKeyOpts struct {
	UtilizationCap  float64 `json:"utilization_cap"`
	EvictionPenalty float64 `json:"eviction_penalty"`
	WidenDivisor    int     `json:"widen_divisor"`
	Padding         int     `json:"padding"`
	LeadOut         int     `json:"lead_out"`
}

// ArtifactKeyOpts are the options that change a serialized artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(netlistHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:v1:<hash>".
func (DefaultKeyer) LayoutKey(netlistHash string, opts LayoutKeyOpts) string {
	return versionedKey("layout", netlistHash, opts)
}

// ArtifactKey returns "artifact:v1:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return versionedKey("artifact", layoutHash, opts)
}

func versionedKey(kind, hash string, opts any) string {
	data, _ := json.Marshal(opts)
	return kind + ":" + KeyVersion + ":" + Hash(append([]byte(hash+"\x00"), data...))
}

// Hash returns the hex SHA-256 of data. Netlists are identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
