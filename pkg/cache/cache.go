// Package cache provides a small byte cache used to memoize rendered
// diagram artifacts (SVG/PNG) between invocations. Rendering goes through
// Graphviz and is the only expensive operation in the tool, and its output
// is a pure function of the projection text, so artifacts are cached by
// content hash.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("not found")

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey builds the cache key for a rendered artifact: the output
// format prefixing the hash of the projection text it was rendered from.
func ArtifactKey(format string, projection string) string {
	return format + ":" + Hash([]byte(projection))
}
