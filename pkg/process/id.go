package process

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a collision-resistant identifier with the given prefix,
// e.g. "n_3f8a1c09". The suffix is the first 8 hex characters of a random
// UUID, unique with overwhelming probability within a process lifetime.
//
// Uniqueness against fixed literal IDs ("start", "end") is not guaranteed;
// callers using reserved IDs probe for collisions themselves (see
// [Process.EnsureEnd]).
func NewID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s_%x", prefix, u[:4])
}
