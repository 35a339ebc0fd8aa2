package process

import (
	"regexp"
	"testing"
)

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^n_[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID("n")
		if !re.MatchString(id) {
			t.Fatalf("NewID(n) = %q, want prefix plus 8 hex chars", id)
		}
		if seen[id] {
			t.Fatalf("NewID collision after %d draws: %q", i, id)
		}
		seen[id] = true
	}
}

func TestNewIDPrefix(t *testing.T) {
	re := regexp.MustCompile(`^step_[0-9a-f]{8}$`)
	if id := NewID("step"); !re.MatchString(id) {
		t.Errorf("NewID(step) = %q", id)
	}
}
