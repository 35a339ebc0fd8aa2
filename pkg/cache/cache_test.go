package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "absent")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Error("Get(absent) hit, want miss")
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		want := []byte("<svg/>")
		if err := c.Set(ctx, "svg:abc", want, 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, ok, err := c.Get(ctx, "svg:abc")
		if err != nil || !ok {
			t.Fatalf("Get = %v, %v", ok, err)
		}
		if string(got) != string(want) {
			t.Errorf("Get = %q, want %q", got, want)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := c.Set(ctx, "ttl", []byte("x"), time.Nanosecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		if _, ok, _ := c.Get(ctx, "ttl"); ok {
			t.Error("expired entry still returned")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set(ctx, "gone", []byte("x"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, _ := c.Get(ctx, "gone"); ok {
			t.Error("deleted entry still returned")
		}
		// Deleting a missing key is not an error.
		if err := c.Delete(ctx, "never-existed"); err != nil {
			t.Errorf("Delete(missing) = %v", err)
		}
	})
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("NullCache returned a hit")
	}
}

func TestArtifactKey(t *testing.T) {
	a := ArtifactKey("svg", "digraph {}")
	b := ArtifactKey("svg", "digraph {}")
	if a != b {
		t.Error("ArtifactKey not deterministic")
	}
	if a == ArtifactKey("png", "digraph {}") {
		t.Error("format not part of the key")
	}
	if a == ArtifactKey("svg", "digraph { x }") {
		t.Error("projection text not part of the key")
	}
}
