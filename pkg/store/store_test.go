package store_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/procflow/procflow/pkg/store"
)

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := s.Get(ctx, "absent"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(absent) = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		want := []byte(`{"name":"Invoice Approval","nodes":[],"edges":[]}`)
		if err := s.Put(ctx, "invoice", want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "invoice")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != string(want) {
			t.Errorf("Get = %s, want %s", got, want)
		}
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		s.Put(ctx, "invoice", []byte("v1"))
		s.Put(ctx, "invoice", []byte("v2"))
		got, err := s.Get(ctx, "invoice")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("Get = %s, want v2", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		s.Put(ctx, "beta", []byte("{}"))
		s.Put(ctx, "alpha", []byte("{}"))
		names, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := []string{"alpha", "beta", "invoice"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("List = %v, want %v", names, want)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "alpha"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "alpha"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(deleted) = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "alpha"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
		}
		names, _ := s.List(ctx)
		for _, n := range names {
			if n == "alpha" {
				t.Error("deleted name still listed")
			}
		}
	})
}

func TestFileStore_Contract(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	runStoreContract(t, s)
}

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	runStoreContract(t, store.NewRedisStoreFromClient(client))
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := store.NewRedisStoreFromClient(client, store.WithPrefix("team:flows:"))

	ctx := context.Background()
	if err := s.Put(ctx, "invoice", []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !mr.Exists("team:flows:invoice") {
		t.Error("custom prefix not applied to keys")
	}
}

func TestFileStore_DefaultDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	s, err := store.NewFileStore("")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if got := s.Path(); !strings.Contains(got, "procflow") {
		t.Errorf("Path() = %q, want a procflow data dir", got)
	}
}
