package store

import (
	"context"
	"time"

	"github.com/procflow/procflow/pkg/observability"
)

// instrumented wraps a Store and emits observability events for every
// operation.
type instrumented struct {
	backend string
	inner   Store
}

// Instrument wraps a store so that its operations report to the registered
// observability hooks. The backend name tags every event.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, inner: s}
}

func (s *instrumented) Put(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := s.inner.Put(ctx, name, data)
	observability.Store().OnPut(ctx, s.backend, name, time.Since(start), err)
	return err
}

func (s *instrumented) Get(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, name)
	observability.Store().OnGet(ctx, s.backend, name, time.Since(start), err)
	return data, err
}

func (s *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.inner.List(ctx)
	observability.Store().OnList(ctx, s.backend, len(names), time.Since(start), err)
	return names, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, name)
	observability.Store().OnDelete(ctx, s.backend, name, time.Since(start), err)
	return err
}

func (s *instrumented) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
