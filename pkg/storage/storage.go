// Package storage provides the key/value "local storage" used to persist a
// page session's token and preference slices.
//
// Backends:
//   - Memory: process-local map, the default for tests and ephemeral runs
//   - File: one JSON document on disk, rewritten atomically
//   - S3: one object per key under a bucket prefix
//   - SQLite: a single kv table
//
// A browser is identified by a client id; Scoped wraps any backend so that
// many browsers can share it without seeing each other's keys.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrClosed is returned when operations are attempted on a closed backend.
var ErrClosed = errors.New("storage: closed")

// Storage is a string key/value store with local-storage semantics.
// Implementations must be safe for concurrent use.
type Storage interface {
	// GetItem returns the value for key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Closer is implemented by backends holding external resources.
type Closer interface {
	Close() error
}

// Scoped returns a Storage whose keys are prefixed with namespace.
func Scoped(st Storage, namespace string) Storage {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return st
	}
	return &scoped{inner: st, prefix: namespace + "/"}
}

type scoped struct {
	inner  Storage
	prefix string
}

func (s *scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.inner.GetItem(ctx, s.prefix+key)
}

func (s *scoped) SetItem(ctx context.Context, key, value string) error {
	return s.inner.SetItem(ctx, s.prefix+key, value)
}

func (s *scoped) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, s.prefix+key)
}
