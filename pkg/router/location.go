package router

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Location is the page session's view of the browser's location fragment.
type Location interface {
	// Hash returns the current fragment without the leading "#".
	Hash() string

	// SetHash changes the fragment. Setting the current value is a no-op.
	SetHash(fragment string)

	// Next blocks until the fragment changes and returns the new value.
	Next(ctx context.Context) (string, error)
}

// HashLocation is an in-process Location. Changes are queued so none are
// lost when the consumer is busy.
type HashLocation struct {
	mu        sync.Mutex
	hash      string
	pending   []string
	signal    chan struct{}
	observers []func(string)
}

// NewHashLocation creates a location starting at fragment.
func NewHashLocation(fragment string) *HashLocation {
	return &HashLocation{
		hash:   normalizeHash(fragment),
		signal: make(chan struct{}, 1),
	}
}

func normalizeHash(fragment string) string {
	return strings.TrimPrefix(fragment, "#")
}

// Hash returns the current fragment.
func (l *HashLocation) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

// SetHash changes the fragment and tells observers, which push the change
// to the browser.
func (l *HashLocation) SetHash(fragment string) {
	if l.update(fragment) {
		l.mu.Lock()
		observers := slices.Clone(l.observers)
		hash := l.hash
		l.mu.Unlock()

		for _, fn := range observers {
			fn(hash)
		}
	}
}

// Sync records a fragment change that originated in the browser. Observers
// are not told.
func (l *HashLocation) Sync(fragment string) {
	l.update(fragment)
}

func (l *HashLocation) update(fragment string) bool {
	fragment = normalizeHash(fragment)

	l.mu.Lock()
	defer l.mu.Unlock()
	if fragment == l.hash {
		return false
	}
	l.hash = fragment
	l.pending = append(l.pending, fragment)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Reload queues the current fragment again so the consumer re-renders it.
// Observers are not told.
func (l *HashLocation) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, l.hash)
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Observe registers fn to be called after every SetHash that changes the
// fragment.
func (l *HashLocation) Observe(fn func(fragment string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Next returns the oldest unconsumed change.
func (l *HashLocation) Next(ctx context.Context) (string, error) {
	for {
		l.mu.Lock()
		if len(l.pending) > 0 {
			next := l.pending[0]
			l.pending = l.pending[1:]
			l.mu.Unlock()
			return next, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-l.signal:
		}
	}
}
