package state

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/storage"
)

// Well-known slice keys.
const (
	KeyCurrentUser     = "currentUser"
	KeyDarkMode        = "darkMode"
	KeyUserPreferences = "userPreferences"
	KeyOrganization    = "organization"
	KeyContracts       = "contracts"
	KeyTemplates       = "templates"
	KeyNotifications   = "notifications"

	// KeyStateReset is the key subscribers receive after Clear.
	KeyStateReset = "stateReset"
)

// StorageKey is the local-storage key of the persisted record.
const StorageKey = "contractflow_state"

// PersistedKeys is the allow-list of slices mirrored to local storage.
var PersistedKeys = []string{KeyCurrentUser, KeyDarkMode, KeyUserPreferences}

// Subscriber is notified after every change.
type Subscriber func(key string, oldValue, newValue any, state map[string]any)

// Updater computes a slice's new value from its old one.
type Updater = func(old any) any

// DataSource loads the per-user slices when a user signs in.
type DataSource interface {
	Organization(id int) (*model.Organization, error)
	ContractsForUser(userID int) []model.Contract
	Templates() []model.Template
	NotificationsForUser(userID int) []model.Notification
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDataSource sets the source used by SetCurrentUser.
func WithDataSource(ds DataSource) Option {
	return func(s *Store) { s.data = ds }
}

// WithStorageTimeout bounds every local-storage call. Defaults to 5s.
func WithStorageTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

type subscription struct {
	id uint64
	fn Subscriber
}

type event struct {
	key      string
	old, new any
	snapshot map[string]any
}

// Store holds the session's state slices. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	slices map[string]any
	subs   []subscription
	nextID uint64
	queue  []event

	// pass serializes change-and-notify passes across goroutines. owner is
	// the id of the goroutine running the current pass, zero when idle.
	pass  sync.Mutex
	owner atomic.Uint64

	storage storage.Storage
	data    DataSource
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a store backed by st and loads the persisted record.
// A nil st disables persistence.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		slices:  make(map[string]any),
		storage: st,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.load()
	s.applyDefaults()
	return s
}

// Get returns the value of key, or nil when unset.
func (s *Store) Get(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slices[key]
}

// Get returns the value of key as T. ok is false when the slice is unset or
// holds another type.
func Get[T any](s *Store, key string) (T, bool) {
	v, ok := s.Get(key).(T)
	return v, ok
}

// Set replaces the slice, or applies it when value is an Updater, then
// persists (for persisted keys) and notifies subscribers before returning.
// An Updater runs with the store locked and must not call back into it.
//
// A Set made by a subscriber is applied at once and its notification is
// delivered after the current pass. Sets from other goroutines wait for
// the running pass to finish.
func (s *Store) Set(key string, value any) {
	s.commit(func() {
		old := s.slices[key]
		if fn, ok := value.(Updater); ok {
			value = fn(old)
		}
		s.slices[key] = value

		if isPersisted(key) {
			s.persistLocked()
		}
		s.enqueueLocked(key, old, value)
	})
}

// Update applies fn to the slice's current value.
func (s *Store) Update(key string, fn Updater) {
	s.Set(key, fn)
}

// Subscribe registers fn and returns its unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns a shallow copy of every slice.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Clear resets every slice. With preservePreferences the prior darkMode and
// userPreferences survive; otherwise both return to their defaults.
// Subscribers receive KeyStateReset with nil values.
func (s *Store) Clear(preservePreferences bool) {
	s.commit(func() {
		prefs, dark := s.slices[KeyUserPreferences], s.slices[KeyDarkMode]

		s.slices = make(map[string]any)
		if preservePreferences {
			if prefs != nil {
				s.slices[KeyUserPreferences] = prefs
			}
			if dark != nil {
				s.slices[KeyDarkMode] = dark
			}
		}
		s.applyDefaultsLocked()
		s.persistLocked()
		s.enqueueLocked(KeyStateReset, nil, nil)
	})
}

func (s *Store) snapshotLocked() map[string]any {
	out := make(map[string]any, len(s.slices))
	for k, v := range s.slices {
		out[k] = v
	}
	return out
}

func (s *Store) enqueueLocked(key string, old, new any) {
	s.queue = append(s.queue, event{key: key, old: old, new: new, snapshot: s.snapshotLocked()})
}

// commit runs mutate under the store lock, then delivers the queued
// events. Called from inside a subscriber it only queues; the pass already
// running on this goroutine delivers the event.
func (s *Store) commit(mutate func()) {
	if o := s.owner.Load(); o != 0 && o == goid() {
		s.mutate(mutate)
		return
	}

	s.pass.Lock()
	s.owner.Store(goid())
	defer func() {
		s.owner.Store(0)
		s.pass.Unlock()
	}()

	s.mutate(mutate)
	s.dispatch()
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// dispatch drains the event queue. The caller holds s.pass.
func (s *Store) dispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		subs := append([]subscription(nil), s.subs...)
		s.mu.Unlock()

		for _, sub := range subs {
			s.notify(sub, ev)
		}

		s.mu.Lock()
	}
}

func (s *Store) notify(sub subscription, ev event) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.New("E151").WithDetailf("key %q: %v", ev.key, r)
			s.logger.Error("state subscriber failed", "key", ev.key, "error", err)
		}
	}()
	sub.fn(ev.key, ev.old, ev.new, ev.snapshot)
}

func (s *Store) applyDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyDefaultsLocked()
}

// applyDefaultsLocked seeds darkMode and userPreferences when unset.
// currentUser is only ever set by signing in.
func (s *Store) applyDefaultsLocked() {
	if _, ok := s.slices[KeyDarkMode].(bool); !ok {
		s.slices[KeyDarkMode] = false
	}
	if s.slices[KeyUserPreferences] == nil {
		s.slices[KeyUserPreferences] = model.DefaultPreferences()
	}
}

func (s *Store) storageContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func isPersisted(key string) bool {
	for _, k := range PersistedKeys {
		if k == key {
			return true
		}
	}
	return false
}
