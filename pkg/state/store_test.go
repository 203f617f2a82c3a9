package state

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, st storage.Storage, opts ...Option) *Store {
	t.Helper()
	return New(st, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t, nil)

	if s.Get("x") != nil {
		t.Fatalf("Get on unset key = %v, want nil", s.Get("x"))
	}

	s.Set("x", 5)
	if got := s.Get("x"); got != 5 {
		t.Errorf("Get(x) = %v, want 5", got)
	}

	s.Set("x", func(old any) any { return old.(int) + 1 })
	if got := s.Get("x"); got != 6 {
		t.Errorf("after updater Get(x) = %v, want 6", got)
	}

	s.Update("x", func(old any) any { return old.(int) * 2 })
	if n, ok := Get[int](s, "x"); !ok || n != 12 {
		t.Errorf("Get[int](x) = %v, %v, want 12", n, ok)
	}
	if _, ok := Get[string](s, "x"); ok {
		t.Error("Get[string] on int slice should report !ok")
	}
}

func TestDefaults(t *testing.T) {
	s := newTestStore(t, nil)

	if s.DarkMode() {
		t.Error("dark mode should default to off")
	}
	if got := s.Preferences(); got != model.DefaultPreferences() {
		t.Errorf("Preferences = %+v, want defaults", got)
	}
	if s.Get(KeyCurrentUser) != nil {
		t.Error("currentUser must not be seeded")
	}
}

func TestSubscribeOrderAndArgs(t *testing.T) {
	s := newTestStore(t, nil)
	var calls []string

	s.Subscribe(func(key string, old, new any, state map[string]any) {
		calls = append(calls, "first")
		if key != "count" || old != nil || new != 1 {
			t.Errorf("first got (%q, %v, %v)", key, old, new)
		}
		if state["count"] != 1 {
			t.Errorf("snapshot count = %v, want 1", state["count"])
		}
	})
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		calls = append(calls, "second")
	})

	s.Set("count", 1)

	if !reflect.DeepEqual(calls, []string{"first", "second"}) {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestSubscribeSameFuncTwice(t *testing.T) {
	s := newTestStore(t, nil)
	count := 0
	fn := func(key string, old, new any, state map[string]any) { count++ }

	unsub1 := s.Subscribe(fn)
	unsub2 := s.Subscribe(fn)

	s.Set("a", 1)
	if count != 2 {
		t.Fatalf("two registrations fired %d times, want 2", count)
	}

	unsub1()
	count = 0
	s.Set("a", 2)
	if count != 1 {
		t.Errorf("after one unsubscribe fired %d times, want 1", count)
	}

	// Idempotent: calling the same unsubscribe again must not remove the
	// remaining registration.
	unsub1()
	count = 0
	s.Set("a", 3)
	if count != 1 {
		t.Errorf("after repeated unsubscribe fired %d times, want 1", count)
	}

	unsub2()
	count = 0
	s.Set("a", 4)
	if count != 0 {
		t.Errorf("after both unsubscribes fired %d times, want 0", count)
	}
}

func TestSubscriberPanicIsolated(t *testing.T) {
	s := newTestStore(t, nil)

	var got []any
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		panic("boom")
	})
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		got = append(got, key, old, new)
	})

	s.Set("k", "v")

	if !reflect.DeepEqual(got, []any{"k", nil, "v"}) {
		t.Errorf("second subscriber got %v, want [k <nil> v]", got)
	}
	if s.Get("k") != "v" {
		t.Error("Set must complete despite a panicking subscriber")
	}
}

func TestReentrantSetIsQueued(t *testing.T) {
	s := newTestStore(t, nil)
	var order []string

	s.Subscribe(func(key string, old, new any, state map[string]any) {
		order = append(order, "A:"+key)
		if key == "trigger" {
			s.Set("derived", true)
			// Applied immediately even though its notification is queued.
			if s.Get("derived") != true {
				t.Error("re-entrant Set not applied")
			}
		}
	})
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		order = append(order, "B:"+key)
	})

	s.Set("trigger", 1)

	want := []string{"A:trigger", "B:trigger", "A:derived", "B:derived"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestConcurrentSet(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	var mu sync.Mutex
	seen := 0
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("n", func(old any) any {
				n, _ := old.(int)
				return n + 1
			})
		}()
	}
	wg.Wait()

	if n, _ := Get[int](s, "n"); n != 50 {
		t.Errorf("n = %d, want 50", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if seen != 50 {
		t.Errorf("notifications = %d, want 50", seen)
	}
}

func TestUpdaterPanicReleasesStore(t *testing.T) {
	s := newTestStore(t, nil)
	s.Set("x", 1)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("updater panic did not propagate")
			}
		}()
		s.Set("x", func(any) any { panic("boom") })
	}()

	done := make(chan any, 1)
	go func() {
		s.Set("y", 2)
		done <- s.Get("x")
	}()
	select {
	case got := <-done:
		if got != 1 {
			t.Errorf("x = %v, want 1", got)
		}
	case <-time.After(time.Second):
		t.Fatal("store still locked after updater panic")
	}
}

func TestSetFromOtherGoroutineIsDelivered(t *testing.T) {
	s := newTestStore(t, nil)
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var seen []string
	s.Subscribe(func(key string, old, new any, state map[string]any) {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
		if key == "a" {
			close(entered)
			<-release
		}
	})

	go s.Set("a", 1)
	<-entered

	returned := make(chan []string, 1)
	go func() {
		s.Set("b", 2)
		mu.Lock()
		defer mu.Unlock()
		returned <- append([]string(nil), seen...)
	}()

	select {
	case <-returned:
		t.Fatal("Set returned while another pass was still notifying")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case got := <-returned:
		if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("seen when Set returned = %v, want %v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("Set never returned")
	}
}

func TestClear(t *testing.T) {
	custom := model.Preferences{DashboardView: "grid"}

	tests := []struct {
		name      string
		preserve  bool
		wantDark  bool
		wantPrefs model.Preferences
	}{
		{"preserve", true, true, custom},
		{"reset", false, false, model.DefaultPreferences()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, storage.NewMemory())
			s.Set(KeyDarkMode, true)
			s.Set(KeyUserPreferences, custom)
			s.Set(KeyCurrentUser, &model.User{ID: 1, Role: model.RoleAdmin})
			s.Set("contracts", []model.Contract{{ID: 1}})

			var resetKey string
			var resetOld, resetNew any = "unset", "unset"
			s.Subscribe(func(key string, old, new any, state map[string]any) {
				resetKey, resetOld, resetNew = key, old, new
			})

			s.Clear(tt.preserve)

			if s.DarkMode() != tt.wantDark {
				t.Errorf("darkMode = %v, want %v", s.DarkMode(), tt.wantDark)
			}
			if s.Preferences() != tt.wantPrefs {
				t.Errorf("preferences = %+v, want %+v", s.Preferences(), tt.wantPrefs)
			}
			if s.IsAuthenticated() {
				t.Error("currentUser survived Clear")
			}
			if s.Get("contracts") != nil {
				t.Error("contracts survived Clear")
			}
			if resetKey != KeyStateReset || resetOld != nil || resetNew != nil {
				t.Errorf("reset notification = (%q, %v, %v)", resetKey, resetOld, resetNew)
			}
		})
	}
}

func TestPersistence(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()

	s := newTestStore(t, mem)
	user := &model.User{ID: 2, Name: "Editor User", Email: "editor@example.com", Role: model.RoleEditor}
	s.Set(KeyCurrentUser, user)
	s.Set(KeyDarkMode, true)
	s.Set("contracts", []model.Contract{{ID: 9}})

	raw, ok, _ := mem.GetItem(ctx, StorageKey)
	if !ok {
		t.Fatal("nothing persisted")
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		t.Fatalf("persisted record is not JSON: %v", err)
	}
	if _, ok := record["contracts"]; ok {
		t.Error("non-persisted slice written to storage")
	}
	for _, key := range PersistedKeys {
		if _, ok := record[key]; !ok {
			t.Errorf("persisted record missing %q", key)
		}
	}

	reloaded := newTestStore(t, mem)
	got := reloaded.CurrentUser()
	if got == nil || got.Email != user.Email || got.Role != model.RoleEditor {
		t.Errorf("reloaded user = %+v", got)
	}
	if !reloaded.DarkMode() {
		t.Error("dark mode not reloaded")
	}
	if reloaded.Get("contracts") != nil {
		t.Error("non-persisted slice reloaded")
	}
}

func TestCorruptPersistedState(t *testing.T) {
	mem := storage.NewMemory()
	mem.SetItem(context.Background(), StorageKey, "{not json")

	s := newTestStore(t, mem)
	if s.Preferences() != model.DefaultPreferences() || s.DarkMode() {
		t.Error("corrupt record should fall back to defaults")
	}
}

type failingStorage struct{}

func (failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}
func (failingStorage) SetItem(context.Context, string, string) error { return errors.New("unavailable") }
func (failingStorage) RemoveItem(context.Context, string) error      { return errors.New("unavailable") }

func TestStorageFailureKeepsWorking(t *testing.T) {
	s := newTestStore(t, failingStorage{})

	s.Set(KeyDarkMode, true)
	if !s.DarkMode() {
		t.Error("Set must apply even when persistence fails")
	}
	s.Clear(false)
	if s.DarkMode() {
		t.Error("Clear(false) should reset dark mode")
	}
}

func TestToggleDarkMode(t *testing.T) {
	s := newTestStore(t, nil)
	if !s.ToggleDarkMode() || !s.DarkMode() {
		t.Error("first toggle should turn dark mode on")
	}
	if s.ToggleDarkMode() {
		t.Error("second toggle should turn dark mode off")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(t, nil)
	s.Set("a", 1)

	snap := s.Snapshot()
	snap["a"] = 2
	if s.Get("a") != 1 {
		t.Error("mutating the snapshot changed the store")
	}
}
