// Package state is the page session's single source of truth: a flat map of
// named slices with change notification and selective persistence.
//
// A slice is created on first Set and only removed by Clear. Three slices
// (currentUser, darkMode, userPreferences) are mirrored to local storage as
// one JSON record under "contractflow_state" and reloaded by New.
//
//	st := state.New(storage.NewMemory(), state.WithDataSource(db))
//	unsubscribe := st.Subscribe(func(key string, old, new any, snapshot map[string]any) {
//	    if key == state.KeyDarkMode { ... }
//	})
//	defer unsubscribe()
//	st.Set("filter", "signed")
//	st.Set("count", func(old any) any { n, _ := old.(int); return n + 1 })
//
// Subscribers are called synchronously, in registration order, with a
// snapshot of the store taken right after the change. A Set issued by a
// subscriber is applied immediately but its notification is queued and
// delivered after the current pass, so passes never interleave. A Set from
// another goroutine waits for the running pass, then notifies before it
// returns; a subscriber must not block on such a goroutine. Subscribing the
// same function twice creates two registrations; each unsubscribe removes
// only its own.
package state
