// Package mockdata is the in-memory backend the dashboard talks to instead
// of a real API.
//
// A Data value is seeded deterministically: the same seed and clock always
// produce the same contracts and notifications. It is safe for concurrent
// use and hands out copies, so callers may modify what they receive.
//
//	data := mockdata.New(mockdata.WithSeed(7))
//	user, err := data.UserByEmail("admin@example.com")
package mockdata
