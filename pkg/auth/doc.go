// Package auth manages a page session's sign-in token.
//
// Tokens are opaque random strings with no cryptographic meaning. A Manager
// keeps the token and its expiry in local storage under
// "contractflow_auth_token" and "contractflow_auth_expiry" (milliseconds
// since the epoch), and records the signed-in user in the state store.
//
// # Authentication
//
// A session counts as authenticated only when both hold:
//
//   - the stored token exists and has not expired
//   - the state store has a current user
//
// An expired token is cleared the first time it is checked, which also
// resets the state store.
//
// # Simulated latency
//
// Login and Register wait before answering, like a network call would.
// The wait ends early when the context is cancelled:
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	user, err := m.Login(ctx, email, password)
package auth
