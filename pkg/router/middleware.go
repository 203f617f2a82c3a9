package router

import "context"

// Outcome is how a navigation ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeMounted
	OutcomeRedirected
	OutcomeDenied
	OutcomeFailed
)

// String returns the outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case OutcomeMounted:
		return "mounted"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeDenied:
		return "denied"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Navigation is one handled location change. Middleware may replace
// Context to carry values to later middleware and the handler.
type Navigation struct {
	Context context.Context
	Path    string
	Route   *Route
	Params  Params
	Query   Query
	Outcome Outcome
	Err     error
}

// Middleware processes a navigation before it reaches the handler.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return nil without calling next to stop the chain without error.
	Handle(nav *Navigation, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(nav *Navigation, next func() error) error {
	return f(nav, next)
}

// ComposeMiddleware builds a chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(nav *Navigation, mw []Middleware, handler func() error) error {
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m, next := mw[i], chain
		chain = func() error {
			return m.Handle(nav, next)
		}
	}
	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		return ComposeMiddleware(nav, middleware, next)
	})
}
