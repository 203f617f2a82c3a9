package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/contractflow/dashboard/internal/errors"
)

// Option configures a Router.
type Option func(*Router)

// WithAuthenticator sets the collaborator consulted by RequiresAuth.
func WithAuthenticator(a Authenticator) Option {
	return func(r *Router) { r.auth = a }
}

// WithPermissionChecker sets the collaborator consulted by RequirePermission.
func WithPermissionChecker(p PermissionChecker) Option {
	return func(r *Router) { r.perms = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// LoginPath is where RequiresAuth sends unauthenticated visitors.
const LoginPath = "/login"

// Router dispatches location changes to registered handlers.
type Router struct {
	mu           sync.RWMutex
	routes       []*Route
	current      *Route
	params       Params
	query        Query
	middleware   []Middleware
	notFound     NotFoundHandler
	errorView    ErrorHandler
	accessDenied AccessDeniedHandler

	location  Location
	container *Container
	auth      Authenticator
	perms     PermissionChecker
	logger    *slog.Logger
}

// New creates a router that reads loc and mounts into c.
func New(loc Location, c *Container, opts ...Option) *Router {
	r := &Router{
		location:     loc,
		container:    c,
		notFound:     defaultNotFound,
		errorView:    ErrorView,
		accessDenied: defaultAccessDenied,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register appends a route. Earlier registrations take priority.
func (r *Router) Register(pattern string, handler Handler, opts ...RouteOption) error {
	if handler == nil {
		return errors.New("E103").WithDetailf("pattern %q has no handler", pattern)
	}
	re, names, err := compilePattern(pattern)
	if err != nil {
		return err
	}

	route := &Route{
		Pattern:    pattern,
		Handler:    handler,
		matcher:    re,
		paramNames: names,
	}
	for _, opt := range opts {
		opt(&route.Guards)
	}

	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
	return nil
}

// Use appends global middleware.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// SetNotFoundHandler replaces the not-found view producer.
func (r *Router) SetNotFoundHandler(fn NotFoundHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = fn
}

// SetErrorHandler replaces the error view producer.
func (r *Router) SetErrorHandler(fn ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorView = fn
}

// SetAccessDeniedHandler replaces the access-denied view producer.
func (r *Router) SetAccessDeniedHandler(fn AccessDeniedHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessDenied = fn
}

// Routes returns the registered patterns in priority order.
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Route(nil), r.routes...)
}

// CurrentPath returns the pattern of the active route. ok is false when
// the last navigation matched nothing.
func (r *Router) CurrentPath() (pattern string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return "", false
	}
	return r.current.Pattern, true
}

// Params returns a copy of the active route's params.
func (r *Router) Params() Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(Params(nil), r.params...)
}

// Query returns a copy of the active query.
func (r *Router) Query() Query {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query.clone()
}

// Location returns the router's location.
func (r *Router) Location() Location {
	return r.location
}

// Container returns the router's mount point.
func (r *Router) Container() *Container {
	return r.container
}

// Navigate sets the location to path with the encoded query. The handler
// runs when Run observes the change.
func (r *Router) Navigate(path string, query Query) {
	r.location.SetHash(BuildFragment(path, query))
}

// Run handles the current fragment and then every change until ctx is done.
func (r *Router) Run(ctx context.Context) error {
	r.HandleRouteChange(ctx)
	for {
		fragment, err := r.location.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		r.handle(ctx, fragment)
	}
}

// match finds the first route matching path.
func (r *Router) match(path string) (*Route, Params, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, route := range r.routes {
		if params, ok := route.match(path); ok {
			return route, params, len(r.routes)
		}
	}
	return nil, nil, len(r.routes)
}

// HandleRouteChange resolves the current fragment and mounts the result.
func (r *Router) HandleRouteChange(ctx context.Context) {
	r.handle(ctx, r.location.Hash())
}

func (r *Router) handle(ctx context.Context, fragment string) {
	path, rawQuery := SplitFragment(fragment)

	route, params, registered := r.match(path)
	if registered == 0 {
		r.logger.Error("cannot handle navigation", "path", path, "error", errors.New("E102"))
		return
	}

	if route == nil {
		r.logger.Warn("route not found", "path", path)
		r.mu.Lock()
		r.current, r.params, r.query = nil, nil, nil
		notFound := r.notFound
		r.mu.Unlock()

		r.mount(ctx, notFound(ctx, path))
		return
	}

	query := ParseQuery(rawQuery)
	r.mu.Lock()
	r.current, r.params, r.query = route, params, query
	chain := append([]Middleware(nil), r.middleware...)
	r.mu.Unlock()

	nav := &Navigation{
		Context: ctx,
		Path:    path,
		Route:   route,
		Params:  append(Params(nil), params...),
		Query:   query.clone(),
	}
	chain = append(chain, r.guardAuth(), r.guardPermission())

	if err := ComposeMiddleware(nav, chain, func() error { return r.invoke(nav) }); err != nil {
		nav.Outcome, nav.Err = OutcomeFailed, err
		r.logger.Error("route handler failed", "route", route.Pattern, "path", path,
			"error", errors.FromError(err, "E101"))

		r.mu.RLock()
		errorView := r.errorView
		r.mu.RUnlock()
		r.mount(nav.Context, errorView(nav.Context, err))
	}
}

func (r *Router) guardAuth() Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if !nav.Route.Guards.RequiresAuth {
			return next()
		}
		if r.auth != nil && r.auth.IsAuthenticated() {
			return next()
		}
		r.logger.Info("authentication required", "path", nav.Path)
		nav.Outcome = OutcomeRedirected
		r.Navigate(LoginPath, Query{"redirect": nav.Path})
		return nil
	})
}

func (r *Router) guardPermission() Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		perm := nav.Route.Guards.RequiredPermission
		if perm == "" {
			return next()
		}
		if r.perms != nil && r.perms.HasPermission(perm) {
			return next()
		}
		r.logger.Warn("permission denied", "path", nav.Path, "permission", perm)
		nav.Outcome = OutcomeDenied

		r.mu.RLock()
		denied := r.accessDenied
		r.mu.RUnlock()
		r.mount(nav.Context, denied(nav.Context, perm))
		return nil
	})
}

// invoke runs the handler with the loading indicator shown and mounts its view.
func (r *Router) invoke(nav *Navigation) (err error) {
	r.container.SetLoading(true)
	defer r.container.SetLoading(false)

	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New("E104").Wrap(fmt.Errorf("%v", rec))
		}
	}()

	view, err := nav.Route.Handler(nav.Context, nav.Params, nav.Query)
	if err != nil {
		return err
	}
	if view == nil {
		nav.Outcome = OutcomeMounted
		return nil
	}
	if err := r.container.MountView(view); err != nil {
		return fmt.Errorf("mount %s: %w", nav.Route.Pattern, err)
	}
	nav.Outcome = OutcomeMounted
	return nil
}

// mount mounts a router-produced view, logging failures.
func (r *Router) mount(ctx context.Context, view View) {
	if view == nil {
		return
	}
	if err := r.container.MountView(view); err != nil {
		r.logger.ErrorContext(ctx, "mount view", "error", err)
	}
}
