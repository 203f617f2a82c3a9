// Package router maps the location fragment of a page session to a view.
//
// Routes are registered in priority order. A pattern is a path whose
// ":name" segments capture non-slash text and whose optional trailing "*"
// matches the rest of the path. The first registered pattern that matches
// wins; duplicates and overlaps are legal.
//
//	r := router.New(loc, container,
//	    router.WithAuthenticator(auth),
//	    router.WithPermissionChecker(store),
//	)
//	r.Register("/contracts/:id", showContract,
//	    router.RequiresAuth(),
//	    router.RequirePermission("view_contracts"),
//	)
//	go r.Run(ctx)
//
// # Fragments
//
// A fragment is "path[?query]". An empty fragment means "/". Query pairs are
// split on "&" and then on the first "="; a pair without "=" has an empty
// value. Keys and values are percent-decoded; a value that fails to decode is
// kept as written.
//
// # Guards
//
// RequiresAuth is checked before RequirePermission. An unauthenticated
// visitor is sent to /login?redirect=<path>; a visitor lacking the permission
// sees the access-denied view and the location is left unchanged. The
// matched route, params and query are committed before guards run.
//
// # Navigation
//
// Navigate only changes the location. Run observes location changes and
// handles them one at a time in order; a slow handler is never cancelled by
// a later navigation.
//
// # Middleware
//
// Middleware registered with Use wraps the guard chain and the handler of
// every matched navigation, first to last. Tracing and metrics are
// implemented as middleware.
package router
