// Package middleware provides observability middleware for the ContractFlow
// router.
//
// # OpenTelemetry
//
// Tracing starts a span for every navigation that matched a route. The span
// carries the path, the route pattern and the navigation outcome, and its
// context replaces Navigation.Context so handlers inherit it:
//
//	r.Use(middleware.Tracing(
//	    middleware.WithTracerName("contractflow"),
//	))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// # Prometheus
//
// NewMetrics registers the navigation and session collectors once; every
// page session then shares the same instance:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Middleware())
//
// Collected metrics (namespace "contractflow" by default):
//   - navigations_total: navigations by route and outcome
//   - navigation_duration_seconds: handler chain duration by route
//   - navigation_errors_total: failed navigations by route and error code
//   - active_sessions: connected page sessions
//   - messages_total: client messages by type
package middleware
