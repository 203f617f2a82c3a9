package middleware

import (
	"context"
	"sort"

	"github.com/contractflow/dashboard/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "contractflow"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// TracerName is the instrumentation name (default: "contractflow").
	TracerName string

	// Provider supplies the tracer. Nil means the global provider.
	Provider trace.TracerProvider

	// IncludeQuery records the query parameter names. Values are never
	// recorded.
	IncludeQuery bool

	// Filter reports whether a navigation is traced. Nil traces all.
	Filter func(nav *router.Navigation) bool
}

// TracingOption configures the tracing middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider used instead of the global one.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithIncludeQuery enables recording query parameter names.
func WithIncludeQuery(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeQuery = include
	}
}

// WithNavigationFilter sets a filter deciding which navigations to trace.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// Tracing creates middleware that wraps each navigation in a span.
//
// The span is named after the route pattern so that every contract detail
// page shares one name. Failures are recorded on the span and returned
// unchanged.
func Tracing(opts ...TracingOption) router.Middleware {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	tracer := provider.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("contractflow.path", nav.Path),
			attribute.String("contractflow.route", routePattern(nav)),
			attribute.Int("contractflow.param_count", len(nav.Params)),
		}
		if config.IncludeQuery && len(nav.Query) > 0 {
			attrs = append(attrs, attribute.StringSlice("contractflow.query_keys", queryKeys(nav.Query)))
		}

		parent := nav.Context
		if parent == nil {
			parent = context.Background()
		}
		spanCtx, span := tracer.Start(parent, "navigate "+routePattern(nav),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		nav.Context = spanCtx
		err := next()

		outcome := nav.Outcome
		if err != nil {
			outcome = router.OutcomeFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(attribute.String("contractflow.outcome", outcome.String()))

		return err
	})
}

// SpanFromNavigation returns the span started for nav, or nil when the
// navigation was not traced.
func SpanFromNavigation(nav *router.Navigation) trace.Span {
	if nav == nil || nav.Context == nil {
		return nil
	}
	span := trace.SpanFromContext(nav.Context)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

func routePattern(nav *router.Navigation) string {
	if nav.Route == nil {
		return nav.Path
	}
	return nav.Route.Pattern
}

func queryKeys(q router.Query) []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
