package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/contractflow/dashboard/pkg/vdom"
)

type fakeAuth bool

func (a fakeAuth) IsAuthenticated() bool { return bool(a) }

type fakePerms map[string]bool

func (p fakePerms) HasPermission(perm string) bool { return p[perm] }

func newTestRouter(t *testing.T, fragment string, opts ...Option) (*Router, *HashLocation, *Container) {
	t.Helper()
	loc := NewHashLocation(fragment)
	c := NewContainer()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(loc, c, opts...), loc, c
}

func textView(s string) Handler {
	return func(ctx context.Context, params Params, query Query) (View, error) {
		return Node(vdom.P(vdom.Text(s))), nil
	}
}

func mustRegister(t *testing.T, r *Router, pattern string, h Handler, opts ...RouteOption) {
	t.Helper()
	if err := r.Register(pattern, h, opts...); err != nil {
		t.Fatalf("Register(%q): %v", pattern, err)
	}
}

func TestFirstRegisteredWins(t *testing.T) {
	r, _, c := newTestRouter(t, "/a/b")
	mustRegister(t, r, "/a/:id", textView("param route"))
	mustRegister(t, r, "/a/b", textView("static route"))

	r.HandleRouteChange(context.Background())

	if got, ok := r.CurrentPath(); !ok || got != "/a/:id" {
		t.Errorf("CurrentPath = %q, %v; want /a/:id", got, ok)
	}
	if got := r.Params().Get("id"); got != "b" {
		t.Errorf("id = %q, want b", got)
	}
	if got := c.Tree().TextContent(); got != "param route" {
		t.Errorf("mounted %q, want %q", got, "param route")
	}
}

func TestParamsInPatternOrderDecoded(t *testing.T) {
	r, _, _ := newTestRouter(t, "/x/hello%20world/%E2%9C%93")
	mustRegister(t, r, "/x/:first/:second", textView("ok"))

	r.HandleRouteChange(context.Background())

	want := Params{{"first", "hello world"}, {"second", "✓"}}
	if got := r.Params(); !reflect.DeepEqual(got, want) {
		t.Errorf("Params = %v, want %v", got, want)
	}
}

func TestQueryCommitted(t *testing.T) {
	r, _, _ := newTestRouter(t, "/search?q=a%20b&flag&x=1=2")
	mustRegister(t, r, "/search", textView("ok"))

	r.HandleRouteChange(context.Background())

	want := Query{"q": "a b", "flag": "", "x": "1=2"}
	if got := r.Query(); !reflect.DeepEqual(got, want) {
		t.Errorf("Query = %v, want %v", got, want)
	}
}

func TestEmptyFragmentIsRoot(t *testing.T) {
	r, _, c := newTestRouter(t, "")
	mustRegister(t, r, "/", textView("home"))

	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "home" {
		t.Errorf("mounted %q, want home", got)
	}
}

func TestNotFound(t *testing.T) {
	r, _, c := newTestRouter(t, "/a")
	mustRegister(t, r, "/a", textView("a"))
	r.HandleRouteChange(context.Background())

	r.Location().SetHash("/nowhere")
	r.HandleRouteChange(context.Background())

	if p, ok := r.CurrentPath(); ok {
		t.Errorf("CurrentPath = %q, want no active route", p)
	}
	if len(r.Params()) != 0 || len(r.Query()) != 0 {
		t.Error("params and query should be cleared")
	}
	if got := c.Tree().TextContent(); !strings.Contains(got, "Page Not Found") {
		t.Errorf("mounted %q, want not-found view", got)
	}
}

func TestCustomNotFound(t *testing.T) {
	r, _, c := newTestRouter(t, "/missing")
	mustRegister(t, r, "/", textView("home"))
	r.SetNotFoundHandler(func(ctx context.Context, path string) View {
		return Markup("<h1>No page at " + path + "</h1>")
	})

	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "No page at /missing" {
		t.Errorf("mounted %q", got)
	}
}

func TestRequiresAuthRedirects(t *testing.T) {
	r, loc, _ := newTestRouter(t, "/contracts/42", WithAuthenticator(fakeAuth(false)))
	called := false
	mustRegister(t, r, "/contracts/:id", func(context.Context, Params, Query) (View, error) {
		called = true
		return nil, nil
	}, RequiresAuth())

	r.HandleRouteChange(context.Background())

	if called {
		t.Error("handler must not run for unauthenticated visitor")
	}
	if got, want := loc.Hash(), "/login?redirect=%2Fcontracts%2F42"; got != want {
		t.Errorf("hash = %q, want %q", got, want)
	}
	// Committed before guards.
	if p, ok := r.CurrentPath(); !ok || p != "/contracts/:id" {
		t.Errorf("CurrentPath = %q, %v", p, ok)
	}
}

func TestRequiresAuthWithoutAuthenticator(t *testing.T) {
	r, loc, _ := newTestRouter(t, "/private")
	mustRegister(t, r, "/private", textView("secret"), RequiresAuth())

	r.HandleRouteChange(context.Background())

	if !strings.HasPrefix(loc.Hash(), "/login?redirect=") {
		t.Errorf("hash = %q, want login redirect", loc.Hash())
	}
}

func TestAuthCheckedBeforePermission(t *testing.T) {
	r, loc, c := newTestRouter(t, "/org",
		WithAuthenticator(fakeAuth(false)),
		WithPermissionChecker(fakePerms{}),
	)
	mustRegister(t, r, "/org", textView("org"), RequiresAuth(), RequirePermission("view_organization"))

	r.HandleRouteChange(context.Background())

	if !strings.HasPrefix(loc.Hash(), "/login") {
		t.Errorf("hash = %q, want login redirect", loc.Hash())
	}
	if strings.Contains(c.Tree().TextContent(), "Access Denied") {
		t.Error("permission guard ran before auth guard")
	}
}

func TestPermissionDenied(t *testing.T) {
	r, loc, c := newTestRouter(t, "/org",
		WithAuthenticator(fakeAuth(true)),
		WithPermissionChecker(fakePerms{"view_dashboard": true}),
	)
	called := false
	mustRegister(t, r, "/org", func(context.Context, Params, Query) (View, error) {
		called = true
		return nil, nil
	}, RequiresAuth(), RequirePermission("view_organization"))

	r.HandleRouteChange(context.Background())

	if called {
		t.Error("handler must not run without permission")
	}
	if loc.Hash() != "/org" {
		t.Errorf("hash changed to %q; access denied must not navigate", loc.Hash())
	}
	tree := c.Tree()
	if !strings.Contains(tree.TextContent(), "Access Denied") {
		t.Errorf("mounted %q, want access-denied view", tree.TextContent())
	}
	wrappers := tree.FindAll(func(n *vdom.VNode) bool { return n.HasClass("view-wrapper") })
	if len(wrappers) != 1 {
		t.Errorf("markup view should mount in one view-wrapper, got %d", len(wrappers))
	}
}

func TestPermissionGranted(t *testing.T) {
	r, _, c := newTestRouter(t, "/org",
		WithAuthenticator(fakeAuth(true)),
		WithPermissionChecker(fakePerms{"view_organization": true}),
	)
	mustRegister(t, r, "/org", textView("org page"), RequiresAuth(), RequirePermission("view_organization"))

	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "org page" {
		t.Errorf("mounted %q", got)
	}
}

func TestHandlerErrorMountsErrorView(t *testing.T) {
	r, _, c := newTestRouter(t, "/boom")
	mustRegister(t, r, "/boom", func(context.Context, Params, Query) (View, error) {
		return nil, errors.New("contract service unavailable")
	})

	r.HandleRouteChange(context.Background())

	got := c.Tree().TextContent()
	if !strings.Contains(got, "Error") || !strings.Contains(got, "contract service unavailable") {
		t.Errorf("mounted %q, want error view with message", got)
	}
	if c.Loading() {
		t.Error("loading indicator left visible")
	}
	if p, ok := r.CurrentPath(); !ok || p != "/boom" {
		t.Error("route should stay committed after handler failure")
	}
}

func TestHandlerPanicMountsErrorView(t *testing.T) {
	r, _, c := newTestRouter(t, "/panic")
	mustRegister(t, r, "/panic", func(context.Context, Params, Query) (View, error) {
		panic("nil map")
	})

	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); !strings.Contains(got, "nil map") {
		t.Errorf("mounted %q, want panic message", got)
	}
}

func TestCustomErrorHandler(t *testing.T) {
	r, _, c := newTestRouter(t, "/boom")
	mustRegister(t, r, "/boom", func(context.Context, Params, Query) (View, error) {
		return nil, errors.New("x")
	})
	r.SetErrorHandler(func(ctx context.Context, err error) View {
		return Node(vdom.P(vdom.Text("custom: " + err.Error())))
	})

	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "custom: x" {
		t.Errorf("mounted %q", got)
	}
}

func TestLoadingShownDuringHandler(t *testing.T) {
	r, _, c := newTestRouter(t, "/slow")
	var during bool
	mustRegister(t, r, "/slow", func(context.Context, Params, Query) (View, error) {
		during = c.Loading()
		return Node(vdom.P(vdom.Text("done"))), nil
	})

	r.HandleRouteChange(context.Background())

	if !during {
		t.Error("loading indicator hidden while handler ran")
	}
	if c.Loading() {
		t.Error("loading indicator visible after handler")
	}
	if c.Tree().FindByID(LoadingID) == nil {
		t.Error("loading indicator must survive mounting")
	}
}

func TestNilViewKeepsContent(t *testing.T) {
	r, loc, c := newTestRouter(t, "/a")
	mustRegister(t, r, "/a", textView("first"))
	mustRegister(t, r, "/b", func(context.Context, Params, Query) (View, error) { return nil, nil })

	r.HandleRouteChange(context.Background())
	loc.SetHash("/b")
	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "first" {
		t.Errorf("mounted %q, want previous content", got)
	}
}

func TestNoRoutesRegistered(t *testing.T) {
	r, _, c := newTestRouter(t, "/")
	r.HandleRouteChange(context.Background())

	if got := c.Tree().TextContent(); got != "" {
		t.Errorf("mounted %q, want nothing", got)
	}
}

func TestRegisterInvalid(t *testing.T) {
	r, _, _ := newTestRouter(t, "/")
	if err := r.Register("contracts", textView("x")); err == nil {
		t.Error("pattern without leading slash should fail")
	}
	if err := r.Register("/x", nil); err == nil {
		t.Error("nil handler should fail")
	}
	if len(r.Routes()) != 0 {
		t.Error("invalid registrations must not be added")
	}
}

func TestNavigateSetsFragment(t *testing.T) {
	r, loc, c := newTestRouter(t, "/")
	mustRegister(t, r, "/", textView("home"))
	mustRegister(t, r, "/contracts", textView("contracts"))

	r.Navigate("/contracts", Query{"status": "signed", "q": "a&b c"})

	if got, want := loc.Hash(), "/contracts?q=a%26b%20c&status=signed"; got != want {
		t.Errorf("hash = %q, want %q", got, want)
	}
	if c.Tree().TextContent() != "" {
		t.Error("Navigate must not call the handler")
	}
}

func TestRunHandlesChangesInOrder(t *testing.T) {
	r, _, c := newTestRouter(t, "/")
	var mounted []string
	home := make(chan struct{})
	done := make(chan struct{})
	c.OnChange(func(tree *vdom.VNode) {
		text := tree.TextContent()
		if text == "" || (len(mounted) > 0 && mounted[len(mounted)-1] == text) {
			return
		}
		mounted = append(mounted, text)
		switch len(mounted) {
		case 1:
			close(home)
		case 3:
			close(done)
		}
	})
	mustRegister(t, r, "/", textView("home"))
	mustRegister(t, r, "/contracts/:id", func(ctx context.Context, p Params, q Query) (View, error) {
		return Node(vdom.P(vdom.Text("contract " + p.Get("id")))), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	select {
	case <-home:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial route")
	}

	r.Navigate("/contracts/1", nil)
	r.Navigate("/contracts/2", nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for navigations")
	}
	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Run returned %v", err)
	}

	want := []string{"home", "contract 1", "contract 2"}
	if !reflect.DeepEqual(mounted, want) {
		t.Errorf("mounted %v, want %v", mounted, want)
	}
}

func TestMiddlewareWrapsNavigation(t *testing.T) {
	r, _, _ := newTestRouter(t, "/org", WithAuthenticator(fakeAuth(true)), WithPermissionChecker(fakePerms{}))
	mustRegister(t, r, "/", textView("home"))
	mustRegister(t, r, "/org", textView("org"), RequirePermission("view_organization"))

	var outcomes []string
	r.Use(MiddlewareFunc(func(nav *Navigation, next func() error) error {
		err := next()
		outcomes = append(outcomes, nav.Route.Pattern+":"+nav.Outcome.String())
		return err
	}))

	r.HandleRouteChange(context.Background())
	r.Location().SetHash("/")
	r.HandleRouteChange(context.Background())

	want := []string{"/org:denied", "/:mounted"}
	if !reflect.DeepEqual(outcomes, want) {
		t.Errorf("outcomes = %v, want %v", outcomes, want)
	}
}
