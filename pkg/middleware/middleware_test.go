package middleware

import (
	"context"
	"testing"

	"github.com/contractflow/dashboard/pkg/router"
)

// newNav builds a navigation for a registered route pattern.
func newNav(t *testing.T, pattern, path string) *router.Navigation {
	t.Helper()
	r := router.New(router.NewHashLocation("/"), router.NewContainer())
	noop := func(context.Context, router.Params, router.Query) (router.View, error) { return nil, nil }
	if err := r.Register(pattern, noop); err != nil {
		t.Fatalf("Register(%q): %v", pattern, err)
	}
	params, _ := router.ExtractParams(pattern, path)
	return &router.Navigation{
		Context: context.Background(),
		Path:    path,
		Route:   r.Routes()[0],
		Params:  params,
		Query:   router.Query{},
	}
}
