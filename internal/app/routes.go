package app

import (
	"context"

	"github.com/contractflow/dashboard/internal/components"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/toast"
)

const notFoundMarkup = `<div class="not-found-page"><div class="container text-center p-5">` +
	`<h1 class="mb-4">404 - Page Not Found</h1>` +
	`<p class="mb-4">The page you are looking for does not exist or has been moved.</p>` +
	`<a href="#/" class="btn btn-primary">Go to Dashboard</a></div></div>`

type route struct {
	pattern string
	handler router.Handler
	opts    []router.RouteOption
}

func (s *Session) routes() []route {
	signedIn := router.RequiresAuth()
	perm := router.RequirePermission
	return []route{
		{"/login", s.authPage(components.ModeLogin), nil},
		{"/register", s.authPage(components.ModeRegister), nil},
		{"/", s.page("/", components.NameDashboard), []router.RouteOption{signedIn, perm(model.PermViewDashboard)}},
		{"/dashboard", s.redirect("/"), []router.RouteOption{signedIn}},
		{"/contracts/new", s.page("/contracts/new", components.NameContractCreate), []router.RouteOption{signedIn, perm(model.PermCreateContracts)}},
		{"/contracts", s.page("/contracts", components.NameContractList), []router.RouteOption{signedIn, perm(model.PermViewContracts)}},
		{"/contracts/:id", s.page("/contracts/:id", components.NameContractDetail), []router.RouteOption{signedIn, perm(model.PermViewContracts)}},
		{"/templates", s.page("/templates", components.NameTemplateList), []router.RouteOption{signedIn, perm(model.PermViewTemplates)}},
		{"/templates/:id", s.page("/templates/:id", components.NameTemplateDetail), []router.RouteOption{signedIn, perm(model.PermViewTemplates)}},
		{"/organization", s.page("/organization", components.NameOrganization), []router.RouteOption{signedIn, perm(model.PermViewOrganization)}},
		{"/profile", s.page("/profile", components.NameUserProfile), []router.RouteOption{signedIn, perm(model.PermViewProfile)}},
		{"/logout", s.logout, nil},
	}
}

func (s *Session) registerRoutes() error {
	for _, r := range s.routes() {
		if err := s.Router.Register(r.pattern, r.handler, r.opts...); err != nil {
			return err
		}
	}
	s.Router.SetNotFoundHandler(func(context.Context, string) router.View {
		return router.Markup(notFoundMarkup)
	})
	return nil
}

// page renders the named component inside the layout. pattern stands in
// for the path when choosing the title and active navigation entry.
func (s *Session) page(pattern, name string) router.Handler {
	return func(ctx context.Context, params router.Params, query router.Query) (router.View, error) {
		props := components.Props{Path: pattern, Params: params, Query: query}
		content, err := s.Components.Render(ctx, name, props)
		if err != nil {
			return nil, err
		}
		props.Content = content
		shell, err := s.Components.Render(ctx, components.NameLayout, props)
		if err != nil {
			return nil, err
		}
		return router.Node(shell), nil
	}
}

func (s *Session) authPage(mode string) router.Handler {
	return func(ctx context.Context, params router.Params, query router.Query) (router.View, error) {
		form, err := s.Components.Render(ctx, components.NameAuthForm, components.Props{
			Path: "/" + mode, Params: params, Query: query, Mode: mode,
		})
		if err != nil {
			return nil, err
		}
		return router.Node(form), nil
	}
}

// redirect navigates to path and keeps the current view mounted.
func (s *Session) redirect(path string) router.Handler {
	return func(context.Context, router.Params, router.Query) (router.View, error) {
		s.Router.Navigate(path, nil)
		return nil, nil
	}
}

func (s *Session) logout(context.Context, router.Params, router.Query) (router.View, error) {
	s.Auth.Logout()
	s.Router.Navigate(router.LoginPath, nil)
	toast.Info(s.toasts, "You have been logged out")
	return nil, nil
}
