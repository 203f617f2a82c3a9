package router

import (
	"context"

	"github.com/contractflow/dashboard/pkg/vdom"
)

const (
	notFoundMarkup = `<div class="text-center p-5"><h2>Page Not Found</h2>` +
		`<p>The page you are looking for does not exist.</p>` +
		`<a href="#/" class="btn btn-primary">Go to Dashboard</a></div>`

	accessDeniedMarkup = `<div class="text-center p-5"><h2>Access Denied</h2>` +
		`<p>You do not have permission to access this page.</p>` +
		`<a href="#/" class="btn btn-primary">Go to Dashboard</a></div>`
)

func defaultNotFound(context.Context, string) View {
	return Markup(notFoundMarkup)
}

func defaultAccessDenied(context.Context, string) View {
	return Markup(accessDeniedMarkup)
}

// ErrorView is the default view for a failed handler.
func ErrorView(_ context.Context, err error) View {
	return Node(vdom.Div(vdom.Class("view-wrapper"),
		vdom.Div(vdom.Class("text-center", "p-5"),
			vdom.H2(vdom.Text("Error")),
			vdom.P(vdom.Text("An error occurred while loading this page.")),
			vdom.CustomElement("pre", vdom.Text(err.Error())),
			vdom.A(vdom.HashHref("/"), vdom.Class("btn", "btn-primary"), vdom.Text("Go to Dashboard")),
		),
	))
}
