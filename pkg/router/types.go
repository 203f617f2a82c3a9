package router

import (
	"context"

	"github.com/contractflow/dashboard/pkg/vdom"
)

// Handler produces the view for a matched route. Returning a nil View
// leaves the mounted content as it is.
type Handler func(ctx context.Context, params Params, query Query) (View, error)

// NotFoundHandler produces the view for a path no route matches.
type NotFoundHandler func(ctx context.Context, path string) View

// ErrorHandler produces the view for a failed handler.
type ErrorHandler func(ctx context.Context, err error) View

// AccessDeniedHandler produces the view for a failed permission guard.
type AccessDeniedHandler func(ctx context.Context, permission string) View

// Authenticator reports whether the visitor is signed in.
type Authenticator interface {
	IsAuthenticated() bool
}

// PermissionChecker reports whether the visitor holds a permission.
type PermissionChecker interface {
	HasPermission(permission string) bool
}

// View is anything that yields nodes to mount.
type View interface {
	Nodes() ([]*vdom.VNode, error)
}

type nodeView []*vdom.VNode

func (v nodeView) Nodes() ([]*vdom.VNode, error) { return v, nil }

// Node returns a structured view that mounts the given nodes as they are.
func Node(nodes ...*vdom.VNode) View {
	out := make(nodeView, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Markup is a view given as HTML. It mounts inside <div class="view-wrapper">.
type Markup string

// Nodes parses the markup.
func (m Markup) Nodes() ([]*vdom.VNode, error) {
	children, err := vdom.ParseMarkup(string(m))
	if err != nil {
		return nil, err
	}
	return []*vdom.VNode{vdom.Div(vdom.Class("view-wrapper"), children)}, nil
}

// Param is one captured path segment.
type Param struct {
	Name  string
	Value string
}

// Params are captured path segments in pattern order.
type Params []Param

// Get returns the value of the named param, or "".
func (p Params) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

// Lookup returns the value of the named param.
func (p Params) Lookup(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Names returns the param names in order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Map returns the params as a map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}
	return m
}

// Query holds decoded query parameters.
type Query map[string]string

// Get returns the value of key, or "".
func (q Query) Get(key string) string {
	return q[key]
}

func (q Query) clone() Query {
	if q == nil {
		return nil
	}
	out := make(Query, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Guards are the preconditions checked before a route's handler runs.
type Guards struct {
	RequiresAuth       bool
	RequiredPermission string
}

// RouteOption configures route registration.
type RouteOption func(*Guards)

// RequiresAuth redirects unauthenticated visitors to /login.
func RequiresAuth() RouteOption {
	return func(g *Guards) { g.RequiresAuth = true }
}

// RequirePermission shows the access-denied view to visitors without permission.
func RequirePermission(permission string) RouteOption {
	return func(g *Guards) { g.RequiredPermission = permission }
}
