package components

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/mockdata"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// Component names.
const (
	NameLayout         = "Layout"
	NameDashboard      = "Dashboard"
	NameContractList   = "ContractList"
	NameContractDetail = "ContractDetail"
	NameContractCreate = "ContractCreate"
	NameTemplateList   = "TemplateList"
	NameTemplateDetail = "TemplateDetail"
	NameOrganization   = "Organization"
	NameUserProfile    = "UserProfile"
	NameAuthForm       = "AuthForm"
)

// Props are the inputs of one render.
type Props struct {
	// Path is the current route path.
	Path string

	Params router.Params
	Query  router.Query

	// Content is the page a Layout wraps.
	Content *vdom.VNode

	// Mode selects a variant, such as "login" or "register" for AuthForm.
	Mode string
}

// Component renders a view from the session state.
type Component interface {
	Render(ctx context.Context, props Props) (*vdom.VNode, error)
}

// Func is a function adapter for Component.
type Func func(ctx context.Context, props Props) (*vdom.VNode, error)

// Render implements Component.
func (f Func) Render(ctx context.Context, props Props) (*vdom.VNode, error) {
	return f(ctx, props)
}

// Deps are the collaborators components read from.
type Deps struct {
	Store  *state.Store
	Data   *mockdata.Data
	Logger *slog.Logger
	Now    func() time.Time
}

// Factory builds a component.
type Factory func(Deps) (Component, error)

type entry struct {
	factory Factory
	once    sync.Once
	done    atomic.Bool
	comp    Component
	err     error
}

// Registry maps names to components built lazily, at most once.
type Registry struct {
	deps Deps

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates a registry holding the dashboard components.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := &Registry{deps: deps, entries: make(map[string]*entry)}
	r.Register(NameLayout, newLayout)
	r.Register(NameDashboard, newDashboard)
	r.Register(NameContractList, newContractList)
	r.Register(NameContractDetail, newContractDetail)
	r.Register(NameContractCreate, newContractCreate)
	r.Register(NameTemplateList, newTemplateList)
	r.Register(NameTemplateDetail, newTemplateDetail)
	r.Register(NameOrganization, newOrganization)
	r.Register(NameUserProfile, newUserProfile)
	r.Register(NameAuthForm, newAuthForm)
	return r
}

// Register adds or replaces the factory for name. A replaced component is
// rebuilt on its next Load.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &entry{factory: f}
}

// Load returns the component registered as name, building it on first use.
// A factory failure is remembered and returned on every later call.
func (r *Registry) Load(name string) (Component, error) {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return nil, errors.New("E450").WithDetailf("no component named %q", name)
	}

	e.once.Do(func() {
		defer e.done.Store(true)
		e.comp, e.err = e.factory(r.deps)
		if e.err != nil {
			e.err = errors.FromError(e.err, "E450")
			r.deps.Logger.Error("component construction failed", "component", name, "error", e.err)
			return
		}
		r.deps.Logger.Debug("component loaded", "component", name)
	})
	return e.comp, e.err
}

// Loaded reports whether name has been built.
func (r *Registry) Loaded(name string) bool {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	return ok && e.done.Load()
}

// Names lists the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render loads name and renders it.
func (r *Registry) Render(ctx context.Context, name string, props Props) (*vdom.VNode, error) {
	c, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	return c.Render(ctx, props)
}
