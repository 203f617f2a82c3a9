package router

import (
	"slices"
	"sync"

	"github.com/contractflow/dashboard/pkg/vdom"
)

// LoadingID is the id of the persistent loading indicator.
const LoadingID = "loading"

// Container is the application mount point. It always holds the loading
// indicator followed by the mounted view.
type Container struct {
	mu        sync.Mutex
	loading   *vdom.VNode
	content   []*vdom.VNode
	observers []func(tree *vdom.VNode)
}

// NewContainer creates an empty container with a hidden loading indicator.
func NewContainer() *Container {
	return &Container{
		loading: vdom.Div(
			vdom.ID(LoadingID),
			vdom.Class("loading-container", "hidden"),
			vdom.Div(vdom.Class("spinner")),
		),
	}
}

// MountView replaces everything except the loading indicator with the
// view's nodes.
func (c *Container) MountView(view View) error {
	nodes, err := view.Nodes()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.content = append([]*vdom.VNode(nil), nodes...)
	c.mu.Unlock()

	c.changed()
	return nil
}

// SetLoading shows or hides the loading indicator.
func (c *Container) SetLoading(on bool) {
	c.mu.Lock()
	c.loading.SetClass("hidden", !on)
	c.mu.Unlock()

	c.changed()
}

// Loading reports whether the loading indicator is visible.
func (c *Container) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loading.HasClass("hidden")
}

// Tree returns the container's current contents as a fragment. The
// loading node is copied so later SetLoading calls don't alter it.
func (c *Container) Tree() *vdom.VNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.treeLocked()
}

func (c *Container) treeLocked() *vdom.VNode {
	loading := *c.loading
	loading.Props = make(vdom.Props, len(c.loading.Props))
	for k, v := range c.loading.Props {
		loading.Props[k] = v
	}
	children := make([]*vdom.VNode, 0, len(c.content)+1)
	children = append(children, &loading)
	children = append(children, c.content...)
	return vdom.Fragment(children)
}

// OnChange registers fn to receive the tree after every mount or loading
// toggle.
func (c *Container) OnChange(fn func(tree *vdom.VNode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Container) changed() {
	c.mu.Lock()
	observers := slices.Clone(c.observers)
	var tree *vdom.VNode
	if len(observers) > 0 {
		tree = c.treeLocked()
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(tree)
	}
}
