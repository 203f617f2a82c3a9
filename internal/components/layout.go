package components

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// notificationsShown caps the notifications dropdown.
const notificationsShown = 5

type navItem struct {
	label, icon, path, permission string
}

var navItems = []navItem{
	{"Dashboard", "fas fa-tachometer-alt", "/", model.PermViewDashboard},
	{"Contracts", "fas fa-file-contract", "/contracts", model.PermViewContracts},
	{"Templates", "fas fa-copy", "/templates", model.PermViewTemplates},
	{"Organization", "fas fa-building", "/organization", model.PermViewOrganization},
	{"Profile", "fas fa-user", "/profile", model.PermViewProfile},
}

type layout struct {
	deps Deps
}

func newLayout(d Deps) (Component, error) {
	if err := requireStore(d, NameLayout); err != nil {
		return nil, err
	}
	return &layout{deps: d}, nil
}

// Render wraps props.Content in the application shell.
func (l *layout) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	st := l.deps.Store
	return vdom.Div(
		vdom.Class("app-layout"),
		vdom.ClassIf(st.DarkMode(), "dark-mode"),
		l.sidebar(props.Path),
		vdom.Div(vdom.Class("main-content"),
			l.header(props.Path),
			vdom.Main(vdom.ID("content"), vdom.Class("content-area"), props.Content),
		),
	), nil
}

func (l *layout) sidebar(path string) *vdom.VNode {
	st := l.deps.Store
	var links []*vdom.VNode
	for _, item := range navItems {
		if !st.HasPermission(item.permission) {
			continue
		}
		active := isActivePath(path, item.path)
		links = append(links, vdom.A(
			vdom.HashHref(item.path),
			vdom.Class("nav-item"),
			vdom.ClassIf(active, "active"),
			vdom.AttrIf(active, vdom.AriaCurrent("page")),
			icon(item.icon),
			vdom.Span(item.label),
		))
	}

	var user *vdom.VNode
	if u := st.CurrentUser(); u != nil {
		user = vdom.Div(vdom.Class("user-info"),
			avatar(u),
			vdom.Div(vdom.Class("user-details"),
				vdom.Div(vdom.Class("user-name"), u.Name),
				vdom.Div(vdom.Class("user-role"), roleLabel(u.Role)),
			),
		)
	}

	return vdom.Aside(vdom.Class("sidebar"),
		vdom.Div(vdom.Class("sidebar-logo"),
			vdom.A(vdom.HashHref("/"), icon("fas fa-file-contract mr-2"), "ContractFlow"),
		),
		vdom.Nav(vdom.Class("sidebar-nav"), links),
		vdom.Div(vdom.Class("sidebar-user"),
			user,
			vdom.A(vdom.ID("logout-link"), vdom.HashHref("/logout"), vdom.Class("logout-button"),
				icon("fas fa-sign-out-alt"), "Logout"),
		),
	)
}

func (l *layout) header(path string) *vdom.VNode {
	st := l.deps.Store
	darkIcon := "fas fa-moon"
	if st.DarkMode() {
		darkIcon = "fas fa-sun"
	}
	return vdom.Header(vdom.Class("app-header"),
		vdom.H1(vdom.ID("page-title"), vdom.Class("page-title"), PageTitle(path)),
		vdom.Div(vdom.Class("header-actions"),
			vdom.If(st.HasPermission(model.PermCreateContracts),
				vdom.A(vdom.ID("new-contract-button"), vdom.HashHref("/contracts/new"),
					vdom.Class("btn btn-primary btn-sm"), icon("fas fa-plus mr-1"), "New Contract")),
			vdom.Button(vdom.ID("dark-mode-toggle"), vdom.Type("button"), vdom.Class("btn-icon"),
				vdom.TitleAttr("Toggle Dark Mode"), vdom.DataAction("toggleDarkMode"), icon(darkIcon)),
			l.notifications(),
		),
	)
}

func (l *layout) notifications() *vdom.VNode {
	notes, _ := state.Get[[]model.Notification](l.deps.Store, state.KeyNotifications)
	unread := 0
	for _, n := range notes {
		if !n.Read {
			unread++
		}
	}

	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b model.Notification) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(sorted) > notificationsShown {
		sorted = sorted[:notificationsShown]
	}

	now := l.deps.Now()
	var list *vdom.VNode
	if len(sorted) == 0 {
		list = vdom.Div(vdom.Class("empty-state"), "No notifications")
	} else {
		list = vdom.Div(vdom.Class("notifications-list"), vdom.Range(sorted, func(n model.Notification, _ int) *vdom.VNode {
			link := n.Link
			if link == "" {
				link = "/"
			}
			return vdom.A(vdom.HashHref(link), vdom.Class("notification-item"), vdom.ClassIf(!n.Read, "unread"),
				vdom.Div(vdom.Class("notification-icon"), icon(notificationIcon(n.Type))),
				vdom.Div(vdom.Class("notification-content"),
					vdom.Div(vdom.Class("notification-message"), n.Message),
					vdom.Div(vdom.Class("notification-time"), timeAgo(now, n.Timestamp)),
				),
			)
		}))
	}

	return vdom.Div(vdom.ID("notifications"), vdom.Class("dropdown notifications-dropdown"),
		vdom.Button(vdom.Type("button"), vdom.Class("dropdown-toggle btn-icon"), vdom.AriaLabel("Notifications"),
			icon("fas fa-bell"),
			vdom.If(unread > 0, vdom.Span(vdom.ID("unread-count"), vdom.Class("badge badge-notification"), strconv.Itoa(unread))),
		),
		vdom.Div(vdom.Class("dropdown-content"),
			vdom.Div(vdom.Class("dropdown-header"),
				vdom.H4("Notifications"),
				vdom.If(unread > 0, vdom.Button(vdom.Type("button"), vdom.Class("btn-text"),
					vdom.DataAction("markNotificationsRead"), "Mark all read")),
			),
			list,
		),
	)
}

func avatar(u *model.User) *vdom.VNode {
	if u.ProfileImage != "" {
		return vdom.Img(vdom.Class("user-avatar"), vdom.Src(u.ProfileImage), vdom.Alt(u.Name))
	}
	return vdom.Div(vdom.Class("user-avatar"), initials(u.Name))
}

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(f[:1]))
		if b.Len() == 2 {
			break
		}
	}
	return b.String()
}

// isActivePath reports whether the nav entry for item is current.
func isActivePath(path, item string) bool {
	if item == "/" {
		return path == "/" || path == "/dashboard"
	}
	return path == item || strings.HasPrefix(path, item+"/")
}

// PageTitle is the header title for path.
func PageTitle(path string) string {
	switch {
	case path == "/contracts/new":
		return "New Contract"
	case strings.HasPrefix(path, "/contracts/"):
		return "Contract Details"
	case path == "/contracts":
		return "Contracts"
	case strings.HasPrefix(path, "/templates/"):
		return "Template Details"
	case path == "/templates":
		return "Templates"
	case path == "/organization":
		return "Organization"
	case path == "/profile":
		return "Profile"
	default:
		return "Dashboard"
	}
}
