package components

import (
	"context"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// Preference form field names read by the updatePreferences action.
// Checkboxes are absent from the submitted fields when unchecked.
const (
	PrefNotificationsEnabled = "notificationsEnabled"
	PrefEmailNotifications   = "emailNotifications"
	PrefContractReminders    = "contractReminders"
	PrefDashboardView        = "dashboardView"
)

type userProfile struct {
	deps Deps
}

func newUserProfile(d Deps) (Component, error) {
	if err := requireStore(d, NameUserProfile); err != nil {
		return nil, err
	}
	return &userProfile{deps: d}, nil
}

func (c *userProfile) Render(_ context.Context, _ Props) (*vdom.VNode, error) {
	st := c.deps.Store
	u := st.CurrentUser()
	if u == nil {
		return nil, errors.New("E302")
	}
	prefs := st.Preferences()

	var orgName string
	if org, ok := state.Get[*model.Organization](st, state.KeyOrganization); ok && org != nil {
		orgName = org.Name
	}

	return vdom.Div(vdom.ID("user-profile"), vdom.Class("profile-container"),
		vdom.Div(vdom.Class("profile-header"), vdom.H1("My Profile")),
		vdom.Div(vdom.Class("profile-grid"),
			card("personal-info",
				cardHeader("Personal Information"),
				vdom.Div(vdom.Class("profile-identity"),
					avatar(u),
					vdom.Div(
						vdom.H3(vdom.ID("profile-name"), u.Name),
						vdom.P(vdom.ID("profile-email"), vdom.Class("text-secondary"), u.Email),
					),
				),
				vdom.Dl(vdom.Class("detail-list"),
					vdom.Dt("Role"), vdom.Dd(vdom.ID("profile-role"), roleLabel(u.Role)),
					vdom.Dt("Account Type"), vdom.Dd(titleCase(string(u.AccountType))),
					vdom.If(orgName != "", vdom.Dt("Organization")),
					vdom.If(orgName != "", vdom.Dd(orgName)),
					vdom.Dt("Member Since"), vdom.Dd(formatDate(u.CreatedAt)),
				),
			),
			card("preferences",
				cardHeader("Preferences"),
				vdom.Form(vdom.ID("preferences-form"), vdom.Class("preferences-list"), vdom.DataAction("updatePreferences"),
					toggle(PrefNotificationsEnabled, "In-app Notifications", prefs.NotificationsEnabled),
					toggle(PrefEmailNotifications, "Email Notifications", prefs.EmailNotifications),
					toggle(PrefContractReminders, "Contract Reminders", prefs.ContractReminders),
					field("pref-"+PrefDashboardView, "Dashboard View", selectInput("pref-"+PrefDashboardView, PrefDashboardView,
						prefs.DashboardView, [][2]string{{"list", "List"}, {"grid", "Grid"}})),
					vdom.Button(vdom.Type("submit"), vdom.Class("btn btn-primary"), "Save Preferences"),
				),
				vdom.Div(vdom.Class("preference-item"),
					vdom.Span("Dark Mode"),
					vdom.Button(vdom.ID("profile-dark-mode"), vdom.Type("button"), vdom.Class("btn btn-secondary btn-sm"),
						vdom.DataAction("toggleDarkMode"), onOff(st.DarkMode())),
				),
			),
			c.activity(),
		),
	), nil
}

func (c *userProfile) activity() *vdom.VNode {
	contracts, _ := state.Get[[]model.Contract](c.deps.Store, state.KeyContracts)
	var signed, pending int
	for _, ct := range contracts {
		switch ct.Status {
		case model.StatusSigned:
			signed++
		case model.StatusPending:
			pending++
		}
	}
	stat := func(id, label, iconClass string, n int) *vdom.VNode {
		return vdom.Div(vdom.ID(id), vdom.Class("stat-item"),
			vdom.Span(vdom.Class("stat-value"), formatNumber(n)),
			vdom.Span(vdom.Class("stat-label"), icon(iconClass), " "+label),
		)
	}
	return card("activity-summary",
		cardHeader("Activity Summary"),
		vdom.Div(vdom.Class("activity-stats"),
			stat("stat-contracts", "Contracts", "fas fa-file-contract", len(contracts)),
			stat("stat-signed", "Signed", "fas fa-file-signature", signed),
			stat("stat-pending", "Pending", "fas fa-clock", pending),
		),
	)
}

func toggle(name, label string, on bool) *vdom.VNode {
	id := "pref-" + name
	return vdom.Div(vdom.Class("preference-item"),
		vdom.Label(vdom.For(id), label),
		vdom.Input(vdom.ID(id), vdom.Name(name), vdom.Type("checkbox"), vdom.Value("on"), vdom.AttrIf(on, vdom.Checked())),
	)
}

func onOff(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}
