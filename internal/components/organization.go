package components

import (
	"context"
	"strconv"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

type organization struct {
	deps Deps
}

func newOrganization(d Deps) (Component, error) {
	if err := requireData(d, NameOrganization); err != nil {
		return nil, err
	}
	return &organization{deps: d}, nil
}

func (c *organization) Render(_ context.Context, _ Props) (*vdom.VNode, error) {
	org, ok := state.Get[*model.Organization](c.deps.Store, state.KeyOrganization)
	if !ok || org == nil {
		return emptyState("fas fa-building", "No Organization Found",
			"You are not part of any organization at the moment"), nil
	}

	var me int
	if u := c.deps.Store.CurrentUser(); u != nil {
		me = u.ID
	}

	return vdom.Div(vdom.ID("organization"), vdom.Class("organization-container"), vdom.Data("id", strconv.Itoa(org.ID)),
		vdom.Div(vdom.Class("org-header"),
			vdom.If(org.LogoURL != "", vdom.Img(vdom.Class("org-logo"), vdom.Src(org.LogoURL), vdom.Alt(org.Name))),
			vdom.Div(
				vdom.H1(vdom.ID("org-name"), org.Name),
				vdom.If(org.Description != "", vdom.P(vdom.Class("text-secondary"), org.Description)),
			),
			vdom.Span(vdom.Class("badge plan-badge"), titleCase(org.Plan)),
		),
		orgStats(org.Stats),
		vdom.Div(vdom.Class("org-grid"),
			c.members(org, me),
			invitations(org.PendingInvitations),
			departments(org.Departments),
			subscription(org.Subscription),
		),
	), nil
}

func orgStats(s model.OrganizationStats) *vdom.VNode {
	stat := func(label string, n int) *vdom.VNode {
		return vdom.Div(vdom.Class("stat-card"),
			vdom.Div(vdom.Class("stat-value"), formatNumber(n)),
			vdom.Div(vdom.Class("stat-label"), label),
		)
	}
	return vdom.Div(vdom.ID("org-stats"), vdom.Class("stats-grid"),
		stat("Total Contracts", s.TotalContracts),
		stat("Active Contracts", s.ActiveContracts),
		stat("Templates", s.TotalTemplates),
		stat("Members", s.TotalMembers),
	)
}

func (c *organization) members(org *model.Organization, me int) *vdom.VNode {
	members := c.deps.Data.OrganizationMembers(org.ID)
	if len(members) == 0 {
		return card("team-members", cardHeader("Team Members"), vdom.P("No members found"))
	}
	return card("team-members",
		cardHeader("Team Members"),
		vdom.Ul(vdom.ID("members"), vdom.Class("members-list"), vdom.Range(members, func(u model.User, _ int) *vdom.VNode {
			return vdom.Li(vdom.Class("member-item"), vdom.Data("id", strconv.Itoa(u.ID)),
				avatar(&u),
				vdom.Div(vdom.Class("member-info"),
					vdom.Div(vdom.Class("member-name"), u.Name,
						vdom.If(u.ID == me, vdom.Span(vdom.Class("badge badge-you"), "You"))),
					vdom.Div(vdom.Class("member-email"), u.Email),
				),
				vdom.Span(vdom.Class("member-role"), roleLabel(u.Role)),
			)
		})),
	)
}

func invitations(invites []model.Invitation) *vdom.VNode {
	if len(invites) == 0 {
		return card("pending-invitations", cardHeader("Pending Invitations"), vdom.P("No pending invitations"))
	}
	return card("pending-invitations",
		cardHeader("Pending Invitations"),
		vdom.Ul(vdom.ID("invitations"), vdom.Class("invitations-list"), vdom.Range(invites, func(inv model.Invitation, _ int) *vdom.VNode {
			return vdom.Li(vdom.Class("invitation-item"),
				vdom.Div(vdom.Class("invitation-email"), inv.Email),
				vdom.Span(vdom.Class("member-role"), roleLabel(inv.Role)),
				vdom.Small(vdom.Class("text-secondary"), "Invited "+formatDate(inv.InvitedAt)),
			)
		})),
	)
}

func departments(deps []model.Department) *vdom.VNode {
	return card("departments",
		cardHeader("Departments"),
		vdom.IfElse(len(deps) > 0,
			vdom.Ul(vdom.ID("departments"), vdom.Class("departments-list"), vdom.Range(deps, func(d model.Department, _ int) *vdom.VNode {
				return vdom.Li(vdom.Class("department-item"),
					vdom.Span(vdom.Class("department-name"), d.Name),
					vdom.Span(vdom.Class("department-count"), printer.Sprintf("%d members", d.MemberCount)),
				)
			})),
			vdom.P(vdom.Class("text-secondary"), "No departments"),
		),
	)
}

func subscription(s model.Subscription) *vdom.VNode {
	if s.PlanID == "" {
		return nil
	}
	return card("subscription",
		cardHeader("Subscription"),
		vdom.Dl(vdom.Class("detail-list"),
			vdom.Dt("Plan"), vdom.Dd(vdom.ID("subscription-plan"), titleCase(s.PlanID)),
			vdom.Dt("Status"), vdom.Dd(titleCase(s.Status)),
			vdom.Dt("Billing"), vdom.Dd(titleCase(s.BillingCycle)),
			vdom.Dt("Next Billing Date"), vdom.Dd(formatDate(s.NextBillingDate)),
		),
		vdom.If(len(s.Features) > 0, vdom.Div(vdom.Class("plan-features"),
			vdom.H4("Plan Features"),
			vdom.Ul(vdom.Range(s.Features, func(f string, _ int) *vdom.VNode {
				return vdom.Li(icon("fas fa-check text-success"), " ", titleCase(f))
			})),
		)),
	)
}
