package components

import (
	"context"
	"strconv"
	"strings"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

type contractDetail struct {
	deps Deps
}

func newContractDetail(d Deps) (Component, error) {
	if err := requireData(d, NameContractDetail); err != nil {
		return nil, err
	}
	return &contractDetail{deps: d}, nil
}

func (c *contractDetail) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	id, err := strconv.Atoi(props.Params.Get("id"))
	if err != nil {
		return contractNotFound(), nil
	}
	ct, ok := c.lookup(id)
	if !ok {
		return contractNotFound(), nil
	}

	return vdom.Div(vdom.ID("contract-detail"), vdom.Class("contract-detail-container"), vdom.Data("id", strconv.Itoa(ct.ID)),
		vdom.Div(vdom.Class("detail-header"),
			vdom.A(vdom.HashHref("/contracts"), vdom.Class("back-link"), icon("fas fa-arrow-left"), " Back to Contracts"),
			vdom.H1(vdom.ID("contract-title"), ct.Title),
			statusBadge(ct.Status),
		),
		vdom.Div(vdom.Class("detail-grid"),
			vdom.Div(vdom.Class("detail-main"),
				c.overview(ct),
				parties(ct),
				history(ct),
			),
			vdom.Aside(vdom.Class("detail-sidebar"),
				c.actions(ct),
				c.related(ct),
			),
		),
	), nil
}

// lookup prefers the session's loaded contracts and falls back to the
// backend for contracts created since sign-in.
func (c *contractDetail) lookup(id int) (model.Contract, bool) {
	contracts, _ := state.Get[[]model.Contract](c.deps.Store, state.KeyContracts)
	for _, ct := range contracts {
		if ct.ID == id {
			return ct, true
		}
	}
	ct, err := c.deps.Data.Contract(id)
	return ct, err == nil
}

func contractNotFound() *vdom.VNode {
	return vdom.Div(vdom.ID("contract-not-found"), vdom.Class("not-found-container"),
		icon("fas fa-exclamation-triangle not-found-icon"),
		vdom.H2("Contract Not Found"),
		vdom.P("The contract you are looking for does not exist or has been deleted."),
		linkButton("/contracts", "btn-primary", "Back to Contracts"),
	)
}

func (c *contractDetail) overview(ct model.Contract) *vdom.VNode {
	creator := "Unknown"
	if u, err := c.deps.Data.User(ct.CreatedBy); err == nil {
		creator = u.Name
	}
	row := func(label string, value any) *vdom.VNode {
		return vdom.Fragment(vdom.Dt(label), vdom.Dd(value))
	}

	tags := vdom.Span(vdom.Class("text-secondary"), "No tags")
	if len(ct.Metadata.Tags) > 0 {
		tags = vdom.Span(vdom.Class("tags"), vdom.Range(ct.Metadata.Tags, func(tag string, _ int) *vdom.VNode {
			return vdom.Span(vdom.Class("tag"), tag)
		}))
	}

	return card("contract-overview",
		cardHeader("Contract Details"),
		vdom.Dl(vdom.Class("detail-list"),
			row("Contract ID:", "#"+strconv.Itoa(ct.ID)),
			row("Contract Type:", ct.Type),
			row("Value:", formatCurrency(ct.Value)),
			row("Created Date:", formatDate(ct.CreatedAt)),
			row("Last Modified:", formatDate(ct.UpdatedAt)),
			row("Expires:", formatDate(ct.ExpiresAt)),
			row("Created By:", creator),
			vdom.If(ct.Metadata.Department != "", row("Department:", ct.Metadata.Department)),
			vdom.If(ct.Metadata.Priority != "", row("Priority:", titleCase(ct.Metadata.Priority))),
			row("Tags:", tags),
		),
		vdom.If(ct.Summary != "", vdom.Div(vdom.Class("contract-summary"), vdom.H3("Summary"), vdom.P(ct.Summary))),
	)
}

func parties(ct model.Contract) *vdom.VNode {
	if len(ct.Parties) == 0 {
		return card("contract-parties", cardHeader("Parties Involved"),
			vdom.P(vdom.Class("text-secondary"), "No parties have been added yet."))
	}
	return card("contract-parties",
		cardHeader("Parties Involved"),
		vdom.Ul(vdom.ID("parties"), vdom.Class("parties-list"), vdom.Range(ct.Parties, func(p model.Party, _ int) *vdom.VNode {
			signed := vdom.Span(vdom.Class("party-status pending"), "Awaiting signature")
			if p.SignedAt != nil {
				signed = vdom.Span(vdom.Class("party-status signed"), "Signed "+formatDate(*p.SignedAt))
			}
			return vdom.Li(vdom.Class("party-item"),
				vdom.Div(vdom.Strong("Name: "), p.Name),
				vdom.Div(vdom.Strong("Email: "), p.Email),
				signed,
			)
		})),
	)
}

func history(ct model.Contract) *vdom.VNode {
	if len(ct.History) == 0 {
		return card("contract-history", cardHeader("Contract History"),
			vdom.P(vdom.Class("text-secondary"), "No history available for this contract"))
	}
	return card("contract-history",
		cardHeader("Contract History"),
		vdom.Ol(vdom.ID("history"), vdom.Class("timeline"), vdom.Range(ct.History, func(e model.HistoryEvent, _ int) *vdom.VNode {
			return vdom.Li(vdom.Class("timeline-item"), vdom.Data("action", e.Action),
				vdom.Div(vdom.Class("timeline-icon"), icon(eventIcon(e.Action))),
				vdom.Div(vdom.Class("timeline-content"),
					vdom.Div(vdom.Class("timeline-title"), describeEvent(e)),
					vdom.If(len(e.Changes) > 0, vdom.Ul(vdom.Class("timeline-changes"), vdom.Range(e.Changes, func(ch string, _ int) *vdom.VNode {
						return vdom.Li(ch)
					}))),
					vdom.Time_(vdom.Class("timeline-time"), formatDate(e.Timestamp)),
				),
			)
		})),
	)
}

func eventIcon(action string) string {
	switch action {
	case "created":
		return "fas fa-plus-circle"
	case "edited":
		return "fas fa-edit"
	case "sent", "shared":
		return "fas fa-share-alt"
	case "signed":
		return "fas fa-signature"
	case "completed":
		return "fas fa-check-double"
	case "expired":
		return "fas fa-hourglass-end"
	default:
		return "fas fa-circle"
	}
}

// describeEvent renders a one-line description such as
// "Signed by Partner (partner@example.com)".
func describeEvent(e model.HistoryEvent) string {
	action := titleCase(e.Action)
	switch {
	case e.System:
		return action + " automatically"
	case e.PartyName != "":
		return action + " by " + e.PartyName + " (" + e.PartyEmail + ")"
	case len(e.Recipients) > 0:
		return action + " to " + strings.Join(e.Recipients, ", ")
	case e.UserName != "":
		return action + " by " + e.UserName
	default:
		return action
	}
}

func (c *contractDetail) actions(ct model.Contract) *vdom.VNode {
	canEdit := c.deps.Store.HasPermission(model.PermEditContracts)
	return card("contract-actions",
		cardHeader("Contract Actions"),
		vdom.Div(vdom.Class("action-buttons"),
			vdom.If(ct.DocumentURL != "", vdom.A(vdom.Href(ct.DocumentURL), vdom.Class("btn btn-secondary"),
				icon("fas fa-download"), " Download")),
			vdom.If(canEdit && ct.TemplateID != 0, linkButton("/contracts/new?template="+strconv.Itoa(ct.TemplateID), "btn-secondary", "Create Similar")),
		),
	)
}

func (c *contractDetail) related(ct model.Contract) *vdom.VNode {
	if ct.TemplateID == 0 {
		return nil
	}
	t, err := c.deps.Data.Template(ct.TemplateID)
	if err != nil {
		return nil
	}
	return card("related-template",
		cardHeader("Template"),
		vdom.A(vdom.ID("template-link"), vdom.HashHref(templatePath(t.ID)), t.Name),
		vdom.P(vdom.Class("text-secondary"), t.Category),
	)
}
