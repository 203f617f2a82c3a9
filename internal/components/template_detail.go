package components

import (
	"context"
	"strconv"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

const relatedTemplates = 3

type templateDetail struct {
	deps Deps
}

func newTemplateDetail(d Deps) (Component, error) {
	if err := requireData(d, NameTemplateDetail); err != nil {
		return nil, err
	}
	return &templateDetail{deps: d}, nil
}

func (c *templateDetail) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	id, err := strconv.Atoi(props.Params.Get("id"))
	if err != nil {
		return templateNotFound(), nil
	}
	t, err := c.deps.Data.Template(id)
	if err != nil {
		return templateNotFound(), nil
	}

	contracts, _ := state.Get[[]model.Contract](c.deps.Store, state.KeyContracts)
	var using []model.Contract
	for _, ct := range contracts {
		if ct.TemplateID == t.ID {
			using = append(using, ct)
		}
	}

	creator := "Unknown"
	if u, err := c.deps.Data.User(t.CreatedBy); err == nil {
		creator = u.Name
	}

	return vdom.Div(vdom.ID("template-detail"), vdom.Class("template-detail-container"), vdom.Data("id", strconv.Itoa(t.ID)),
		vdom.Div(vdom.Class("detail-header"),
			vdom.A(vdom.HashHref("/templates"), vdom.Class("back-link"), icon("fas fa-arrow-left"), " Back to Templates"),
			vdom.H1(vdom.ID("template-name"), t.Name),
			vdom.If(c.deps.Store.HasPermission(model.PermCreateContracts),
				linkButton("/contracts/new?template="+strconv.Itoa(t.ID), "btn-primary", "Use Template")),
		),
		card("template-overview",
			cardHeader("Overview"),
			vdom.P(t.Description),
			vdom.Dl(vdom.Class("detail-list"),
				vdom.Dt("Category"), vdom.Dd(t.Category),
				vdom.Dt("Created"), vdom.Dd(formatDate(t.CreatedAt)+" by "+creator),
				vdom.Dt("Last Updated"), vdom.Dd(formatDate(t.UpdatedAt)),
				vdom.Dt("Usage Count"), vdom.Dd(vdom.ID("usage-count"), formatNumber(len(using))),
			),
			vdom.IfElse(len(t.Tags) > 0,
				vdom.Div(vdom.Class("tags"), vdom.Range(t.Tags, func(tag string, _ int) *vdom.VNode {
					return vdom.Span(vdom.Class("tag"), tag)
				})),
				vdom.P(vdom.Class("text-secondary"), "No tags added to this template."),
			),
		),
		card("template-usage",
			cardHeader("Contracts Using This Template"),
			vdom.IfElse(len(using) > 0,
				vdom.Ul(vdom.ID("template-contracts"), vdom.Class("related-list"), vdom.Range(using, func(ct model.Contract, _ int) *vdom.VNode {
					return vdom.Li(vdom.A(vdom.HashHref(contractPath(ct.ID)), ct.Title), " ", statusBadge(ct.Status))
				})),
				vdom.P(vdom.Class("text-secondary"), "No contracts use this template yet."),
			),
		),
		c.related(t),
	), nil
}

// related lists other templates in the same category.
func (c *templateDetail) related(t model.Template) *vdom.VNode {
	var same []model.Template
	for _, o := range c.deps.Data.Templates() {
		if o.ID != t.ID && o.Category == t.Category && len(same) < relatedTemplates {
			same = append(same, o)
		}
	}
	return card("related-templates",
		cardHeader("Related Templates"),
		vdom.IfElse(len(same) > 0,
			vdom.Ul(vdom.Class("related-list"), vdom.Range(same, func(o model.Template, _ int) *vdom.VNode {
				return vdom.Li(vdom.A(vdom.HashHref(templatePath(o.ID)), o.Name))
			})),
			vdom.P(vdom.Class("text-secondary"), "No related templates found."),
		),
	)
}

func templateNotFound() *vdom.VNode {
	return vdom.Div(vdom.ID("template-not-found"), vdom.Class("not-found-container"),
		icon("fas fa-exclamation-triangle not-found-icon"),
		vdom.H2("Template Not Found"),
		vdom.P("The template you are looking for does not exist or has been removed."),
		linkButton("/templates", "btn-primary", "Back to Templates"),
	)
}
