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

type templateList struct {
	deps Deps
}

func newTemplateList(d Deps) (Component, error) {
	if err := requireStore(d, NameTemplateList); err != nil {
		return nil, err
	}
	return &templateList{deps: d}, nil
}

func (c *templateList) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	templates, _ := state.Get[[]model.Template](c.deps.Store, state.KeyTemplates)
	category := props.Query.Get("category")
	search := strings.TrimSpace(props.Query.Get("search"))
	shown := filterTemplates(templates, category, search)

	categories := [][2]string{{"", "All Categories"}}
	for _, cat := range templateCategories(templates) {
		categories = append(categories, [2]string{cat, cat})
	}

	var grid *vdom.VNode
	if len(shown) == 0 {
		grid = emptyState("fas fa-search", "No Templates Found", "Try adjusting your search or filters")
	} else {
		grid = vdom.Div(vdom.ID("templates-grid"), vdom.Class("templates-grid"), vdom.Range(shown, func(t model.Template, _ int) *vdom.VNode {
			return templateCard(t)
		}))
	}

	return vdom.Div(vdom.ID("template-list"), vdom.Class("template-list-container"),
		vdom.Div(vdom.Class("list-header"),
			vdom.Div(vdom.Class("list-title"),
				vdom.H1("Templates"),
				vdom.P(vdom.Class("text-secondary"), "Browse and use contract templates"),
			),
		),
		vdom.Form(vdom.ID("template-filters"), vdom.Class("filters-section"), vdom.DataAction("filterTemplates"),
			field("template-search", "Search Templates",
				textInput("template-search", "search", "text", search, vdom.Placeholder("Search by name, description or category"))),
			field("template-category", "Category", selectInput("template-category", "category", category, categories)),
			vdom.Button(vdom.Type("submit"), vdom.Class("btn btn-secondary"), "Apply"),
			vdom.If(category != "" || search != "",
				vdom.A(vdom.ID("clear-template-filters"), vdom.HashHref("/templates"), vdom.Class("btn btn-text"), "Clear Filters")),
		),
		grid,
	), nil
}

func templateCard(t model.Template) *vdom.VNode {
	return vdom.Div(vdom.Class("template-card"), vdom.Data("id", strconv.Itoa(t.ID)),
		vdom.Div(vdom.Class("template-icon", strings.ToLower(strings.ReplaceAll(t.Category, " ", "-"))), icon(templateIcon(t.Category))),
		vdom.H3(vdom.A(vdom.HashHref(templatePath(t.ID)), t.Name)),
		vdom.Span(vdom.Class("badge template-category"), t.Category),
		vdom.P(vdom.Class("template-description"), t.Description),
		vdom.Div(vdom.Class("template-footer"),
			vdom.Small(vdom.Class("text-secondary"), "Updated "+formatDate(t.UpdatedAt)),
			linkButton("/contracts/new?template="+strconv.Itoa(t.ID), "btn-primary btn-sm use-template", "Use Template"),
		),
	)
}

// filterTemplates keeps templates whose category contains category and
// whose name, description or category contains search, sorted by name.
func filterTemplates(templates []model.Template, category, search string) []model.Template {
	category, search = fold(category), fold(search)
	out := make([]model.Template, 0, len(templates))
	for _, t := range templates {
		cat := fold(t.Category)
		if category != "" && !strings.Contains(cat, category) {
			continue
		}
		if search != "" && !strings.Contains(fold(t.Name), search) &&
			!strings.Contains(fold(t.Description), search) && !strings.Contains(cat, search) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b model.Template) int {
		return strings.Compare(fold(a.Name), fold(b.Name))
	})
	return out
}

func templateCategories(templates []model.Template) []string {
	var cats []string
	for _, t := range templates {
		if !slices.Contains(cats, t.Category) {
			cats = append(cats, t.Category)
		}
	}
	slices.Sort(cats)
	return cats
}

func templateIcon(category string) string {
	switch fold(category) {
	case "employment":
		return "fas fa-user-tie"
	case "legal", "nda":
		return "fas fa-user-secret"
	case "services":
		return "fas fa-handshake"
	case "business", "partnership":
		return "fas fa-hands-helping"
	case "real estate", "lease":
		return "fas fa-home"
	case "sales":
		return "fas fa-shopping-cart"
	default:
		return "fas fa-file-contract"
	}
}
