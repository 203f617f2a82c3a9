package components

import (
	"context"
	"strconv"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// Form field names read by the createContract action.
const (
	FieldTitle      = "title"
	FieldType       = "type"
	FieldTemplateID = "templateId"
	FieldSummary    = "summary"
	FieldTags       = "tags"
	FieldStatus     = "status"
	FieldValue      = "value"
)

var contractTypeLabels = [][2]string{
	{"", "Select contract type"},
	{"Employment", "Employment"},
	{"NDA", "Non-Disclosure Agreement"},
	{"Services", "Services Agreement"},
	{"Partnership", "Partnership Agreement"},
	{"Lease", "Lease Agreement"},
}

type contractCreate struct {
	deps Deps
}

func newContractCreate(d Deps) (Component, error) {
	if err := requireData(d, NameContractCreate); err != nil {
		return nil, err
	}
	return &contractCreate{deps: d}, nil
}

func (c *contractCreate) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	var selected *model.Template
	if id, err := strconv.Atoi(props.Query.Get("template")); err == nil {
		if t, err := c.deps.Data.Template(id); err == nil {
			selected = &t
		}
	}

	templates := [][2]string{{"", "Start from scratch"}}
	for _, t := range c.deps.Data.Templates() {
		templates = append(templates, [2]string{strconv.Itoa(t.ID), t.Name})
	}
	selectedID, selectedType := "", ""
	if selected != nil {
		selectedID = strconv.Itoa(selected.ID)
		selectedType = templateContractType(selected.Category)
	}

	return vdom.Div(vdom.ID("contract-create"), vdom.Class("contract-create-container"),
		vdom.Div(vdom.Class("page-header"),
			vdom.A(vdom.HashHref("/contracts"), vdom.Class("back-link"), icon("fas fa-arrow-left"), " Back to Contracts"),
			vdom.H1("Create New Contract"),
		),
		vdom.Form(vdom.ID("contract-create-form"), vdom.Class("create-form"), vdom.DataAction("createContract"),
			vdom.Section(vdom.Class("form-section"),
				vdom.H2("Basic Information"),
				field("contract-title", "Contract Title",
					textInput("contract-title", FieldTitle, "text", "", vdom.Required(), vdom.Placeholder("Enter contract title"))),
				field("contract-type", "Contract Type", selectInput("contract-type", FieldType, selectedType, contractTypeLabels)),
				field("contract-value", "Contract Value (USD)",
					textInput("contract-value", FieldValue, "number", "", vdom.Min("0"), vdom.Step("1"))),
			),
			vdom.Section(vdom.Class("form-section"),
				vdom.H2("Template Selection"),
				field("contract-template", "Select Template (Optional)",
					selectInput("contract-template", FieldTemplateID, selectedID, templates)),
				vdom.When(selected != nil, func() *vdom.VNode {
					return vdom.Div(vdom.ID("template-preview"), vdom.Class("template-preview"),
						vdom.H4(vdom.ID("preview-title"), selected.Name),
						vdom.Span(vdom.ID("preview-category"), vdom.Class("badge"), selected.Category),
						vdom.P(vdom.ID("preview-description"), selected.Description),
					)
				}),
			),
			vdom.Section(vdom.Class("form-section"),
				vdom.H2("Contract Details"),
				field("contract-summary", "Summary",
					vdom.Textarea(vdom.ID("contract-summary"), vdom.Name(FieldSummary), vdom.Class("form-control"), vdom.Rows(4))),
				field("contract-tags", "Tags",
					textInput("contract-tags", FieldTags, "text", "", vdom.Placeholder("Comma separated"))),
				field("contract-status", "Initial Status", selectInput("contract-status", FieldStatus, string(model.StatusDraft), [][2]string{
					{string(model.StatusDraft), "Draft"},
					{string(model.StatusPending), "Pending Signature"},
				})),
			),
			vdom.Div(vdom.Class("form-actions"),
				vdom.A(vdom.ID("cancel-create"), vdom.HashHref("/contracts"), vdom.Class("btn btn-secondary"), "Cancel"),
				vdom.Button(vdom.ID("submit-create"), vdom.Type("submit"), vdom.Class("btn btn-primary"), "Create Contract"),
			),
		),
	), nil
}

// templateContractType maps a template category onto a contract type.
func templateContractType(category string) string {
	switch category {
	case "Employment":
		return "Employment"
	case "Legal":
		return "NDA"
	case "Services", "Technology", "Creative", "Sales":
		return "Services"
	case "Business":
		return "Partnership"
	case "Real Estate":
		return "Lease"
	default:
		return ""
	}
}
