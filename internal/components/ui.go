package components

import (
	"strconv"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/vdom"
)

func icon(class string) *vdom.VNode {
	return vdom.I(vdom.Class(class), vdom.AriaHidden(true))
}

func statusBadge(s model.ContractStatus) *vdom.VNode {
	return vdom.Span(vdom.Class("status-badge", "status-"+string(s)), statusLabel(s))
}

func card(class string, children ...any) *vdom.VNode {
	return vdom.Div(append([]any{vdom.Class("card", class)}, children...)...)
}

func cardHeader(title string, actions ...any) *vdom.VNode {
	return vdom.Div(append([]any{vdom.Class("card-header"), vdom.H3(vdom.Class("card-title"), title)}, actions...)...)
}

func emptyState(iconClass, title, message string, extra ...any) *vdom.VNode {
	return vdom.Div(append([]any{
		vdom.Class("empty-state"),
		icon(iconClass + " empty-icon"),
		vdom.H3(title),
		vdom.P(message),
	}, extra...)...)
}

func linkButton(path, class, label string) *vdom.VNode {
	return vdom.A(vdom.HashHref(path), vdom.Class("btn", class), label)
}

// field renders a labelled form control.
func field(id, label string, control *vdom.VNode) *vdom.VNode {
	return vdom.Div(vdom.Class("form-group"),
		vdom.Label(vdom.For(id), label),
		control,
	)
}

func textInput(id, name, typ, value string, attrs ...any) *vdom.VNode {
	return vdom.Input(append([]any{
		vdom.ID(id), vdom.Name(name), vdom.Type(typ), vdom.Class("form-control"),
		vdom.AttrIf(value != "", vdom.Value(value)),
	}, attrs...)...)
}

// selectInput renders a select whose options are value/label pairs.
func selectInput(id, name, selected string, options [][2]string) *vdom.VNode {
	opts := make([]*vdom.VNode, len(options))
	for i, o := range options {
		opts[i] = vdom.Option(vdom.Value(o[0]), vdom.AttrIf(o[0] == selected, vdom.Selected()), o[1])
	}
	return vdom.Select(vdom.ID(id), vdom.Name(name), vdom.Class("form-control"), opts)
}

func contractPath(id int) string {
	return "/contracts/" + strconv.Itoa(id)
}

func templatePath(id int) string {
	return "/templates/" + strconv.Itoa(id)
}

func requireStore(d Deps, name string) error {
	if d.Store == nil {
		return errors.New("E450").WithDetailf("%s needs a state store", name)
	}
	return nil
}

func requireData(d Deps, name string) error {
	if err := requireStore(d, name); err != nil {
		return err
	}
	if d.Data == nil {
		return errors.New("E450").WithDetailf("%s needs a data source", name)
	}
	return nil
}
