package components

import (
	"context"
	"strconv"

	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

const contractsPath = "/contracts"

type contractList struct {
	deps Deps
}

func newContractList(d Deps) (Component, error) {
	if err := requireStore(d, NameContractList); err != nil {
		return nil, err
	}
	return &contractList{deps: d}, nil
}

func (c *contractList) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	contracts, _ := state.Get[[]model.Contract](c.deps.Store, state.KeyContracts)
	f := ParseFilter(props.Query)
	page := ApplyFilter(contracts, f)

	return vdom.Div(vdom.ID("contract-list"), vdom.Class("contract-list-container"),
		vdom.Div(vdom.Class("list-header"),
			vdom.Div(vdom.Class("list-title"),
				vdom.H1("Contracts"),
				vdom.P(vdom.Class("text-secondary"), "Manage your contracts"),
			),
			vdom.If(c.deps.Store.HasPermission(model.PermCreateContracts),
				vdom.Div(vdom.Class("list-actions"),
					linkButton("/contracts/new", "btn-primary", "New Contract"))),
		),
		filterForm(f, contractTypes(contracts)),
		c.table(f, page),
		pagination(f, page),
	), nil
}

func filterForm(f ContractFilter, types []string) *vdom.VNode {
	statuses := [][2]string{{"", "All Statuses"}}
	for _, s := range model.ContractStatuses {
		statuses = append(statuses, [2]string{string(s), statusLabel(s)})
	}
	typeOpts := [][2]string{{"", "All Types"}}
	for _, t := range types {
		typeOpts = append(typeOpts, [2]string{t, t})
	}

	return vdom.Form(vdom.ID("contract-filters"), vdom.Class("filters-section"), vdom.DataAction("filterContracts"),
		vdom.Div(vdom.Class("search-box"),
			textInput("search-input", "search", "text", f.Search, vdom.Placeholder("Search contracts...")),
			icon("fas fa-search"),
		),
		vdom.Div(vdom.Class("filters-controls"),
			field("status-filter", "Status", selectInput("status-filter", "status", f.Status, statuses)),
			field("type-filter", "Type", selectInput("type-filter", "type", f.Type, typeOpts)),
			field("date-from", "From", textInput("date-from", "dateFrom", "date", f.DateFrom)),
			field("date-to", "To", textInput("date-to", "dateTo", "date", f.DateTo)),
			vdom.Input(vdom.Type("hidden"), vdom.Name("sort"), vdom.Value(f.Query()["sort"])),
			vdom.Button(vdom.Type("submit"), vdom.Class("btn btn-secondary"), "Apply"),
			vdom.If(f.Active(), vdom.A(vdom.ID("clear-filters"), vdom.HashHref(contractsPath), vdom.Class("btn btn-text"), "Clear")),
		),
	)
}

var columns = []struct {
	field SortField
	label string
}{
	{SortTitle, "Contract Name"},
	{SortType, "Type"},
	{SortStatus, "Status"},
	{SortCreatedAt, "Created"},
	{SortExpiresAt, "Expires"},
	{SortValue, "Value"},
}

func (c *contractList) table(f ContractFilter, page ContractPage) *vdom.VNode {
	if page.Total == 0 {
		var hint *vdom.VNode
		if page.Suggestion != "" {
			q := f.Query()
			delete(q, "search")
			delete(q, "page")
			q["type"] = page.Suggestion
			hint = vdom.P(vdom.ID("search-suggestion"), vdom.Class("suggestion"),
				"Did you mean ",
				vdom.A(vdom.HashHref(router.BuildFragment(contractsPath, q)), page.Suggestion),
				"?",
			)
		}
		return emptyState("fas fa-search", "No contracts found", "Try adjusting your filters.", hint)
	}

	headers := make([]*vdom.VNode, len(columns))
	for i, col := range columns {
		active := f.Sort == col.field
		sortIcon := "fas fa-sort"
		if active && f.Desc {
			sortIcon = "fas fa-sort-down"
		} else if active {
			sortIcon = "fas fa-sort-up"
		}
		headers[i] = vdom.Th(vdom.Class("sortable"), vdom.ClassIf(active, "active"), vdom.Data("sort", string(col.field)),
			vdom.A(vdom.HashHref(router.BuildFragment(contractsPath, f.WithSort(col.field).Query())),
				col.label, " ", vdom.Span(vdom.Class("sort-icon"), icon(sortIcon))),
		)
	}

	return vdom.Table(vdom.ID("contracts-table"), vdom.Class("table contracts-table"),
		vdom.Thead(vdom.Tr(headers)),
		vdom.Tbody(vdom.Range(page.Items, func(ct model.Contract, _ int) *vdom.VNode {
			return vdom.Tr(vdom.Class("contract-row"), vdom.Data("id", strconv.Itoa(ct.ID)),
				vdom.Td(vdom.A(vdom.HashHref(contractPath(ct.ID)), ct.Title)),
				vdom.Td(ct.Type),
				vdom.Td(statusBadge(ct.Status)),
				vdom.Td(formatDate(ct.CreatedAt)),
				vdom.Td(formatDate(ct.ExpiresAt)),
				vdom.Td(formatCurrency(ct.Value)),
			)
		})),
	)
}

func pagination(f ContractFilter, page ContractPage) *vdom.VNode {
	if page.Total == 0 {
		return nil
	}
	from := (page.Page-1)*PerPage + 1
	to := from + len(page.Items) - 1
	pageLink := func(n int, label string, enabled bool) *vdom.VNode {
		if !enabled {
			return vdom.Span(vdom.Class("page-link disabled"), label)
		}
		return vdom.A(vdom.HashHref(router.BuildFragment(contractsPath, f.WithPage(n).Query())),
			vdom.Class("page-link"), vdom.ClassIf(n == page.Page, "active"), label)
	}

	links := []*vdom.VNode{pageLink(page.Page-1, "Previous", page.Page > 1)}
	for n := 1; n <= page.TotalPages; n++ {
		links = append(links, pageLink(n, strconv.Itoa(n), true))
	}
	links = append(links, pageLink(page.Page+1, "Next", page.Page < page.TotalPages))

	return vdom.Div(vdom.ID("pagination"), vdom.Class("pagination"),
		vdom.Div(vdom.Class("pagination-info"),
			printer.Sprintf("Showing %d to %d of %d contracts", from, to, page.Total)),
		vdom.Div(vdom.Class("pagination-controls"), links),
	)
}
