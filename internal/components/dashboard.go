package components

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/vdom"
)

const recentContracts = 5

type dashboard struct {
	deps Deps
}

func newDashboard(d Deps) (Component, error) {
	if err := requireData(d, NameDashboard); err != nil {
		return nil, err
	}
	return &dashboard{deps: d}, nil
}

func (c *dashboard) Render(_ context.Context, _ Props) (*vdom.VNode, error) {
	u := c.deps.Store.CurrentUser()
	if u == nil {
		return nil, errors.New("E302")
	}
	stats := c.deps.Data.ContractStats(u.ID)
	contracts, _ := state.Get[[]model.Contract](c.deps.Store, state.KeyContracts)

	return vdom.Div(vdom.ID("dashboard"), vdom.Class("dashboard-container"),
		c.welcome(u),
		metricsSection(stats),
		vdom.Section(vdom.Class("charts-section"),
			vdom.H2("Activity Overview"),
			vdom.Div(vdom.Class("charts-grid"),
				activityChart(stats.ActivityByMonth),
				typeDistribution(stats),
			),
		),
		recentSection(contracts),
	), nil
}

func (c *dashboard) welcome(u *model.User) *vdom.VNode {
	hour := c.deps.Now().Hour()
	greeting := "Good evening"
	switch {
	case hour < 12:
		greeting = "Good morning"
	case hour < 18:
		greeting = "Good afternoon"
	}
	return vdom.Section(vdom.Class("welcome-section"),
		vdom.Div(vdom.Class("welcome-text"),
			vdom.H1(vdom.ID("greeting"), greeting+", "+u.Name),
			vdom.P("Here's an overview of your contracts and recent activity"),
		),
		vdom.Div(vdom.Class("welcome-actions"),
			vdom.If(c.deps.Store.HasPermission(model.PermCreateContracts),
				vdom.A(vdom.HashHref("/contracts/new"), vdom.Class("btn btn-primary"), icon("fas fa-plus mr-2"), "New Contract")),
			vdom.A(vdom.HashHref("/contracts"), vdom.Class("btn btn-secondary"), icon("fas fa-file-contract mr-2"), "View All Contracts"),
		),
	)
}

type metric struct {
	id, title, icon, iconClass, link string
	value                            int
}

func metricsSection(s model.ContractStats) *vdom.VNode {
	metrics := []metric{
		{"metric-total", "Total Contracts", "fas fa-file-contract", "bg-primary", "/contracts", s.Total},
		{"metric-pending", "Pending Signatures", "fas fa-clock", "bg-warning", "/contracts?status=pending", s.Pending},
		{"metric-signed", "Signed Contracts", "fas fa-check-circle", "bg-success", "/contracts?status=signed", s.Signed},
		{"metric-expired", "Expired Contracts", "fas fa-exclamation-circle", "bg-error", "/contracts?status=expired", s.Expired},
	}
	return vdom.Section(vdom.Class("metrics-section"),
		vdom.H2("Contract Metrics"),
		vdom.Div(vdom.Class("metrics-grid"), vdom.Range(metrics, func(m metric, _ int) *vdom.VNode {
			return vdom.A(vdom.ID(m.id), vdom.HashHref(m.link), vdom.Class("metric-card"),
				vdom.Div(vdom.Class("metric-header"),
					vdom.Div(vdom.Class("metric-icon", m.iconClass), icon(m.icon)),
					vdom.Div(vdom.Class("metric-title"), m.title),
				),
				vdom.Div(vdom.Class("metric-value"), formatNumber(m.value)),
			)
		})),
	)
}

func activityChart(months []model.MonthActivity) *vdom.VNode {
	peak := 1
	for _, m := range months {
		peak = max(peak, m.Created, m.Signed, m.Expired)
	}
	bar := func(kind string, n int) *vdom.VNode {
		return vdom.Div(vdom.Class("chart-bar", "bar-"+kind),
			vdom.StyleAttr(fmt.Sprintf("height: %d%%", n*100/peak)),
			vdom.TitleAttr(titleCase(kind)+": "+strconv.Itoa(n)),
		)
	}
	return card("activity-chart",
		cardHeader("Contract Activity"),
		vdom.Div(vdom.Class("chart-legend"),
			vdom.Span(vdom.Class("legend-item legend-created"), "Created"),
			vdom.Span(vdom.Class("legend-item legend-signed"), "Signed"),
			vdom.Span(vdom.Class("legend-item legend-expired"), "Expired"),
		),
		vdom.Div(vdom.ID("activity-chart"), vdom.Class("chart-bars"), vdom.Range(months, func(m model.MonthActivity, _ int) *vdom.VNode {
			return vdom.Div(vdom.Class("chart-month"),
				vdom.Data("month", m.Month),
				vdom.Div(vdom.Class("chart-group"),
					bar("created", m.Created),
					bar("signed", m.Signed),
					bar("expired", m.Expired),
				),
				vdom.Div(vdom.Class("chart-label"), m.Month),
			)
		})),
	)
}

func typeDistribution(s model.ContractStats) *vdom.VNode {
	types := make([]string, 0, len(s.TypeDistribution))
	for t := range s.TypeDistribution {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b string) int {
		if d := s.TypeDistribution[b] - s.TypeDistribution[a]; d != 0 {
			return d
		}
		if a < b {
			return -1
		}
		return 1
	})
	return card("type-distribution",
		cardHeader("Contract Types"),
		vdom.Ul(vdom.ID("type-distribution"), vdom.Class("distribution-list"), vdom.Range(types, func(t string, _ int) *vdom.VNode {
			n := s.TypeDistribution[t]
			return vdom.Li(vdom.Class("distribution-item"), vdom.Data("type", t),
				vdom.Span(vdom.Class("distribution-label"), t),
				vdom.Span(vdom.Class("distribution-count"), formatNumber(n)),
				vdom.Span(vdom.Class("distribution-percent"), formatPercent(n, s.Total)),
			)
		})),
	)
}

func recentSection(contracts []model.Contract) *vdom.VNode {
	recent := slices.Clone(contracts)
	slices.SortStableFunc(recent, func(a, b model.Contract) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(recent) > recentContracts {
		recent = recent[:recentContracts]
	}

	var body *vdom.VNode
	if len(recent) == 0 {
		body = emptyState("fas fa-file-contract", "No contracts yet", "Contracts you create will appear here.")
	} else {
		body = vdom.Table(vdom.ID("recent-contracts"), vdom.Class("table"),
			vdom.Thead(vdom.Tr(vdom.Th("Contract Name"), vdom.Th("Type"), vdom.Th("Status"), vdom.Th("Created"), vdom.Th("Value"))),
			vdom.Tbody(vdom.Range(recent, func(c model.Contract, _ int) *vdom.VNode {
				return vdom.Tr(vdom.Data("id", strconv.Itoa(c.ID)),
					vdom.Td(vdom.A(vdom.HashHref(contractPath(c.ID)), c.Title)),
					vdom.Td(c.Type),
					vdom.Td(statusBadge(c.Status)),
					vdom.Td(formatDate(c.CreatedAt)),
					vdom.Td(formatCurrency(c.Value)),
				)
			})),
		)
	}
	return vdom.Section(vdom.Class("recent-contracts-section"),
		vdom.Div(vdom.Class("section-header"),
			vdom.H2("Recent Contracts"),
			vdom.A(vdom.HashHref("/contracts"), vdom.Class("btn-link"), "View All ", icon("fas fa-arrow-right")),
		),
		body,
	)
}
