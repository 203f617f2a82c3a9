package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/contractflow/dashboard/pkg/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// displayLang is the language numbers and labels are formatted in.
var displayLang = language.AmericanEnglish

var printer = message.NewPrinter(displayLang)

// formatCurrency formats whole dollars with grouping, e.g. "$12,500".
func formatCurrency(v int64) string {
	if v < 0 {
		return printer.Sprintf("-$%d", -v)
	}
	return printer.Sprintf("$%d", v)
}

// formatNumber formats n with grouping separators.
func formatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// formatPercent formats part/total as a whole percentage.
func formatPercent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return printer.Sprintf("%d%%", part*100/total)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// titleCase turns "pending" into "Pending" and "real estate" into
// "Real Estate".
func titleCase(s string) string {
	return cases.Title(displayLang).String(strings.ReplaceAll(s, "_", " "))
}

// fold normalizes s for case-insensitive matching.
func fold(s string) string {
	return cases.Fold().String(s)
}

func statusLabel(s model.ContractStatus) string {
	return titleCase(string(s))
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleAdmin:
		return "Administrator"
	case model.RoleEditor:
		return "Editor"
	case model.RoleViewer:
		return "Viewer"
	default:
		return string(r)
	}
}

// timeAgo renders how long before now t was.
func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return formatDate(t)
	}
}

func notificationIcon(kind string) string {
	switch kind {
	case "contract_signed":
		return "fas fa-check-circle text-success"
	case "contract_expired":
		return "fas fa-exclamation-circle text-error"
	case "contract_created":
		return "fas fa-file-contract text-primary"
	case "invitation":
		return "fas fa-user-plus text-info"
	case "reminder":
		return "fas fa-bell text-warning"
	default:
		return "fas fa-bell"
	}
}
