package components

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/router"
)

// PerPage is the number of contracts on one list page.
const PerPage = 10

const dateLayout = "2006-01-02"

// maxSuggestDistance bounds how far a search term may be from a type name
// before no suggestion is made.
const maxSuggestDistance = 3

// SortField names a sortable contract column.
type SortField string

const (
	SortTitle     SortField = "title"
	SortType      SortField = "type"
	SortStatus    SortField = "status"
	SortValue     SortField = "value"
	SortCreatedAt SortField = "createdAt"
	SortExpiresAt SortField = "expiresAt"
)

var sortFields = []SortField{SortTitle, SortType, SortStatus, SortValue, SortCreatedAt, SortExpiresAt}

// ContractFilter is the list state carried in the URL query.
type ContractFilter struct {
	Status   string
	Type     string
	Search   string
	DateFrom string
	DateTo   string
	Sort     SortField
	Desc     bool
	Page     int
}

// DefaultFilter sorts newest first.
func DefaultFilter() ContractFilter {
	return ContractFilter{Sort: SortCreatedAt, Desc: true, Page: 1}
}

// ParseFilter reads a ContractFilter from q. Unknown sort fields and
// directions fall back to the default sort.
func ParseFilter(q router.Query) ContractFilter {
	f := DefaultFilter()
	f.Status = q.Get("status")
	f.Type = q.Get("type")
	f.Search = strings.TrimSpace(q.Get("search"))
	f.DateFrom = q.Get("dateFrom")
	f.DateTo = q.Get("dateTo")

	if s := q.Get("sort"); s != "" {
		field, dir, _ := strings.Cut(s, ":")
		if slices.Contains(sortFields, SortField(field)) && (dir == "asc" || dir == "desc") {
			f.Sort = SortField(field)
			f.Desc = dir == "desc"
		}
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	return f
}

// Query encodes f, omitting empty filters and the first page.
func (f ContractFilter) Query() router.Query {
	q := router.Query{}
	set := func(k, v string) {
		if v != "" {
			q[k] = v
		}
	}
	set("status", f.Status)
	set("type", f.Type)
	set("search", f.Search)
	set("dateFrom", f.DateFrom)
	set("dateTo", f.DateTo)
	dir := "asc"
	if f.Desc {
		dir = "desc"
	}
	q["sort"] = string(f.Sort) + ":" + dir
	if f.Page > 1 {
		q["page"] = strconv.Itoa(f.Page)
	}
	return q
}

// WithSort returns f sorted by field. Sorting by the current field flips
// the direction; a new field starts ascending. The page resets.
func (f ContractFilter) WithSort(field SortField) ContractFilter {
	if f.Sort == field {
		f.Desc = !f.Desc
	} else {
		f.Sort = field
		f.Desc = false
	}
	f.Page = 1
	return f
}

// WithPage returns f on page n.
func (f ContractFilter) WithPage(n int) ContractFilter {
	f.Page = n
	return f
}

// Active reports whether any narrowing filter is set.
func (f ContractFilter) Active() bool {
	return f.Status != "" || f.Type != "" || f.Search != "" || f.DateFrom != "" || f.DateTo != ""
}

// ContractPage is one page of a filtered, sorted contract list.
type ContractPage struct {
	Items      []model.Contract
	Total      int
	Page       int
	TotalPages int
	// Suggestion is a contract type close to the search term, set only
	// when nothing matched.
	Suggestion string
}

// ApplyFilter filters, sorts and paginates contracts. The input slice is
// not modified.
func ApplyFilter(contracts []model.Contract, f ContractFilter) ContractPage {
	var (
		search   = fold(f.Search)
		from, to time.Time
	)
	if t, err := time.Parse(dateLayout, f.DateFrom); err == nil {
		from = t
	}
	if t, err := time.Parse(dateLayout, f.DateTo); err == nil {
		to = t.Add(24*time.Hour - time.Nanosecond)
	}

	out := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		switch {
		case f.Status != "" && string(c.Status) != f.Status:
		case f.Type != "" && c.Type != f.Type:
		case search != "" && !strings.Contains(fold(c.Title), search) && !strings.Contains(fold(c.Type), search):
		case !from.IsZero() && c.CreatedAt.Before(from):
		case !to.IsZero() && c.CreatedAt.After(to):
		default:
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Contract) int {
		n := compareContracts(a, b, f.Sort)
		if f.Desc {
			return -n
		}
		return n
	})

	page := ContractPage{Total: len(out)}
	page.TotalPages = max(1, (len(out)+PerPage-1)/PerPage)
	page.Page = min(max(f.Page, 1), page.TotalPages)

	start := (page.Page - 1) * PerPage
	end := min(start+PerPage, len(out))
	page.Items = out[start:end]

	if len(out) == 0 && f.Search != "" {
		page.Suggestion = SuggestType(f.Search, contractTypes(contracts))
	}
	return page
}

func compareContracts(a, b model.Contract, field SortField) int {
	switch field {
	case SortTitle:
		return cmp.Compare(fold(a.Title), fold(b.Title))
	case SortType:
		return cmp.Compare(fold(a.Type), fold(b.Type))
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	case SortValue:
		return cmp.Compare(a.Value, b.Value)
	case SortExpiresAt:
		return a.ExpiresAt.Compare(b.ExpiresAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// SuggestType returns the candidate closest to term by edit distance,
// or "" if none is within reach or term already names a candidate.
func SuggestType(term string, candidates []string) string {
	term = fold(strings.TrimSpace(term))
	if term == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(term, fold(c))
		if d == 0 {
			return ""
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// contractTypes lists the known types plus any others present, sorted.
func contractTypes(contracts []model.Contract) []string {
	types := slices.Clone(model.ContractTypes)
	for _, c := range contracts {
		if c.Type != "" && !slices.Contains(types, c.Type) {
			types = append(types, c.Type)
		}
	}
	slices.Sort(types)
	return types
}
