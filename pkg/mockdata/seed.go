package mockdata

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/contractflow/dashboard/pkg/model"
)

const day = 24 * time.Hour

// Seeded counts.
const (
	contractCount     = 30
	notificationCount = 15
)

var (
	allTags     = []string{"important", "renewal", "confidential", "urgent", "archived", "negotiation"}
	departments = []string{"Legal", "HR", "Sales", "Operations"}
	priorities  = []string{"High", "Medium", "Low"}
	notifyTypes = []string{"contract_signed", "contract_expired", "contract_created", "invitation", "reminder"}
)

const (
	adminName     = "Admin User"
	acmeName      = "Acme Corporation"
	acmeContracts = "contracts@acme.com"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedUsers() []model.User {
	return []model.User{
		{
			ID: 1, Name: "Admin User", Email: "admin@example.com", Role: model.RoleAdmin,
			CreatedAt: date("2023-01-01T00:00:00Z"), AccountType: model.AccountBusiness,
			OrganizationID: 1, ProfileImage: "https://randomuser.me/api/portraits/men/1.jpg",
		},
		{
			ID: 2, Name: "Editor User", Email: "editor@example.com", Role: model.RoleEditor,
			CreatedAt: date("2023-01-02T00:00:00Z"), AccountType: model.AccountPersonal,
			OrganizationID: 1, ProfileImage: "https://randomuser.me/api/portraits/women/2.jpg",
		},
		{
			ID: 3, Name: "Viewer User", Email: "viewer@example.com", Role: model.RoleViewer,
			CreatedAt: date("2023-01-03T00:00:00Z"), AccountType: model.AccountPersonal,
			OrganizationID: 1, ProfileImage: "https://randomuser.me/api/portraits/men/3.jpg",
		},
	}
}

func seedOrganizations() []model.Organization {
	return []model.Organization{{
		ID:          1,
		Name:        acmeName,
		Description: "Leading provider of innovative business solutions",
		LogoURL:     "https://via.placeholder.com/150?text=ACME",
		Plan:        "business",
		CreatedAt:   date("2023-01-01T00:00:00Z"),
		UpdatedAt:   date("2023-06-15T10:30:00Z"),
		Members:     []int{1, 2, 3},
		Stats: model.OrganizationStats{
			TotalContracts:  156,
			ActiveContracts: 89,
			TotalTemplates:  24,
			TotalMembers:    15,
		},
		Subscription: model.Subscription{
			PlanID:          "business-pro",
			Status:          "active",
			BillingCycle:    "monthly",
			NextBillingDate: date("2024-01-01T00:00:00Z"),
			Features: []string{
				"Unlimited contracts",
				"Custom templates",
				"Advanced analytics",
				"Priority support",
				"Team collaboration",
			},
		},
		PendingInvitations: []model.Invitation{
			{Email: "sarah.wilson@example.com", Role: model.RoleEditor, InvitedBy: 1, InvitedAt: date("2023-12-15T10:30:00Z")},
			{Email: "john.doe@example.com", Role: model.RoleViewer, InvitedBy: 1, InvitedAt: date("2023-12-14T15:45:00Z")},
			{Email: "maria.garcia@example.com", Role: model.RoleEditor, InvitedBy: 1, InvitedAt: date("2023-12-13T09:20:00Z")},
		},
		Departments: []model.Department{
			{ID: 1, Name: "Legal", MemberCount: 5},
			{ID: 2, Name: "Sales", MemberCount: 4},
			{ID: 3, Name: "Operations", MemberCount: 3},
			{ID: 4, Name: "HR", MemberCount: 3},
		},
	}}
}

func seedTemplates() []model.Template {
	rows := []struct {
		name, description, category string
		createdBy                   int
		created, updated            string
		tags                        []string
	}{
		{"Standard Employment Contract", "Standard employment agreement for full-time employees", "Employment", 1, "2023-01-15", "2023-03-20", []string{"employment", "standard"}},
		{"Non-Disclosure Agreement", "Confidentiality agreement for sensitive information protection", "Legal", 1, "2023-01-16", "2023-02-20", []string{"confidentiality", "legal"}},
		{"Freelance Services Agreement", "Contract for freelance or independent contractor services", "Services", 1, "2023-01-17", "2023-04-05", []string{"freelance", "services"}},
		{"Software License Agreement", "Terms for software licensing and usage", "Technology", 1, "2023-01-18", "2023-03-10", []string{"software", "license"}},
		{"Commercial Lease Agreement", "Contract for leasing commercial real estate property", "Real Estate", 1, "2023-01-19", "2023-02-15", []string{"lease", "real estate"}},
		{"Partnership Agreement", "Terms of partnership between two or more entities", "Business", 1, "2023-01-20", "2023-03-25", []string{"partnership", "business"}},
		{"Sales Contract", "Agreement for the sale of goods or services", "Sales", 2, "2023-01-21", "2023-04-10", []string{"sales", "commerce"}},
		{"Consulting Agreement", "Contract for consulting services", "Services", 2, "2023-01-22", "2023-03-15", []string{"consulting", "services"}},
		{"Content Creation Agreement", "Contract for content creation and rights management", "Creative", 2, "2023-01-23", "2023-02-28", []string{"content", "creative"}},
		{"Joint Venture Agreement", "Terms for a joint business venture between entities", "Business", 1, "2023-01-24", "2023-03-30", []string{"joint venture", "business"}},
	}

	templates := make([]model.Template, len(rows))
	for i, r := range rows {
		templates[i] = model.Template{
			ID:          i + 1,
			Name:        r.name,
			Description: r.description,
			Category:    r.category,
			CreatedBy:   r.createdBy,
			CreatedAt:   date(r.created + "T00:00:00Z"),
			UpdatedAt:   date(r.updated + "T00:00:00Z"),
			Tags:        r.tags,
			IsPublic:    true,
		}
	}
	return templates
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}

func generateContracts(rng *rand.Rand, now time.Time) []model.Contract {
	now = now.UTC()
	contracts := make([]model.Contract, 0, contractCount)
	for i := 1; i <= contractCount; i++ {
		status := pick(rng, model.ContractStatuses)
		typ := pick(rng, model.ContractTypes)
		created := now.Add(-time.Duration(rng.IntN(90)) * day)

		var acmeSigned, partnerSigned *time.Time
		if status == model.StatusSigned {
			a, p := created.Add(2*day), created.Add(3*day)
			acmeSigned, partnerSigned = &a, &p
		}

		expires := now.Add(180 * day)
		if status == model.StatusExpired {
			expires = created.Add(30 * day)
		}

		contracts = append(contracts, model.Contract{
			ID:        i,
			Title:     fmt.Sprintf("%s Contract %d", typ, i),
			Type:      typ,
			Status:    status,
			CreatedBy: rng.IntN(3) + 1,
			CreatedAt: created,
			UpdatedAt: created.Add(time.Duration(rng.Int64N(int64(10 * day)))),
			Parties: []model.Party{
				{Name: acmeName, Email: acmeContracts, SignedAt: acmeSigned},
				{Name: fmt.Sprintf("Partner %d", i), Email: fmt.Sprintf("partner%d@example.com", i), SignedAt: partnerSigned},
			},
			Value:          int64(rng.IntN(50000) + 5000),
			ExpiresAt:      expires,
			OrganizationID: 1,
			TemplateID:     rng.IntN(10) + 1,
			DocumentURL:    fmt.Sprintf("https://example.com/contracts/%d.pdf", i),
			Metadata: model.ContractMetadata{
				Tags:       randomTags(rng),
				Department: pick(rng, departments),
				Priority:   pick(rng, priorities),
			},
			History: contractHistory(created, status),
		})
	}
	return contracts
}

func randomTags(rng *rand.Rand) []string {
	n := rng.IntN(3) + 1
	tags := make([]string, 0, n)
	for range n {
		tag := pick(rng, allTags)
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// contractHistory builds the audit trail implied by a contract's status.
func contractHistory(created time.Time, status model.ContractStatus) []model.HistoryEvent {
	edited := created.Add(day)
	history := []model.HistoryEvent{
		{Action: "created", Timestamp: created, UserID: 1, UserName: adminName},
		{Action: "edited", Timestamp: edited, UserID: 1, UserName: adminName, Changes: []string{"Updated terms", "Added payment schedule"}},
	}
	if status == model.StatusDraft {
		return history
	}

	sent := edited.Add(day)
	history = append(history, model.HistoryEvent{
		Action: "sent", Timestamp: sent, UserID: 1, UserName: adminName, Recipients: []string{"partner@example.com"},
	})
	if status == model.StatusPending {
		return history
	}

	signed1, signed2 := sent.Add(day), sent.Add(2*day)
	history = append(history,
		model.HistoryEvent{Action: "signed", Timestamp: signed1, PartyName: acmeName, PartyEmail: acmeContracts},
		model.HistoryEvent{Action: "signed", Timestamp: signed2, PartyName: "Partner", PartyEmail: "partner@example.com"},
		model.HistoryEvent{Action: "completed", Timestamp: signed2, UserID: 1, UserName: adminName},
	)
	if status == model.StatusExpired {
		history = append(history, model.HistoryEvent{Action: "expired", Timestamp: signed2.Add(30 * day), System: true})
	}
	return history
}

func generateNotifications(rng *rand.Rand, now time.Time, contracts []model.Contract) []model.Notification {
	now = now.UTC()
	title := func(id int) string {
		for _, c := range contracts {
			if c.ID == id {
				return c.Title
			}
		}
		return ""
	}

	notes := make([]model.Notification, 0, notificationCount)
	for i := 1; i <= notificationCount; i++ {
		n := model.Notification{
			ID:        int64(i),
			Type:      pick(rng, notifyTypes),
			Timestamp: now.Add(-time.Duration(rng.Int64N(int64(7 * day)))),
			UserID:    rng.IntN(3) + 1,
			Read:      rng.Float64() > 0.3,
		}

		if n.Type == "invitation" {
			n.Message = "You have been invited to join a team."
			n.Link = "/organization"
		} else {
			n.RelatedID = rng.IntN(len(contracts)) + 1
			n.Link = contractLink(n.RelatedID)
			t := title(n.RelatedID)
			switch n.Type {
			case "contract_signed":
				n.Message = fmt.Sprintf("Contract %q has been signed by all parties.", t)
			case "contract_expired":
				n.Message = fmt.Sprintf("Contract %q has expired.", t)
			case "contract_created":
				n.Message = fmt.Sprintf("New contract %q has been created.", t)
			case "reminder":
				n.Message = fmt.Sprintf("Reminder: Contract %q needs attention.", t)
			}
		}
		notes = append(notes, n)
	}
	return notes
}

func contractLink(id int) string {
	return "/contracts/" + strconv.Itoa(id)
}
