package mockdata

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
)

var (
	_ state.DataSource = (*Data)(nil)

	fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
)

func newTestData(opts ...Option) *Data {
	return New(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestSeedCounts(t *testing.T) {
	d := newTestData()

	if n := len(d.Users()); n != 3 {
		t.Errorf("users = %d, want 3", n)
	}
	if n := len(d.Contracts()); n != 30 {
		t.Errorf("contracts = %d, want 30", n)
	}
	if n := len(d.Templates()); n != 10 {
		t.Errorf("templates = %d, want 10", n)
	}
	if n := len(d.Notifications()); n != 15 {
		t.Errorf("notifications = %d, want 15", n)
	}
	org, err := d.Organization(1)
	if err != nil || org.Name != "Acme Corporation" {
		t.Errorf("Organization(1) = %v, %v", org, err)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, b := newTestData(WithSeed(42)), newTestData(WithSeed(42))
	if !reflect.DeepEqual(a.Contracts(), b.Contracts()) {
		t.Error("same seed produced different contracts")
	}
	if !reflect.DeepEqual(a.Notifications(), b.Notifications()) {
		t.Error("same seed produced different notifications")
	}

	c := newTestData(WithSeed(43))
	if reflect.DeepEqual(a.Contracts(), c.Contracts()) {
		t.Error("different seeds produced identical contracts")
	}
}

func TestGeneratedContracts(t *testing.T) {
	d := newTestData()
	for _, c := range d.Contracts() {
		if c.Value < 5000 || c.Value >= 55000 {
			t.Errorf("contract %d value %d out of range", c.ID, c.Value)
		}
		if c.TemplateID < 1 || c.TemplateID > 10 {
			t.Errorf("contract %d template %d out of range", c.ID, c.TemplateID)
		}
		if want := fmt.Sprintf("%s Contract %d", c.Type, c.ID); c.Title != want {
			t.Errorf("title = %q, want %q", c.Title, want)
		}
		if age := fixedNow.Sub(c.CreatedAt); age < 0 || age >= 90*day {
			t.Errorf("contract %d created %v before now", c.ID, age)
		}

		wantHistory := map[model.ContractStatus]int{
			model.StatusDraft:   2,
			model.StatusPending: 3,
			model.StatusSigned:  6,
			model.StatusExpired: 7,
		}[c.Status]
		if len(c.History) != wantHistory {
			t.Errorf("contract %d (%s) history = %d events, want %d", c.ID, c.Status, len(c.History), wantHistory)
		}

		signed := c.Parties[0].SignedAt != nil && c.Parties[1].SignedAt != nil
		if signed != (c.Status == model.StatusSigned) {
			t.Errorf("contract %d (%s) signed parties = %v", c.ID, c.Status, signed)
		}
		if c.Status == model.StatusExpired && !c.ExpiresAt.Equal(c.CreatedAt.Add(30*day)) {
			t.Errorf("expired contract %d expiresAt = %v", c.ID, c.ExpiresAt)
		}
		if n := len(c.Metadata.Tags); n < 1 || n > 3 {
			t.Errorf("contract %d has %d tags", c.ID, n)
		}
	}
}

func TestGeneratedNotifications(t *testing.T) {
	d := newTestData()
	for _, n := range d.Notifications() {
		if n.UserID < 1 || n.UserID > 3 {
			t.Errorf("notification %d user %d", n.ID, n.UserID)
		}
		if n.Message == "" || n.Link == "" {
			t.Errorf("notification %d missing message or link: %+v", n.ID, n)
		}
		if n.Type != "invitation" && n.Link != contractLink(n.RelatedID) {
			t.Errorf("notification %d link %q, related %d", n.ID, n.Link, n.RelatedID)
		}
	}
}

func TestLookups(t *testing.T) {
	d := newTestData()

	tests := []struct {
		name string
		call func() error
		code string
	}{
		{"user", func() error { _, err := d.User(99); return err }, "E400"},
		{"email", func() error { _, err := d.UserByEmail("nobody@example.com"); return err }, "E400"},
		{"contract", func() error { _, err := d.Contract(0); return err }, "E401"},
		{"template", func() error { _, err := d.Template(11); return err }, "E402"},
		{"organization", func() error { _, err := d.Organization(2); return err }, "E403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	u, err := d.UserByEmail("  Editor@Example.com ")
	if err != nil || u.ID != 2 {
		t.Errorf("UserByEmail folded = %+v, %v", u, err)
	}
	tpl, err := d.Template(4)
	if err != nil || tpl.Name != "Software License Agreement" {
		t.Errorf("Template(4) = %+v, %v", tpl, err)
	}
}

func TestAddUser(t *testing.T) {
	d := newTestData()

	u, err := d.AddUser(model.User{Name: "New", Email: "new@example.com", Role: model.RoleEditor})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 4 || !u.CreatedAt.Equal(fixedNow) {
		t.Errorf("added user = %+v", u)
	}

	if _, err := d.AddUser(model.User{Email: "ADMIN@example.com"}); !errors.HasCode(err, "E301") {
		t.Errorf("duplicate email error = %v, want E301", err)
	}
}

func TestAddOrganization(t *testing.T) {
	d := newTestData()
	u, err := d.AddUser(model.User{Name: "Owner", Email: "owner@newco.com", Role: model.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	org := d.AddOrganization("New Co")
	if org.ID != 2 || len(org.Members) != 0 {
		t.Errorf("org = %+v", org)
	}

	u, err = d.AssignOrganization(u.ID, org.ID)
	if err != nil || u.OrganizationID != 2 {
		t.Fatalf("AssignOrganization = %+v, %v", u, err)
	}
	got, err := d.Organization(2)
	if err != nil || !reflect.DeepEqual(got.Members, []int{u.ID}) || got.Stats.TotalMembers != 1 {
		t.Errorf("Organization(2) = %+v, %v", got, err)
	}
	if stored, _ := d.User(u.ID); stored.OrganizationID != 2 {
		t.Errorf("stored user org = %d", stored.OrganizationID)
	}

	if _, err := d.AssignOrganization(99, 2); !errors.HasCode(err, "E400") {
		t.Errorf("unknown user error = %v", err)
	}
	if _, err := d.AssignOrganization(u.ID, 9); !errors.HasCode(err, "E403") {
		t.Errorf("unknown org error = %v", err)
	}
}

func TestOrganizationMembers(t *testing.T) {
	d := newTestData()
	if n := len(d.OrganizationMembers(1)); n != 3 {
		t.Errorf("members = %d, want 3", n)
	}
	if got := d.OrganizationMembers(42); got != nil {
		t.Errorf("unknown org members = %v, want nil", got)
	}
}

func TestAddContract(t *testing.T) {
	valid := model.Contract{
		Title:     "Office Lease",
		Type:      "Lease",
		Status:    model.StatusDraft,
		CreatedBy: 2,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}

	t.Run("assigns id and notifies", func(t *testing.T) {
		d := newTestData()
		c, err := d.AddContract(valid)
		if err != nil {
			t.Fatal(err)
		}
		if c.ID != 31 {
			t.Errorf("ID = %d, want 31", c.ID)
		}
		if got, err := d.Contract(31); err != nil || got.Title != "Office Lease" {
			t.Errorf("Contract(31) = %+v, %v", got, err)
		}

		first := d.Notifications()[0]
		if first.Type != "contract_created" || first.UserID != 2 || first.Read || first.ID != 16 {
			t.Errorf("first notification = %+v", first)
		}
		if first.Message != `Contract "Office Lease" has been created` {
			t.Errorf("message = %q", first.Message)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		d := newTestData()
		dup := valid
		dup.ID = 5
		if _, err := d.AddContract(dup); !errors.HasCode(err, "E404") {
			t.Errorf("error = %v, want E404", err)
		}
	})

	missing := []struct {
		field  string
		mutate func(*model.Contract)
	}{
		{"title", func(c *model.Contract) { c.Title = "  " }},
		{"type", func(c *model.Contract) { c.Type = "" }},
		{"status", func(c *model.Contract) { c.Status = "" }},
		{"createdBy", func(c *model.Contract) { c.CreatedBy = 0 }},
		{"createdAt", func(c *model.Contract) { c.CreatedAt = time.Time{} }},
		{"updatedAt", func(c *model.Contract) { c.UpdatedAt = time.Time{} }},
		{"known status", func(c *model.Contract) { c.Status = "archived" }},
	}
	for _, tt := range missing {
		t.Run("missing "+tt.field, func(t *testing.T) {
			d := newTestData()
			c := valid
			tt.mutate(&c)
			if _, err := d.AddContract(c); !errors.HasCode(err, "E404") {
				t.Errorf("error = %v, want E404", err)
			}
			if n := len(d.Contracts()); n != 30 {
				t.Errorf("contracts = %d after rejected add", n)
			}
		})
	}
}

func TestReturnedValuesAreCopies(t *testing.T) {
	d := newTestData()

	c, _ := d.Contract(1)
	c.Parties[0].Name = "changed"
	c.Metadata.Tags[0] = "changed"
	again, _ := d.Contract(1)
	if again.Parties[0].Name == "changed" || again.Metadata.Tags[0] == "changed" {
		t.Error("mutating a returned contract changed the stored one")
	}

	org, _ := d.Organization(1)
	org.Members[0] = 99
	org2, _ := d.Organization(1)
	if org2.Members[0] == 99 {
		t.Error("mutating a returned organization changed the stored one")
	}
}

func TestNotificationsForUser(t *testing.T) {
	d := newTestData()
	total := 0
	for id := 1; id <= 3; id++ {
		for _, n := range d.NotificationsForUser(id) {
			if n.UserID != id {
				t.Errorf("user %d got notification for %d", id, n.UserID)
			}
			total++
		}
	}
	if total != 15 {
		t.Errorf("notifications across users = %d, want 15", total)
	}
}

func TestMarkNotificationsRead(t *testing.T) {
	d := newTestData()
	unread := 0
	for _, n := range d.NotificationsForUser(1) {
		if !n.Read {
			unread++
		}
	}

	if got := d.MarkNotificationsRead(1); got != unread {
		t.Errorf("changed = %d, want %d", got, unread)
	}
	for _, n := range d.NotificationsForUser(1) {
		if !n.Read {
			t.Errorf("notification %d still unread", n.ID)
		}
	}
	if got := d.MarkNotificationsRead(1); got != 0 {
		t.Errorf("second call changed %d", got)
	}
}

func TestContractStats(t *testing.T) {
	d := newTestData()
	stats := d.ContractStats(1)

	if stats.Total != 30 || stats.Draft+stats.Pending+stats.Signed+stats.Expired != 30 {
		t.Errorf("status counts = %+v", stats)
	}

	types := 0
	for _, n := range stats.TypeDistribution {
		types += n
	}
	if types != 30 {
		t.Errorf("type distribution sums to %d", types)
	}

	wantMonths := []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}
	if len(stats.ActivityByMonth) != len(wantMonths) {
		t.Fatalf("months = %d", len(stats.ActivityByMonth))
	}
	created := 0
	for i, m := range stats.ActivityByMonth {
		if m.Month != wantMonths[i] {
			t.Errorf("month %d = %s, want %s", i, m.Month, wantMonths[i])
		}
		created += m.Created
	}
	if stats.ActivityByMonth[0].Year != 2023 || stats.ActivityByMonth[5].Year != 2024 {
		t.Errorf("years = %d..%d", stats.ActivityByMonth[0].Year, stats.ActivityByMonth[5].Year)
	}
	// Every contract was created within the last 90 days, inside the window.
	if created != 30 {
		t.Errorf("created across window = %d, want 30", created)
	}
}

func TestActivityWindowYearBoundary(t *testing.T) {
	months := activityWindow(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
	got := make([]string, len(months))
	for i, m := range months {
		got[i] = fmt.Sprintf("%s %d", m.Month, m.Year)
	}
	want := []string{"Sep 2023", "Oct 2023", "Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("window = %v, want %v", got, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	d := newTestData()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.AddContract(model.Contract{
				Title: fmt.Sprintf("c%d", i), Type: "NDA", Status: model.StatusDraft,
				CreatedBy: 1, CreatedAt: fixedNow, UpdatedAt: fixedNow,
			})
		}()
		go func() {
			defer wg.Done()
			_ = d.ContractStats(1)
			_ = d.Notifications()
		}()
	}
	wg.Wait()

	if n := len(d.Contracts()); n != 38 {
		t.Errorf("contracts = %d, want 38", n)
	}
}
