package mockdata

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
)

// DefaultSeed is used when no seed option is given.
const DefaultSeed uint64 = 20230101

// Option configures Data.
type Option func(*Data)

// WithSeed sets the generator seed.
func WithSeed(seed uint64) Option {
	return func(d *Data) { d.seed = seed }
}

// WithClock sets the time source. Generated dates are relative to it.
func WithClock(now func() time.Time) Option {
	return func(d *Data) { d.now = now }
}

// Data holds the mock users, organizations, contracts, templates and
// notifications.
type Data struct {
	mu            sync.RWMutex
	seed          uint64
	now           func() time.Time
	users         []model.User
	organizations []model.Organization
	contracts     []model.Contract
	templates     []model.Template
	notifications []model.Notification
}

// New creates and seeds a Data.
func New(opts ...Option) *Data {
	d := &Data{seed: DefaultSeed, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	rng := rand.New(rand.NewPCG(d.seed, d.seed>>1|1))
	now := d.now()

	d.users = seedUsers()
	d.organizations = seedOrganizations()
	d.templates = seedTemplates()
	d.contracts = generateContracts(rng, now)
	d.notifications = generateNotifications(rng, now, d.contracts)
	return d
}

// Users returns every user.
func (d *Data) Users() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.users)
}

// User returns the user with id.
func (d *Data) User(id int) (model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, errors.New("E400").WithDetailf("no user with id %d", id)
}

// UserByEmail returns the user registered under email. Matching ignores
// case and surrounding space.
func (d *Data) UserByEmail(email string) (model.User, error) {
	email = strings.TrimSpace(email)

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, errors.New("E400").WithDetailf("no user with email %q", email)
}

// AddUser stores u, assigning the next free id when u.ID is zero.
// Emails must be unique.
func (d *Data) AddUser(u model.User) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, errors.New("E301").WithDetailf("email %q", u.Email)
		}
	}
	if u.ID == 0 {
		for _, existing := range d.users {
			u.ID = max(u.ID, existing.ID)
		}
		u.ID++
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = d.now().UTC()
	}
	d.users = append(d.users, u)
	return u, nil
}

// AddOrganization creates an empty organization on a trial plan and
// returns it with its assigned id.
func (d *Data) AddOrganization(name string) model.Organization {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := 0
	for _, o := range d.organizations {
		id = max(id, o.ID)
	}
	now := d.now().UTC()
	org := model.Organization{
		ID:        id + 1,
		Name:      name,
		Plan:      "business",
		CreatedAt: now,
		UpdatedAt: now,
		Members:   []int{},
		Subscription: model.Subscription{
			PlanID:          "business-trial",
			Status:          "trialing",
			BillingCycle:    "monthly",
			NextBillingDate: now.AddDate(0, 1, 0),
		},
	}
	d.organizations = append(d.organizations, org)
	return cloneOrganization(org)
}

// AssignOrganization makes userID a member of orgID and returns the
// updated user.
func (d *Data) AssignOrganization(userID, orgID int) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui := slices.IndexFunc(d.users, func(u model.User) bool { return u.ID == userID })
	if ui < 0 {
		return model.User{}, errors.New("E400").WithDetailf("no user with id %d", userID)
	}
	oi := slices.IndexFunc(d.organizations, func(o model.Organization) bool { return o.ID == orgID })
	if oi < 0 {
		return model.User{}, errors.New("E403").WithDetailf("no organization with id %d", orgID)
	}

	org := &d.organizations[oi]
	if !slices.Contains(org.Members, userID) {
		org.Members = append(org.Members, userID)
		org.Stats.TotalMembers++
		org.UpdatedAt = d.now().UTC()
	}
	d.users[ui].OrganizationID = orgID
	return d.users[ui], nil
}

// Organization returns the organization with id.
func (d *Data) Organization(id int) (*model.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.organizations {
		if o.ID == id {
			org := cloneOrganization(o)
			return &org, nil
		}
	}
	return nil, errors.New("E403").WithDetailf("no organization with id %d", id)
}

// OrganizationMembers returns the users belonging to organization orgID,
// or nil when it does not exist.
func (d *Data) OrganizationMembers(orgID int) []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var members []int
	for _, o := range d.organizations {
		if o.ID == orgID {
			members = o.Members
		}
	}
	var users []model.User
	for _, u := range d.users {
		if slices.Contains(members, u.ID) {
			users = append(users, u)
		}
	}
	return users
}

// Contracts returns every contract.
func (d *Data) Contracts() []model.Contract {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneContracts(d.contracts)
}

// ContractsForUser returns the contracts visible to userID. Every user sees
// every contract of the mock organization.
func (d *Data) ContractsForUser(userID int) []model.Contract {
	return d.Contracts()
}

// Contract returns the contract with id.
func (d *Data) Contract(id int) (model.Contract, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.contracts {
		if c.ID == id {
			return cloneContract(c), nil
		}
	}
	return model.Contract{}, errors.New("E401").WithDetailf("no contract with id %d", id)
}

// AddContract validates and stores c, then prepends a contract_created
// notification for its creator. A zero id is replaced by the next free one.
func (d *Data) AddContract(c model.Contract) (model.Contract, error) {
	if err := validateContract(c); err != nil {
		return model.Contract{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if c.ID == 0 {
		for _, existing := range d.contracts {
			c.ID = max(c.ID, existing.ID)
		}
		c.ID++
	} else {
		for _, existing := range d.contracts {
			if existing.ID == c.ID {
				return model.Contract{}, errors.New("E404").WithDetailf("contract id %d already exists", c.ID)
			}
		}
	}
	c = cloneContract(c)
	d.contracts = append(d.contracts, c)

	var nextID int64
	for _, n := range d.notifications {
		nextID = max(nextID, n.ID)
	}
	note := model.Notification{
		ID:        nextID + 1,
		Type:      "contract_created",
		Title:     "New Contract Created",
		Message:   `Contract "` + c.Title + `" has been created`,
		Timestamp: d.now().UTC(),
		UserID:    c.CreatedBy,
		Link:      contractLink(c.ID),
		RelatedID: c.ID,
	}
	d.notifications = append([]model.Notification{note}, d.notifications...)

	return cloneContract(c), nil
}

func validateContract(c model.Contract) error {
	missing := ""
	switch {
	case strings.TrimSpace(c.Title) == "":
		missing = "title"
	case c.Type == "":
		missing = "type"
	case c.Status == "":
		missing = "status"
	case c.CreatedBy == 0:
		missing = "createdBy"
	case c.CreatedAt.IsZero():
		missing = "createdAt"
	case c.UpdatedAt.IsZero():
		missing = "updatedAt"
	}
	if missing != "" {
		return errors.New("E404").WithDetailf("contract must have a %s", missing)
	}
	if !slices.Contains(model.ContractStatuses, c.Status) {
		return errors.New("E404").WithDetailf("unknown status %q", c.Status)
	}
	return nil
}

// Templates returns every template.
func (d *Data) Templates() []model.Template {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Template, len(d.templates))
	for i, t := range d.templates {
		t.Tags = slices.Clone(t.Tags)
		out[i] = t
	}
	return out
}

// Template returns the template with id.
func (d *Data) Template(id int) (model.Template, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.templates {
		if t.ID == id {
			t.Tags = slices.Clone(t.Tags)
			return t, nil
		}
	}
	return model.Template{}, errors.New("E402").WithDetailf("no template with id %d", id)
}

// Notifications returns every notification, newest additions first.
func (d *Data) Notifications() []model.Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.notifications)
}

// NotificationsForUser returns the notifications addressed to userID.
func (d *Data) NotificationsForUser(userID int) []model.Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []model.Notification
	for _, n := range d.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// MarkNotificationsRead marks every notification of userID as read and
// returns how many changed.
func (d *Data) MarkNotificationsRead(userID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed := 0
	for i := range d.notifications {
		if d.notifications[i].UserID == userID && !d.notifications[i].Read {
			d.notifications[i].Read = true
			changed++
		}
	}
	return changed
}

func cloneContract(c model.Contract) model.Contract {
	c.Parties = slices.Clone(c.Parties)
	c.History = slices.Clone(c.History)
	c.Metadata.Tags = slices.Clone(c.Metadata.Tags)
	return c
}

func cloneContracts(in []model.Contract) []model.Contract {
	out := make([]model.Contract, len(in))
	for i, c := range in {
		out[i] = cloneContract(c)
	}
	return out
}

func cloneOrganization(o model.Organization) model.Organization {
	o.Members = slices.Clone(o.Members)
	o.PendingInvitations = slices.Clone(o.PendingInvitations)
	o.Departments = slices.Clone(o.Departments)
	o.Subscription.Features = slices.Clone(o.Subscription.Features)
	return o
}
