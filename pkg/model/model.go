// Package model defines the ContractFlow domain types shared by the store,
// the mock backend and the view components.
package model

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// AccountType distinguishes personal and business accounts.
type AccountType string

const (
	AccountPersonal AccountType = "personal"
	AccountBusiness AccountType = "business"
)

// User is an account holder.
type User struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           Role        `json:"role"`
	CreatedAt      time.Time   `json:"createdAt"`
	AccountType    AccountType `json:"accountType"`
	OrganizationID int         `json:"organizationId,omitempty"`
	ProfileImage   string      `json:"profileImage,omitempty"`
}

// Preferences are the user-tunable dashboard settings.
type Preferences struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	EmailNotifications   bool   `json:"emailNotifications"`
	ContractReminders    bool   `json:"contractReminders"`
	DashboardView        string `json:"dashboardView"`
}

// DefaultPreferences returns the preferences applied when none are stored.
func DefaultPreferences() Preferences {
	return Preferences{
		NotificationsEnabled: true,
		EmailNotifications:   true,
		ContractReminders:    true,
		DashboardView:        "list",
	}
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusDraft   ContractStatus = "draft"
	StatusPending ContractStatus = "pending"
	StatusSigned  ContractStatus = "signed"
	StatusExpired ContractStatus = "expired"
)

// ContractStatuses lists every status in display order.
var ContractStatuses = []ContractStatus{StatusDraft, StatusPending, StatusSigned, StatusExpired}

// ContractTypes lists the contract types the dashboard knows about.
var ContractTypes = []string{"Employment", "NDA", "Services", "Partnership", "Lease"}

// Party is a signatory of a contract.
type Party struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	SignedAt *time.Time `json:"signedAt,omitempty"`
}

// HistoryEvent is one entry in a contract's audit trail.
type HistoryEvent struct {
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     int       `json:"userId,omitempty"`
	UserName   string    `json:"userName,omitempty"`
	PartyName  string    `json:"partyName,omitempty"`
	PartyEmail string    `json:"partyEmail,omitempty"`
	Changes    []string  `json:"changes,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`
	System     bool      `json:"system,omitempty"`
}

// ContractMetadata holds classification fields.
type ContractMetadata struct {
	Tags       []string `json:"tags,omitempty"`
	Department string   `json:"department,omitempty"`
	Priority   string   `json:"priority,omitempty"`
}

// Contract is an agreement tracked by the dashboard.
type Contract struct {
	ID             int              `json:"id"`
	Title          string           `json:"title"`
	Summary        string           `json:"summary,omitempty"`
	Type           string           `json:"type"`
	Status         ContractStatus   `json:"status"`
	CreatedBy      int              `json:"createdBy"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Parties        []Party          `json:"parties"`
	Value          int64            `json:"value"`
	ExpiresAt      time.Time        `json:"expiresAt"`
	OrganizationID int              `json:"organizationId"`
	TemplateID     int              `json:"templateId"`
	DocumentURL    string           `json:"documentUrl"`
	Metadata       ContractMetadata `json:"metadata"`
	History        []HistoryEvent   `json:"history"`
}

// Template is a reusable contract skeleton.
type Template struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedBy   int       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"isPublic"`
}

// Notification is an in-app message for a user.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	UserID    int       `json:"userId"`
	Link      string    `json:"link,omitempty"`
	RelatedID int       `json:"relatedId,omitempty"`
}

// Invitation is a pending organization invite.
type Invitation struct {
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	InvitedBy int       `json:"invitedBy"`
	InvitedAt time.Time `json:"invitedAt"`
}

// Department is an organizational unit.
type Department struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// Subscription describes an organization's plan.
type Subscription struct {
	PlanID          string    `json:"planId"`
	Status          string    `json:"status"`
	BillingCycle    string    `json:"billingCycle"`
	NextBillingDate time.Time `json:"nextBillingDate"`
	Features        []string  `json:"features"`
}

// OrganizationStats are the headline numbers of an organization.
type OrganizationStats struct {
	TotalContracts  int `json:"totalContracts"`
	ActiveContracts int `json:"activeContracts"`
	TotalTemplates  int `json:"totalTemplates"`
	TotalMembers    int `json:"totalMembers"`
}

// Organization groups users under a shared plan.
type Organization struct {
	ID                 int               `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	LogoURL            string            `json:"logoUrl"`
	Plan               string            `json:"plan"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	Members            []int             `json:"members"`
	Stats              OrganizationStats `json:"stats"`
	Subscription       Subscription      `json:"subscription"`
	PendingInvitations []Invitation      `json:"pendingInvitations"`
	Departments        []Department      `json:"departments"`
}

// MonthActivity counts contract events in one calendar month.
type MonthActivity struct {
	Month   string `json:"month"`
	Year    int    `json:"year"`
	Created int    `json:"created"`
	Signed  int    `json:"signed"`
	Expired int    `json:"expired"`
}

// ContractStats summarizes a user's contracts for the dashboard.
type ContractStats struct {
	Total            int             `json:"total"`
	Draft            int             `json:"draft"`
	Pending          int             `json:"pending"`
	Signed           int             `json:"signed"`
	Expired          int             `json:"expired"`
	ActivityByMonth  []MonthActivity `json:"activityByMonth"`
	TypeDistribution map[string]int  `json:"typeDistribution"`
}
