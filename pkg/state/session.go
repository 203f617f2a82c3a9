package state

import (
	"github.com/contractflow/dashboard/pkg/model"
)

// CurrentUser returns the signed-in user, or nil.
func (s *Store) CurrentUser() *model.User {
	switch u := s.Get(KeyCurrentUser).(type) {
	case *model.User:
		return u
	case model.User:
		return &u
	default:
		return nil
	}
}

// IsAuthenticated reports whether a current user is set.
func (s *Store) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// HasPermission reports whether the current user's role grants permission.
func (s *Store) HasPermission(permission string) bool {
	u := s.CurrentUser()
	if u == nil {
		return false
	}
	return model.RoleHasPermission(u.Role, permission)
}

// Preferences returns the current preferences, or the defaults.
func (s *Store) Preferences() model.Preferences {
	if p, ok := Get[model.Preferences](s, KeyUserPreferences); ok {
		return p
	}
	return model.DefaultPreferences()
}

// DarkMode reports whether dark mode is on.
func (s *Store) DarkMode() bool {
	on, _ := Get[bool](s, KeyDarkMode)
	return on
}

// ToggleDarkMode flips darkMode and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	var on bool
	s.Update(KeyDarkMode, func(old any) any {
		b, _ := old.(bool)
		on = !b
		return on
	})
	return on
}

// SetCurrentUser stores u and, when u is a real user, loads its
// organization, contracts, templates and notifications.
func (s *Store) SetCurrentUser(u *model.User) {
	if u == nil {
		s.Set(KeyCurrentUser, nil)
		return
	}
	s.Set(KeyCurrentUser, u)
	if u.ID != 0 {
		s.loadUserData(u)
	}
}

func (s *Store) loadUserData(u *model.User) {
	if s.data == nil {
		s.logger.Warn("no data source; loading empty user data", "user", u.ID)
		s.Set(KeyContracts, []model.Contract{})
		s.Set(KeyTemplates, []model.Template{})
		s.Set(KeyNotifications, []model.Notification{})
		return
	}

	if u.OrganizationID != 0 {
		org, err := s.data.Organization(u.OrganizationID)
		if err != nil {
			s.logger.Error("load organization", "organization", u.OrganizationID, "error", err)
		} else {
			s.Set(KeyOrganization, org)
		}
	}
	s.Set(KeyContracts, s.data.ContractsForUser(u.ID))
	s.Set(KeyTemplates, s.data.Templates())
	s.Set(KeyNotifications, s.data.NotificationsForUser(u.ID))
}
