package app

import (
	"context"
	stderrors "errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/contractflow/dashboard/internal/components"
	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/auth"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/toast"
)

// Action names a page can dispatch.
const (
	ActionLogin                 = "login"
	ActionRegister              = "register"
	ActionLogout                = "logout"
	ActionToggleDarkMode        = "toggleDarkMode"
	ActionUpdatePreferences     = "updatePreferences"
	ActionCreateContract        = "createContract"
	ActionMarkNotificationsRead = "markNotificationsRead"
	ActionFilterContracts       = "filterContracts"
	ActionFilterTemplates       = "filterTemplates"
)

// contractTerm is how long a new contract runs before it expires.
const contractTerm = 365 * 24 * time.Hour

// Fields are the submitted form values of an action.
type Fields map[string]string

// Get returns the trimmed value of key.
func (f Fields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Has reports whether key was submitted.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

type actionFunc func(ctx context.Context, fields Fields) error

func (s *Session) actions() map[string]actionFunc {
	return map[string]actionFunc{
		ActionLogin:                 s.login,
		ActionRegister:              s.register,
		ActionLogout:                s.logoutAction,
		ActionToggleDarkMode:        s.toggleDarkMode,
		ActionUpdatePreferences:     s.updatePreferences,
		ActionCreateContract:        s.createContract,
		ActionMarkNotificationsRead: s.markNotificationsRead,
		ActionFilterContracts:       s.filterContracts,
		ActionFilterTemplates:       s.filterTemplates,
	}
}

// Dispatch runs the named action. Failures the user should see are also
// shown as error toasts.
func (s *Session) Dispatch(ctx context.Context, name string, fields Fields) error {
	fn, ok := s.actions()[name]
	if !ok {
		err := errors.New("E451").WithDetailf("action %q", name)
		s.logger.Warn("unknown action", "action", name)
		return err
	}
	if err := fn(ctx, fields); err != nil {
		if ctx.Err() == nil {
			toast.Error(s.toasts, userMessage(err))
		}
		s.logger.Info("action failed", "action", name, "error", err)
		return err
	}
	return nil
}

// userMessage is the text shown for err.
func userMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Message != "" {
		if e.Code == "E304" && e.Detail != "" {
			return e.Message + ": " + e.Detail
		}
		return e.Message
	}
	return "Something went wrong. Please try again."
}

func (s *Session) login(ctx context.Context, f Fields) error {
	user, err := s.Auth.Login(ctx, f.Get(components.FieldEmail), f[components.FieldPassword])
	if err != nil {
		return err
	}
	toast.Success(s.toasts, "Welcome back, "+user.Name+"!")

	path, query := router.SplitFragment(safeRedirect(f.Get(components.FieldRedirect)))
	s.Router.Navigate(path, router.ParseQuery(query))
	return nil
}

// safeRedirect keeps in-app destinations and falls back to "/".
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	if p, _ := router.SplitFragment(target); p == router.LoginPath || p == "/logout" || p == "/register" {
		return "/"
	}
	return target
}

func (s *Session) register(ctx context.Context, f Fields) error {
	user, err := s.Auth.Register(ctx, auth.RegisterRequest{
		Name:             f.Get(components.FieldName),
		Email:            f.Get(components.FieldEmail),
		Password:         f[components.FieldPassword],
		AccountType:      model.AccountType(f.Get(components.FieldAccountType)),
		OrganizationName: f.Get(components.FieldOrganizationName),
	})
	if err != nil {
		return err
	}
	toast.Success(s.toasts, "Welcome to ContractFlow, "+user.Name+"!")
	s.Router.Navigate("/", nil)
	return nil
}

func (s *Session) logoutAction(context.Context, Fields) error {
	s.Router.Navigate("/logout", nil)
	return nil
}

func (s *Session) toggleDarkMode(context.Context, Fields) error {
	s.Store.ToggleDarkMode()
	s.Refresh()
	return nil
}

func (s *Session) updatePreferences(_ context.Context, f Fields) error {
	if s.Store.CurrentUser() == nil {
		return errors.New("E302")
	}
	prefs := s.Store.Preferences()
	prefs.NotificationsEnabled = checked(f, components.PrefNotificationsEnabled)
	prefs.EmailNotifications = checked(f, components.PrefEmailNotifications)
	prefs.ContractReminders = checked(f, components.PrefContractReminders)
	switch v := f.Get(components.PrefDashboardView); v {
	case "list", "grid":
		prefs.DashboardView = v
	}

	s.Store.Set(state.KeyUserPreferences, prefs)
	toast.Success(s.toasts, "Preferences saved")
	s.Refresh()
	return nil
}

// checked reads a checkbox, which is only submitted when ticked.
func checked(f Fields, key string) bool {
	switch strings.ToLower(f.Get(key)) {
	case "", "false", "off", "0":
		return false
	default:
		return f.Has(key)
	}
}

func (s *Session) createContract(_ context.Context, f Fields) error {
	user := s.Store.CurrentUser()
	if user == nil || !s.Auth.IsAuthenticated() {
		return errors.New("E302")
	}
	if !s.Store.HasPermission(model.PermCreateContracts) {
		return errors.New("E305").WithDetailf("%s required", model.PermCreateContracts)
	}

	c, err := s.contractFromFields(user, f)
	if err != nil {
		return err
	}
	c, err = s.app.data.AddContract(c)
	if err != nil {
		return err
	}

	s.Store.Update(state.KeyContracts, func(old any) any {
		contracts, _ := old.([]model.Contract)
		return append([]model.Contract{c}, contracts...)
	})
	s.Store.Set(state.KeyNotifications, s.app.data.NotificationsForUser(user.ID))

	toast.Success(s.toasts, "Contract created successfully")
	s.Router.Navigate("/contracts/"+strconv.Itoa(c.ID), nil)
	return nil
}

func (s *Session) contractFromFields(user *model.User, f Fields) (model.Contract, error) {
	now := s.app.config.Now().UTC()
	c := model.Contract{
		Title:          f.Get(components.FieldTitle),
		Summary:        f.Get(components.FieldSummary),
		Type:           f.Get(components.FieldType),
		Status:         model.StatusDraft,
		CreatedBy:      user.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(contractTerm),
		Parties:        []model.Party{},
		OrganizationID: user.OrganizationID,
		History: []model.HistoryEvent{{
			Action: "created", Timestamp: now, UserID: user.ID, UserName: user.Name,
		}},
	}
	if st := model.ContractStatus(f.Get(components.FieldStatus)); st == model.StatusPending {
		c.Status = st
	}
	if v := f.Get(components.FieldTemplateID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.New("E404").WithDetailf("template id %q", v)
		}
		if _, err := s.app.data.Template(id); err != nil {
			return c, err
		}
		c.TemplateID = id
	}
	if v := f.Get(components.FieldValue); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return c, errors.New("E404").WithDetailf("value %q", v)
		}
		c.Value = n
	}
	for _, tag := range strings.Split(f.Get(components.FieldTags), ",") {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(c.Metadata.Tags, tag) {
			c.Metadata.Tags = append(c.Metadata.Tags, tag)
		}
	}
	return c, nil
}

func (s *Session) markNotificationsRead(context.Context, Fields) error {
	user := s.Store.CurrentUser()
	if user == nil {
		return errors.New("E302")
	}
	n := s.app.data.MarkNotificationsRead(user.ID)
	s.Store.Update(state.KeyNotifications, func(old any) any {
		notes, _ := old.([]model.Notification)
		out := make([]model.Notification, len(notes))
		for i, note := range notes {
			note.Read = true
			out[i] = note
		}
		return out
	})
	s.logger.Debug("notifications marked read", "user", user.ID, "count", n)
	s.Refresh()
	return nil
}

func (s *Session) filterContracts(_ context.Context, f Fields) error {
	filter := components.DefaultFilter()
	if sort := f.Get("sort"); sort != "" {
		filter = components.ParseFilter(router.Query{"sort": sort})
	}
	filter.Status = f.Get("status")
	filter.Type = f.Get("type")
	filter.Search = f.Get("search")
	filter.DateFrom = f.Get("dateFrom")
	filter.DateTo = f.Get("dateTo")
	filter.Page = 1
	s.Router.Navigate("/contracts", filter.Query())
	return nil
}

func (s *Session) filterTemplates(_ context.Context, f Fields) error {
	q := router.Query{}
	for _, key := range []string{"category", "search"} {
		if v := f.Get(key); v != "" {
			q[key] = v
		}
	}
	s.Router.Navigate("/templates", q)
	return nil
}
