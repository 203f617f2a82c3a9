package auth

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/storage"
)

// Local-storage keys.
const (
	TokenKey  = "contractflow_auth_token"
	ExpiryKey = "contractflow_auth_expiry"
)

// Defaults.
const (
	DefaultTTL           = 24 * time.Hour
	DefaultLoginDelay    = 800 * time.Millisecond
	DefaultRegisterDelay = 1000 * time.Millisecond

	tokenLength = 32
	tokenChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// UserDirectory is the user backend the manager signs users into.
type UserDirectory interface {
	UserByEmail(email string) (model.User, error)
	AddUser(u model.User) (model.User, error)
	AddOrganization(name string) model.Organization
	AssignOrganization(userID, orgID int) (model.User, error)
}

// RegisterRequest holds the registration form fields.
type RegisterRequest struct {
	Name             string
	Email            string
	Password         string
	AccountType      model.AccountType
	OrganizationName string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTTL sets how long an issued token stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithDelays sets the simulated latency of Login and Register.
func WithDelays(login, register time.Duration) Option {
	return func(m *Manager) {
		m.loginDelay = login
		m.registerDelay = register
	}
}

// WithStorageTimeout bounds every local-storage call. Defaults to 5s.
func WithStorageTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// Manager issues, stores and checks the session token. It is safe for
// concurrent use.
type Manager struct {
	storage storage.Storage
	store   *state.Store
	users   UserDirectory
	logger  *slog.Logger
	now     func() time.Time

	ttl           time.Duration
	loginDelay    time.Duration
	registerDelay time.Duration
	timeout       time.Duration

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// New creates a Manager, restoring any token found in st. An expired token
// is cleared immediately.
func New(st storage.Storage, store *state.Store, users UserDirectory, opts ...Option) *Manager {
	m := &Manager{
		storage:       st,
		store:         store,
		users:         users,
		logger:        slog.Default(),
		now:           time.Now,
		ttl:           DefaultTTL,
		loginDelay:    DefaultLoginDelay,
		registerDelay: DefaultRegisterDelay,
		timeout:       5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.restore()
	m.CheckTokenValidity()
	return m
}

func (m *Manager) restore() {
	ctx, cancel := m.storageContext()
	defer cancel()

	token, ok, err := m.storage.GetItem(ctx, TokenKey)
	if err != nil {
		m.logger.Error("restore auth token", "error", errors.FromError(err, "E200"))
		return
	}
	if !ok {
		return
	}
	raw, ok, err := m.storage.GetItem(ctx, ExpiryKey)
	if err != nil {
		m.logger.Error("restore auth expiry", "error", errors.FromError(err, "E200"))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	if !ok {
		return
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.logger.Warn("malformed auth expiry", "value", raw)
		return
	}
	m.expiry = time.UnixMilli(ms)
}

// Token returns the current token, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Expiry returns when the current token expires. Zero means no token.
func (m *Manager) Expiry() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiry
}

// Login signs in the user registered under email. Passwords are not
// checked.
func (m *Manager) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := wait(ctx, m.loginDelay); err != nil {
		return model.User{}, err
	}

	user, err := m.users.UserByEmail(email)
	if err != nil {
		m.logger.Info("login failed", "email", email)
		return model.User{}, errors.New("E300").Wrap(err)
	}
	if err := m.issue(ctx); err != nil {
		return model.User{}, err
	}

	m.store.SetCurrentUser(&user)
	m.logger.Info("user signed in", "user", user.ID)
	return user, nil
}

// Register creates an account and signs it in. Business accounts become
// ADMIN of a new organization; personal accounts are EDITORs.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	if err := wait(ctx, m.registerDelay); err != nil {
		return model.User{}, err
	}
	if err := validateRegistration(req); err != nil {
		return model.User{}, err
	}

	user := model.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Role:        model.RoleEditor,
		AccountType: req.AccountType,
		CreatedAt:   m.now().UTC(),
	}
	if req.AccountType == model.AccountBusiness {
		user.Role = model.RoleAdmin
	}

	user, err := m.users.AddUser(user)
	if err != nil {
		return model.User{}, err
	}
	if req.AccountType == model.AccountBusiness {
		name := strings.TrimSpace(req.OrganizationName)
		if name == "" {
			name = user.Name + "'s Organization"
		}
		org := m.users.AddOrganization(name)
		if user, err = m.users.AssignOrganization(user.ID, org.ID); err != nil {
			return model.User{}, err
		}
	}

	if err := m.issue(ctx); err != nil {
		return model.User{}, err
	}
	m.store.SetCurrentUser(&user)
	m.logger.Info("user registered", "user", user.ID, "accountType", user.AccountType)
	return user, nil
}

func validateRegistration(req RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return errors.New("E304").WithDetail("name is required")
	case !strings.Contains(req.Email, "@"):
		return errors.New("E304").WithDetailf("invalid email %q", req.Email)
	case req.AccountType != model.AccountPersonal && req.AccountType != model.AccountBusiness:
		return errors.New("E304").WithDetailf("unknown account type %q", req.AccountType)
	}
	return nil
}

// issue creates a fresh token and stores it with its expiry.
func (m *Manager) issue(ctx context.Context) error {
	token := generateToken()
	expiry := m.now().Add(m.ttl)

	if err := m.storage.SetItem(ctx, TokenKey, token); err != nil {
		return errors.FromError(err, "E201")
	}
	if err := m.storage.SetItem(ctx, ExpiryKey, formatExpiry(expiry)); err != nil {
		return errors.FromError(err, "E201")
	}

	m.mu.Lock()
	m.token, m.expiry = token, expiry
	m.mu.Unlock()
	return nil
}

// Logout removes the token and resets the state store, keeping the user's
// preferences.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token, m.expiry = "", time.Time{}
	m.mu.Unlock()

	ctx, cancel := m.storageContext()
	defer cancel()
	for _, key := range []string{TokenKey, ExpiryKey} {
		if err := m.storage.RemoveItem(ctx, key); err != nil {
			m.logger.Error("remove auth key", "key", key, "error", errors.FromError(err, "E201"))
		}
	}

	m.store.Clear(true)
}

// CheckTokenValidity reports whether a token with an unexpired expiry is
// present. An expired token is logged out.
func (m *Manager) CheckTokenValidity() bool {
	m.mu.Lock()
	token, expiry := m.token, m.expiry
	m.mu.Unlock()

	if token == "" || expiry.IsZero() {
		return false
	}
	if m.now().After(expiry) {
		m.logger.Info("auth token expired", "expiry", expiry)
		m.Logout()
		return false
	}
	return true
}

// IsAuthenticated reports whether the token is valid and a user is signed
// in.
func (m *Manager) IsAuthenticated() bool {
	return m.CheckTokenValidity() && m.store.IsAuthenticated()
}

// RefreshSession extends the token's expiry by the TTL from now.
func (m *Manager) RefreshSession(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return errors.New("E302")
	}

	expiry := m.now().Add(m.ttl)
	if err := m.storage.SetItem(ctx, ExpiryKey, formatExpiry(expiry)); err != nil {
		return errors.FromError(err, "E201")
	}

	m.mu.Lock()
	m.expiry = expiry
	m.mu.Unlock()
	return nil
}

func (m *Manager) storageContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func formatExpiry(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func generateToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = tokenChars[rand.IntN(len(tokenChars))]
	}
	return string(b)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
