package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/auth"
	"github.com/contractflow/dashboard/pkg/middleware"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/storage"
	"github.com/contractflow/dashboard/pkg/toast"
	"github.com/contractflow/dashboard/pkg/vdom"
	"github.com/prometheus/client_golang/prometheus"
)

var fixedNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []toast.Toast
}

func (r *toastRecorder) Emit(event string, data any) {
	if t, ok := data.(toast.Toast); ok && event == toast.EventName {
		r.mu.Lock()
		r.toasts = append(r.toasts, t)
		r.mu.Unlock()
	}
}

func (r *toastRecorder) last() toast.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return toast.Toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

type harness struct {
	app     *App
	storage *storage.Memory
	toasts  *toastRecorder
	s       *Session
}

func newApp(cfg Config) *App {
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Now = func() time.Time { return fixedNow }
	cfg.AuthOptions = append(cfg.AuthOptions, auth.WithDelays(0, 0))
	return New(cfg)
}

func newHarness(t *testing.T, fragment string) *harness {
	t.Helper()
	h := &harness{app: newApp(Config{}), storage: storage.NewMemory(), toasts: &toastRecorder{}}
	h.open(t, fragment)
	return h
}

// open starts a session over the harness storage, as a page load would.
func (h *harness) open(t *testing.T, fragment string) {
	t.Helper()
	s, err := h.app.NewSession(h.storage, fragment, h.toasts)
	if err != nil {
		t.Fatal(err)
	}
	h.s = s
}

// route handles the current location synchronously.
func (h *harness) route() *vdom.VNode {
	h.s.Router.HandleRouteChange(context.Background())
	return h.s.Container.Tree()
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	if err := h.s.Dispatch(context.Background(), ActionLogin, Fields{"email": email, "password": "x"}); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
}

func TestRouteTableOrder(t *testing.T) {
	h := newHarness(t, "/")
	var got []string
	for _, r := range h.s.Router.Routes() {
		got = append(got, r.Pattern)
	}
	want := []string{
		"/login", "/register", "/", "/dashboard", "/contracts/new", "/contracts",
		"/contracts/:id", "/templates", "/templates/:id", "/organization", "/profile", "/logout",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("routes = %v\nwant %v", got, want)
	}
}

func TestGuardRedirectsToLogin(t *testing.T) {
	h := newHarness(t, "/contracts")
	h.route()
	if got := h.s.Location.Hash(); got != "/login?redirect=%2Fcontracts" {
		t.Fatalf("hash = %q", got)
	}
	if tree := h.route(); tree.FindByID("login-form") == nil {
		t.Error("login form not mounted")
	}
}

func TestLoginFollowsRedirect(t *testing.T) {
	h := newHarness(t, "/login?redirect=%2Fcontracts")
	h.route()
	if err := h.s.Dispatch(context.Background(), ActionLogin, Fields{
		"email": "editor@example.com", "password": "pw", "redirect": "/contracts",
	}); err != nil {
		t.Fatal(err)
	}
	if got := h.s.Location.Hash(); got != "/contracts" {
		t.Fatalf("hash = %q, want /contracts", got)
	}
	if last := h.toasts.last(); last.Level != toast.TypeSuccess || !strings.Contains(last.Message, "Editor User") {
		t.Errorf("toast = %+v", last)
	}

	tree := h.route()
	if tree.FindByID("contract-list") == nil {
		t.Error("contract list not mounted")
	}
	if tree.FindByID("page-title") == nil {
		t.Error("layout not mounted")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newHarness(t, "/login")
	err := h.s.Dispatch(context.Background(), ActionLogin, Fields{"email": "nobody@example.com"})
	if !errors.HasCode(err, "E300") {
		t.Fatalf("error = %v, want E300", err)
	}
	if last := h.toasts.last(); last.Level != toast.TypeError || last.Message != "Invalid email or password" {
		t.Errorf("toast = %+v", last)
	}
	if h.s.Location.Hash() != "/login" {
		t.Errorf("hash = %q", h.s.Location.Hash())
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/contracts":           "/contracts",
		"/contracts?status=x":  "/contracts?status=x",
		"//evil.example":       "/",
		"https://evil.example": "/",
		"/login":               "/",
		"/logout":              "/",
	}
	for in, want := range tests {
		if got := safeRedirect(in); got != want {
			t.Errorf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegisterBusinessAccount(t *testing.T) {
	h := newHarness(t, "/register")
	err := h.s.Dispatch(context.Background(), ActionRegister, Fields{
		"name": "Dana", "email": "dana@example.com", "password": "longenough",
		"accountType": "business", "organizationName": "Dana Co",
	})
	if err != nil {
		t.Fatal(err)
	}
	u := h.s.Store.CurrentUser()
	if u == nil || u.Role != model.RoleAdmin || u.OrganizationID == 0 {
		t.Fatalf("current user = %+v", u)
	}
	org, ok := state.Get[*model.Organization](h.s.Store, state.KeyOrganization)
	if !ok || org.Name != "Dana Co" {
		t.Errorf("organization = %+v", org)
	}
	if h.s.Location.Hash() != "/" {
		t.Errorf("hash = %q", h.s.Location.Hash())
	}

	err = h.s.Dispatch(context.Background(), ActionRegister, Fields{
		"name": "Again", "email": "dana@example.com", "accountType": "personal",
	})
	if !errors.HasCode(err, "E301") {
		t.Errorf("duplicate registration error = %v", err)
	}
}

func TestDashboardRedirect(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")
	h.s.Router.Navigate("/dashboard", nil)
	h.route()
	if got := h.s.Location.Hash(); got != "/" {
		t.Fatalf("hash = %q, want /", got)
	}
	if tree := h.route(); tree.FindByID("dashboard") == nil {
		t.Error("dashboard not mounted")
	}
}

func TestPermissionDenied(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "viewer@example.com")
	h.s.Router.Navigate("/organization", nil)
	tree := h.route()
	if !strings.Contains(tree.TextContent(), "Access Denied") {
		t.Errorf("text = %q", tree.TextContent())
	}
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, "/no/such/page")
	tree := h.route()
	if !strings.Contains(tree.TextContent(), "404 - Page Not Found") {
		t.Errorf("text = %q", tree.TextContent())
	}
}

func TestContractDetailRoute(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")
	h.s.Router.Navigate("/contracts/3", nil)
	tree := h.route()
	if n := tree.FindByID("contract-detail"); n == nil {
		t.Fatal("detail not mounted")
	} else if id, _ := n.Attr("data-id"); id != "3" {
		t.Errorf("data-id = %q", id)
	}

	h.s.Router.Navigate("/contracts/new", nil)
	if tree := h.route(); tree.FindByID("contract-create-form") == nil {
		t.Error("/contracts/new did not reach the create form")
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")
	h.s.Store.ToggleDarkMode()

	if err := h.s.Dispatch(context.Background(), ActionLogout, nil); err != nil {
		t.Fatal(err)
	}
	h.route()
	if h.s.Location.Hash() != "/login" {
		t.Errorf("hash = %q", h.s.Location.Hash())
	}
	if h.s.Store.CurrentUser() != nil || h.s.Auth.IsAuthenticated() {
		t.Error("still signed in")
	}
	if !h.s.Store.DarkMode() {
		t.Error("dark mode preference lost on logout")
	}
	if last := h.toasts.last(); last.Level != toast.TypeInfo || last.Message != "You have been logged out" {
		t.Errorf("toast = %+v", last)
	}
}

func TestUnknownAction(t *testing.T) {
	h := newHarness(t, "/")
	if err := h.s.Dispatch(context.Background(), "explode", nil); !errors.HasCode(err, "E451") {
		t.Errorf("error = %v, want E451", err)
	}
}

func TestCreateContract(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "editor@example.com")

	err := h.s.Dispatch(context.Background(), ActionCreateContract, Fields{
		"title": "Office Lease", "type": "Lease", "status": "pending", "value": "12000",
		"templateId": "5", "tags": "lease, office, lease", "summary": "Second floor",
	})
	if err != nil {
		t.Fatal(err)
	}

	contracts, _ := state.Get[[]model.Contract](h.s.Store, state.KeyContracts)
	if len(contracts) != 31 {
		t.Fatalf("contracts = %d, want 31", len(contracts))
	}
	c := contracts[0]
	if c.ID != 31 || c.Title != "Office Lease" || c.Status != model.StatusPending || c.Value != 12000 ||
		c.TemplateID != 5 || c.CreatedBy != 2 || len(c.Metadata.Tags) != 2 {
		t.Errorf("created = %+v", c)
	}
	if h.s.Location.Hash() != "/contracts/31" {
		t.Errorf("hash = %q", h.s.Location.Hash())
	}

	notes, _ := state.Get[[]model.Notification](h.s.Store, state.KeyNotifications)
	found := false
	for _, n := range notes {
		found = found || (n.Type == "contract_created" && n.RelatedID == 31)
	}
	if !found {
		t.Error("contract_created notification not loaded into the store")
	}
}

func TestCreateContractRejected(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		fields Fields
		code   string
	}{
		{"signed out", "", Fields{"title": "X", "type": "NDA"}, "E302"},
		{"viewer", "viewer@example.com", Fields{"title": "X", "type": "NDA"}, "E305"},
		{"missing title", "admin@example.com", Fields{"type": "NDA"}, "E404"},
		{"bad value", "admin@example.com", Fields{"title": "X", "type": "NDA", "value": "-3"}, "E404"},
		{"unknown template", "admin@example.com", Fields{"title": "X", "type": "NDA", "templateId": "77"}, "E402"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "/login")
			if tt.email != "" {
				h.login(t, tt.email)
			}
			err := h.s.Dispatch(context.Background(), ActionCreateContract, tt.fields)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if h.toasts.last().Level != toast.TypeError {
				t.Errorf("toast = %+v", h.toasts.last())
			}
			if n := len(h.app.Data().Contracts()); n != 30 {
				t.Errorf("backend contracts = %d, want 30", n)
			}
		})
	}
}

func TestToggleDarkModeRefreshes(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")
	h.route()

	if err := h.s.Dispatch(context.Background(), ActionToggleDarkMode, nil); err != nil {
		t.Fatal(err)
	}
	if !h.s.Store.DarkMode() {
		t.Error("dark mode not toggled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var last string
	for {
		frag, err := h.s.Location.Next(ctx)
		if err != nil {
			break
		}
		last = frag
	}
	if last != "/" {
		t.Errorf("last queued fragment = %q, want a reload of /", last)
	}
}

func TestUpdatePreferences(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "editor@example.com")

	err := h.s.Dispatch(context.Background(), ActionUpdatePreferences, Fields{
		"notificationsEnabled": "on", "contractReminders": "on", "dashboardView": "grid",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := model.Preferences{NotificationsEnabled: true, ContractReminders: true, DashboardView: "grid"}
	if got := h.s.Store.Preferences(); got != want {
		t.Errorf("preferences = %+v, want %+v", got, want)
	}
}

func TestMarkNotificationsRead(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")

	if err := h.s.Dispatch(context.Background(), ActionMarkNotificationsRead, nil); err != nil {
		t.Fatal(err)
	}
	notes, _ := state.Get[[]model.Notification](h.s.Store, state.KeyNotifications)
	for _, n := range notes {
		if !n.Read {
			t.Fatalf("notification %d still unread in store", n.ID)
		}
	}
	for _, n := range h.app.Data().NotificationsForUser(1) {
		if !n.Read {
			t.Fatalf("notification %d still unread in backend", n.ID)
		}
	}
}

func TestFilterActions(t *testing.T) {
	h := newHarness(t, "/")
	ctx := context.Background()

	if err := h.s.Dispatch(ctx, ActionFilterContracts, Fields{"status": "signed", "search": " nda ", "type": ""}); err != nil {
		t.Fatal(err)
	}
	if got := h.s.Location.Hash(); got != "/contracts?search=nda&sort=createdAt%3Adesc&status=signed" {
		t.Errorf("hash = %q", got)
	}

	if err := h.s.Dispatch(ctx, ActionFilterContracts, Fields{"sort": "title:asc"}); err != nil {
		t.Fatal(err)
	}
	if got := h.s.Location.Hash(); got != "/contracts?sort=title%3Aasc" {
		t.Errorf("hash = %q", got)
	}

	if err := h.s.Dispatch(ctx, ActionFilterTemplates, Fields{"category": "Business"}); err != nil {
		t.Fatal(err)
	}
	if got := h.s.Location.Hash(); got != "/templates?category=Business" {
		t.Errorf("hash = %q", got)
	}
}

func TestReloadRestoresSession(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "editor@example.com")

	h.open(t, "/contracts")
	if !h.s.Auth.IsAuthenticated() {
		t.Fatal("session not restored")
	}
	contracts, _ := state.Get[[]model.Contract](h.s.Store, state.KeyContracts)
	if len(contracts) != 30 {
		t.Errorf("contracts after reload = %d, want 30", len(contracts))
	}
	if tree := h.route(); tree.FindByID("contract-list") == nil {
		t.Error("guarded page not reachable after reload")
	}
}

func TestRunServesNavigations(t *testing.T) {
	h := newHarness(t, "/login")
	h.login(t, "admin@example.com")

	mounted := make(chan struct{}, 16)
	h.s.Container.OnChange(func(tree *vdom.VNode) {
		if tree.FindByID("template-list") != nil {
			select {
			case mounted <- struct{}{}:
			default:
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.s.Run(ctx) }()

	h.s.Router.Navigate("/templates", nil)
	select {
	case <-mounted:
	case <-time.After(2 * time.Second):
		t.Fatal("template list never mounted")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
}

func TestMetricsWired(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := newApp(Config{Metrics: middleware.NewMetrics(middleware.WithRegistry(reg))})
	s, err := a.NewSession(storage.NewMemory(), "/login", nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Router.HandleRouteChange(context.Background())

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "contractflow_navigations_total" {
			return
		}
	}
	t.Error("navigation counter not recorded")
}
