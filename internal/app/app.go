package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/contractflow/dashboard/internal/components"
	"github.com/contractflow/dashboard/pkg/auth"
	"github.com/contractflow/dashboard/pkg/middleware"
	"github.com/contractflow/dashboard/pkg/mockdata"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/storage"
	"github.com/contractflow/dashboard/pkg/toast"
)

// Config configures an App.
type Config struct {
	// Data is the shared backend. Defaults to a freshly seeded mock.
	Data *mockdata.Data

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Metrics, when set, records every navigation.
	Metrics *middleware.Metrics

	// Tracing lists options for navigation spans. Nil disables tracing.
	Tracing []middleware.TracingOption

	// StorageTimeout bounds each local-storage call.
	StorageTimeout time.Duration

	// AuthOptions are passed to every session's auth manager.
	AuthOptions []auth.Option
}

// App holds what page sessions share.
type App struct {
	config Config
	data   *mockdata.Data
	logger *slog.Logger
}

// New creates an App.
func New(cfg Config) *App {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Data == nil {
		cfg.Data = mockdata.New(mockdata.WithClock(cfg.Now))
	}
	if cfg.StorageTimeout == 0 {
		cfg.StorageTimeout = 5 * time.Second
	}
	return &App{config: cfg, data: cfg.Data, logger: cfg.Logger}
}

// Data returns the shared backend.
func (a *App) Data() *mockdata.Data {
	return a.data
}

// Session is one browser page: its store, auth, router and components.
type Session struct {
	Store      *state.Store
	Auth       *auth.Manager
	Location   *router.HashLocation
	Container  *router.Container
	Router     *router.Router
	Components *components.Registry

	app    *App
	toasts toast.Emitter
	logger *slog.Logger
}

// NewSession builds a session over st, the browser's local storage,
// starting at fragment. Toasts go to emitter, which may be nil.
func (a *App) NewSession(st storage.Storage, fragment string, emitter toast.Emitter) (*Session, error) {
	logger := a.logger
	store := state.New(st,
		state.WithLogger(logger),
		state.WithDataSource(a.data),
		state.WithStorageTimeout(a.config.StorageTimeout),
	)

	authOpts := append([]auth.Option{
		auth.WithLogger(logger),
		auth.WithClock(a.config.Now),
		auth.WithStorageTimeout(a.config.StorageTimeout),
	}, a.config.AuthOptions...)
	mgr := auth.New(st, store, a.data, authOpts...)

	// A persisted user survives a reload but the per-user slices do not.
	if u := store.CurrentUser(); u != nil && mgr.IsAuthenticated() {
		store.SetCurrentUser(u)
	}

	loc := router.NewHashLocation(fragment)
	container := router.NewContainer()
	s := &Session{
		Store:     store,
		Auth:      mgr,
		Location:  loc,
		Container: container,
		Router: router.New(loc, container,
			router.WithAuthenticator(mgr),
			router.WithPermissionChecker(store),
			router.WithLogger(logger),
		),
		Components: components.NewRegistry(components.Deps{
			Store:  store,
			Data:   a.data,
			Logger: logger,
			Now:    a.config.Now,
		}),
		app:    a,
		toasts: emitter,
		logger: logger,
	}

	if a.config.Tracing != nil {
		s.Router.Use(middleware.Tracing(a.config.Tracing...))
	}
	if a.config.Metrics != nil {
		s.Router.Use(a.config.Metrics.Middleware())
	}
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run handles the current location and every later change until ctx ends.
func (s *Session) Run(ctx context.Context) error {
	return s.Router.Run(ctx)
}

// Refresh re-renders the current location on the router's goroutine.
func (s *Session) Refresh() {
	s.Location.Reload()
}
