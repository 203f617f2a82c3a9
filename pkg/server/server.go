package server

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contractflow/dashboard/internal/app"
	"github.com/contractflow/dashboard/pkg/render"
	"github.com/contractflow/dashboard/pkg/router"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/storage"
	"github.com/contractflow/dashboard/pkg/vdom"
)

//go:embed static/app.js
var static embed.FS

// ClientScriptPath is where the browser client is served.
const ClientScriptPath = "/static/app.js"

var clientScript, clientETag = func() ([]byte, string) {
	data, err := static.ReadFile("static/app.js")
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256(data)
	return data, fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}()

// Server hosts one page session per WebSocket connection. Every browser's
// local storage lives in a shared backend, namespaced by client id.
type Server struct {
	app      *app.App
	storage  storage.Storage
	config   *Config
	renderer *render.Renderer
	upgrader websocket.Upgrader
	handler  http.Handler
	logger   *slog.Logger

	httpServer   *http.Server
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates a Server. st is the backend every client's local storage is
// carved from.
func New(a *app.App, st storage.Storage, cfg *Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		app:      a,
		storage:  st,
		config:   cfg,
		renderer: render.NewRenderer(render.RendererConfig{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:     cfg.Logger.With("component", "server"),
		shutdownCh: make(chan struct{}),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the server's HTTP handler, for mounting in tests or
// other routers.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)

	r.Get("/", s.servePage)
	r.Get("/healthz", s.serveHealth)
	r.Get(ClientScriptPath, s.serveClient)
	r.Get("/ws", s.serveWebSocket)
	if s.config.Metrics != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type requestIDKey struct{}

// requestID tags each request with a uuid, echoed in X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id requestID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()),
		)
	})
}

// servePage renders the document shell. The fragment never reaches the
// server, so the body is only the loading indicator until the client
// connects and reports it.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	client := s.ensureClientID(w, r)
	store := state.New(storage.Scoped(s.storage, client), state.WithLogger(s.logger))

	body := router.NewContainer().Tree()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.renderer.RenderPage(w, render.PageData{
		Title:        "ContractFlow",
		DarkMode:     store.DarkMode(),
		ClientScript: ClientScriptPath,
		Body:         vdom.Div(vdom.Class("app-root"), body),
	})
	if err != nil {
		s.logger.Error("render page", "error", err, "request_id", RequestID(r.Context()))
	}
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(clientScript)
}

func etagMatches(ifNoneMatchHeader, etag string) bool {
	for _, part := range strings.Split(ifNoneMatchHeader, ",") {
		candidate := strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

// serveWebSocket upgrades the request and runs a page session on it until
// either side hangs up. The starting fragment comes from ?hash=.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	client, ok := clientID(r)
	if !ok {
		http.Error(w, "missing client cookie", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(s, ws, client)
	sess, err := s.app.NewSession(storage.Scoped(s.storage, client), r.URL.Query().Get("hash"), c)
	if err != nil {
		s.logger.Error("open session", "client", client, "error", err)
		ws.Close()
		return
	}
	c.session = sess
	unsubscribe := c.attach()
	defer unsubscribe()

	if m := s.config.Metrics; m != nil {
		m.SessionOpened()
		defer m.SessionClosed()
	}
	s.logger.Info("session opened", "client", client, "hash", sess.Location.Hash())

	// r.Context() is done once the handler returns, and the hijacked
	// connection does not cancel it earlier.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := sess.Run(ctx); err != nil {
			s.logger.Error("session loop", "client", client, "error", err)
		}
	}()

	go func() {
		select {
		case <-c.done:
		case <-s.shutdownCh:
			c.close()
		}
	}()

	c.readLoop(ctx)

	cancel()
	<-runDone
	c.actions.Wait()
	<-writerDone
	s.logger.Info("session closed", "client", client)
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	// Hijacked WebSocket connections are not closed by http.Server.
	s.httpServer.RegisterOnShutdown(func() {
		s.shutdownOnce.Do(func() { close(s.shutdownCh) })
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting requests and closes every page session.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
