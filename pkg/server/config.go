package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/contractflow/dashboard/pkg/middleware"
)

// Config holds server configuration.
type Config struct {
	// Address is the listen address. Default: "localhost:8080".
	Address string

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers. Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between WebSocket pings. The connection is
	// dropped when no pong arrives within two intervals.
	// Default: 30 seconds.
	PingInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// SendQueue is the number of outgoing messages buffered per connection.
	// Default: 64.
	SendQueue int

	// CheckOrigin validates the WebSocket Origin header. Default: same
	// host only.
	CheckOrigin func(r *http.Request) bool

	// SecureCookies marks the client cookie Secure.
	SecureCookies bool

	// Metrics records sessions and client messages. Nil disables metrics.
	Metrics *middleware.Metrics

	// Gatherer backs GET /metrics. Defaults to prometheus.DefaultGatherer
	// when Metrics is set.
	Gatherer prometheus.Gatherer

	// MetricsPath is where metrics are served. Default: "/metrics".
	MetricsPath string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:8080",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendQueue:         64,
		MetricsPath:       "/metrics",
	}
}

// withDefaults fills unset fields of c from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.SendQueue == 0 {
		out.SendQueue = defaults.SendQueue
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.Metrics != nil && out.Gatherer == nil {
		out.Gatherer = prometheus.DefaultGatherer
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
