package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/contractflow/dashboard/internal/app"
	"github.com/contractflow/dashboard/internal/config"
	"github.com/contractflow/dashboard/pkg/auth"
	"github.com/contractflow/dashboard/pkg/middleware"
	"github.com/contractflow/dashboard/pkg/mockdata"
	"github.com/contractflow/dashboard/pkg/server"
	"github.com/contractflow/dashboard/pkg/storage"
)

func serveCmd(load configLoader) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start the HTTP server hosting dashboard page sessions.

Examples:
  contractflow serve
  contractflow serve --port=9000 --host=0.0.0.0
  contractflow serve -c /etc/contractflow.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	st, err := cfg.OpenStorage(ctx)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	if c, ok := st.(storage.Closer); ok {
		defer c.Close()
	}

	appCfg := app.Config{
		Data:           mockdata.New(mockdata.WithSeed(cfg.Data.Seed)),
		Logger:         logger,
		StorageTimeout: cfg.Storage.Timeout,
		AuthOptions: []auth.Option{
			auth.WithTTL(cfg.Auth.TokenTTL),
			auth.WithDelays(cfg.Auth.LoginDelay, cfg.Auth.RegisterDelay),
		},
	}
	srvCfg := &server.Config{
		Address:         cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		SecureCookies:   cfg.Server.CookieSecure,
		MetricsPath:     cfg.Metrics.Path,
		Logger:          logger,
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := middleware.NewMetrics(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		appCfg.Metrics = metrics
		srvCfg.Metrics, srvCfg.Gatherer = metrics, reg
	}

	if cfg.Tracing.Enabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(newLogSpanProcessor(logger)))
		defer tp.Shutdown(context.Background())
		appCfg.Tracing = []middleware.TracingOption{
			middleware.WithTracerProvider(tp),
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithIncludeQuery(cfg.Tracing.IncludeQuery),
		}
	}

	logger.Info("starting contractflow",
		"version", version,
		"storage", cfg.Storage.Backend,
		"config", cfg.Path(),
	)
	srv := server.New(app.New(appCfg), st, srvCfg)
	return srv.Run(ctx)
}
