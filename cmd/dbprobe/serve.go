package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsnet"

	"dbprobe/internal/api"
	"dbprobe/internal/probe"
	"dbprobe/internal/security"
	"dbprobe/internal/storage"
	"dbprobe/internal/storage/factory"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve probe results over HTTP",
		Long: `Runs an HTTP server where every GET /probe performs a fresh probe and
returns the report as JSON (503 on failure). /graphql queries the same run;
/healthz and /metrics are served alongside.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			conn, err := cfg.Connection()
			if err != nil {
				return fmt.Errorf("invalid database configuration: %w", err)
			}

			if v.GetBool("test-mode") {
				return nil
			}

			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			return serve(cmd.Context(), logger, conn)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.String("ts-authkey", "", "Tailscale auth key for tsnet, serves on the tailnet only when set")
	flags.String("ts-hostname", "dbprobe", "Tailscale hostname (will be <hostname>.<tailnet>.ts.net)")
	flags.StringSlice("allow-cidr", nil, "Networks allowed to read /probe, /graphql and /metrics (repeatable, default everyone)")

	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, conn storage.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prober := probe.New(probe.Options{
		Config:    conn,
		Secondary: cfg.Secondary,
		Columns:   cfg.Columns,
		Open:      factory.Open,
		Logger:    logger,
		Metrics:   storage.NewMetrics(reg),
	})

	allow, err := security.NewAllowlist(cfg.Serve.AllowCIDRs)
	if err != nil {
		return fmt.Errorf("invalid allow-cidr: %w", err)
	}

	router, err := api.NewRouter(api.NewHandler(prober, logger), reg, reg, allow)
	if err != nil {
		return err
	}

	ln, closeListener, err := listen(ctx, logger)
	if err != nil {
		return err
	}
	defer closeListener()

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func listen(ctx context.Context, logger *slog.Logger) (net.Listener, func(), error) {
	if cfg.Serve.TSAuthKey == "" {
		ln, err := net.Listen("tcp", cfg.Serve.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to listen: %w", err)
		}
		logger.Info("Started HTTP server", "addr", ln.Addr().String())
		return ln, func() {}, nil
	}

	// Run as Tailscale service
	s := &tsnet.Server{
		Hostname: cfg.Serve.TSHostname,
		AuthKey:  cfg.Serve.TSAuthKey,
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "component", "tsnet")
		},
	}

	ln, err := s.Listen("tcp", ":80")
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("failed to listen: %w", err)
	}

	client, err := s.LocalClient()
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("failed to get local client: %w", err)
	}

	status, err := client.Status(ctx)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("failed to get status: %w", err)
	}

	hostname := strings.TrimSuffix(status.Self.DNSName, ".")
	logger.Info("Started Tailscale server", "url", fmt.Sprintf("http://%s", hostname))

	return ln, func() { s.Close() }, nil
}
