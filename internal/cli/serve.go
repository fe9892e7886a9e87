package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kalyuk/swagdeco/annotate"
	"github.com/kalyuk/swagdeco/httpmw"
	"github.com/kalyuk/swagdeco/route/adapters"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		framework string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo API with its documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if framework != "" {
				a.cfg.Server.Framework = framework
			}

			srv, err := a.server()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&framework, "framework", "", "router framework: stdlib, echo, gin, fiber")
	return cmd
}

// server builds the configured framework adapter with the demo API, the
// docs endpoints and the metrics endpoint mounted.
func (a *app) server() (adapters.Server, error) {
	srv, err := adapters.New(a.cfg.Server.Framework)
	if err != nil {
		return nil, newUsageError(err.Error())
	}

	middleware := []func(http.Handler) http.Handler{
		httpmw.RequestID(httpmw.RequestIDConfig{TrustIncoming: true}),
		httpmw.AccessLog(a.logger),
	}

	var metrics *httpmw.Metrics
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if metrics, err = httpmw.NewMetrics(reg); err != nil {
			return nil, err
		}
		middleware = append(middleware, metrics.Middleware())
	}
	middleware = append(middleware, httpmw.Recovery(httpmw.RecoveryConfig{Logger: a.logger, Stack: a.verbose}))

	reg, err := a.registry(annotate.WithMiddleware(middleware...))
	if err != nil {
		return nil, err
	}

	hc := a.cfg.HandleConfig()
	var extra []string
	if hc != nil {
		extra = append(extra, hc.Paths(a.cfg.Docs.Path)...)
	}
	if metrics != nil {
		extra = append(extra, a.cfg.Metrics.Path)
	}
	if err := checkRouteConflicts(reg.Routes(), extra); err != nil {
		return nil, err
	}

	if err := reg.Mount(srv); err != nil {
		return nil, err
	}
	if hc != nil {
		reg.Document().Handle(srv, a.cfg.Docs.Path, hc)
	}
	if metrics != nil {
		srv.Handle(http.MethodGet, a.cfg.Metrics.Path, metrics.Handler())
	}
	return srv, nil
}

// checkRouteConflicts reports GET paths claimed twice by the docs and
// metrics endpoints and the mounted routes. Routers refuse or panic on
// duplicate registrations.
func checkRouteConflicts(routes []annotate.RouteInfo, paths []string) error {
	owners := make(map[string]string, len(routes)+len(paths))
	for _, r := range routes {
		if r.Method == http.MethodGet {
			owners[r.URL] = r.Entity + "." + r.Member
		}
	}

	var errs []error
	for _, p := range paths {
		if owner, ok := owners[p]; ok {
			errs = append(errs, fmt.Errorf("%w: GET %s is claimed by %s", ErrRouteConflict, p, owner))
			continue
		}
		owners[p] = "docs or metrics endpoint"
	}
	return errors.Join(errs...)
}

// run starts srv and blocks until ctx is done or the server fails, then
// shuts it down within the configured timeout.
func (a *app) run(ctx context.Context, srv adapters.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(a.cfg.Server.Addr)
	}()

	a.logger.Info("server started",
		slog.String("addr", a.cfg.Server.Addr),
		slog.String("framework", srv.Name()),
		slog.String("docs", a.cfg.Docs.Path),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
