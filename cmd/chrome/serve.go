package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/hanko-chrome/internal/chrome/breadcrumbs"
	"finitefield.org/hanko-chrome/internal/chrome/httpserver"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
	"finitefield.org/hanko-chrome/internal/chrome/registry"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chrome API and reload navigation on change.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("address", "", "listen address")
	cmd.Flags().String("base-path", "", "mount point of the API routes")
	bindFlags(a.v, cmd.Flags(), map[string]string{
		"server.address":   "address",
		"server.base_path": "base-path",
	})
	return cmd
}

func (a *app) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(promRegistry)

	reg := registry.New()
	loader := a.loader()
	revision, err := loader.LoadInto(reg)
	metrics.ObserveReload(revision, err)
	if err != nil {
		return fmt.Errorf("load navigation: %w", err)
	}
	snap := reg.Snapshot()
	logger.Info("navigation loaded",
		zap.String("dir", cfg.Navigation.Dir),
		zap.Strings("bundles", snap.BundleIDs()),
		zap.Int("routes", len(snap.Routes)),
	)

	svc := breadcrumbs.NewService(reg,
		breadcrumbs.WithCache(cfg.Cache.MaxSize, cfg.Cache.TTL),
		breadcrumbs.WithMetrics(metrics),
		breadcrumbs.WithLogger(logger),
	)
	defer svc.Stop()

	srv := httpserver.New(httpserver.Config{
		Address:      cfg.Server.Address,
		BasePath:     cfg.Server.BasePath,
		Environment:  cfg.Server.Environment,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       logger,
		Registry:     reg,
		Resolver:     svc,
		Gatherer:     promRegistry,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("chrome server listening",
			zap.String("address", cfg.Server.Address),
			zap.String("base_path", cfg.Server.BasePath),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	if cfg.Navigation.Watch {
		watcher := registry.NewWatcher(loader, reg,
			registry.WithLogger(logger),
			registry.WithMetrics(metrics),
		)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("chrome server stopped")
		return nil
	})

	return g.Wait()
}
