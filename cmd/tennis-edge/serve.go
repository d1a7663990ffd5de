package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/api"
	"github.com/yourusername/tennis-edge/internal/feed"
	"github.com/yourusername/tennis-edge/internal/health"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/scheduler"
	"github.com/yourusername/tennis-edge/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, ledger feed and maintenance jobs",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
		"ledger":      cfg.Ledger.Backend,
		"snapshots":   cfg.Rating.SnapshotBackend,
	}).Info("Starting tennis-edge")

	metrics.InitRegistry()

	tracingCfg := tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}
	if err := tracing.Initialize(tracingCfg, appLog); err != nil {
		return err
	}

	hub := feed.NewHub(appLog)
	defer hub.Close()

	a, err := buildApp(ctx, cfg, appLog, hub)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	var healthServer *health.Server
	if cfg.Health.Enabled {
		checks := map[string]health.Check{}
		if a.db != nil {
			checks["database"] = health.PingCheck(a.db)
		}
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Health.Port,
			Logger:      appLog,
			Checks:      checks,
			Stats: func() map[string]int {
				summary := a.session.Summary()
				return map[string]int{
					"players":         len(a.session.Players()),
					"ledger_entries":  summary.Entries,
					"pending_entries": summary.Pending,
					"feed_clients":    hub.ClientCount(),
				}
			},
		})
		if err := healthServer.Start(ctx); err != nil {
			appLog.WithError(err).Warn("Failed to start health server")
		}
	}

	apiCfg := api.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		Feed:         hub,
		Tracing:      tracingCfg,
		Logger:       appLog,
	}
	if cfg.Metrics.Enabled {
		apiCfg.MetricsPath = cfg.Metrics.Path
		apiCfg.Metrics = metrics.Handler()
	}
	apiServer := api.NewServer(a.session, apiCfg)
	if err := apiServer.Start(ctx); err != nil {
		a.shutdown(context.Background())
		return err
	}

	sched := scheduler.NewScheduler(appLog)
	if cfg.Rating.AutosaveCron != "" {
		if err := sched.ScheduleAutosave(cfg.Rating.AutosaveCron, a.session); err != nil {
			a.shutdown(context.Background())
			return err
		}
		if err := sched.Start(); err != nil {
			a.shutdown(context.Background())
			return err
		}
	}

	if healthServer != nil {
		healthServer.SetReady(true)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig.String()).Info("Received shutdown signal")
	case <-ctx.Done():
	}

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	sched.Stop()
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Warn("API server shutdown error")
	}
	if healthServer != nil {
		healthServer.Shutdown()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Failed to persist ratings on shutdown")
		return err
	}

	appLog.Info("Shutdown complete")
	return nil
}
