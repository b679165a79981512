package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"portfolio-api/internal/config"
	"portfolio-api/internal/db"
	"portfolio-api/internal/handler"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/metrics"
	"portfolio-api/internal/notifier"
	"portfolio-api/internal/router"
	"portfolio-api/internal/scheduler"
	"portfolio-api/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Run initializes and starts the application and blocks until it is
// interrupted or the HTTP server fails
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()

	logrus.Info("Starting Portfolio API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := db.OpenRepository(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	var n notifier.Notifier = notifier.Noop{}
	if cfg.Notifier.Enabled {
		n, err = notifier.NewGmailNotifier(ctx, &cfg.Notifier)
		if err != nil {
			_ = repo.Close(context.Background())
			return fmt.Errorf("failed to create notifier: %w", err)
		}
		logrus.Infof("New contact notifications will be sent to %s", cfg.Notifier.NotifyTo)
	}

	svc := service.NewContactService(repo, n, m, cfg.Portfolio)
	sched := scheduler.NewScheduler(&cfg.Scheduler, svc, m)

	h := handler.NewHandlers(svc, sched)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(h, cfg.CORS, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Scheduler.Enabled {
		if err := sched.RunOnce(ctx); err != nil {
			logrus.Warnf("Initial stats refresh failed: %v", err)
		}
		if err := sched.Start(); err != nil {
			_ = repo.Close(context.Background())
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := sched.Stop(); err != nil {
			logrus.Errorf("Failed to stop scheduler: %v", err)
		}
		sched.Wait()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("HTTP server shutdown error: %v", err)
		}

		svc.Wait()

		if err := n.Close(); err != nil {
			logrus.Errorf("Failed to close notifier: %v", err)
		}
		if err := repo.Close(shutdownCtx); err != nil {
			logrus.Errorf("Failed to close database: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
