package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/internal/repository/postgres"
	"github.com/atarasenko/contribution-service/internal/service"
	myhttp "github.com/atarasenko/contribution-service/internal/transport/http"
	"github.com/atarasenko/contribution-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting contribution-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	pg, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := pg.DB().Close(); err != nil {
			log.Error("db close failed", slog.String("error", err.Error()))
		}
	}()

	db := pg.DB()

	projectRepo := postgres.NewProjectRepository(db, log)
	rosterRepo := postgres.NewRosterRepository(db, log)
	taskRepo := postgres.NewTaskRepository(db, log)
	commitRepo := postgres.NewCommitRepository(db, log)
	reviewRepo := postgres.NewReviewRepository(db, log)
	scoreRepo := postgres.NewScoreRepository(db, log)
	caseRepo := postgres.NewCaseRepository(db, log)

	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.Notifier.WebhookURL != "" {
		notifier = service.NewWebhookNotifier(cfg.Notifier)
	}
	dispatcher := service.NewDispatcher(notifier, log, cfg.Notifier)

	locks := service.NewProjectLocks()
	base := service.NewBaseService(db, log)

	projectService := service.NewProjectService(projectRepo, rosterRepo, cfg.Scoring)
	taskService := service.NewTaskService(log, taskRepo)
	commitService := service.NewCommitService(log, commitRepo, rosterRepo)
	reviewService := service.NewReviewService(log, reviewRepo)
	recomputeService := service.NewRecomputeService(db, log,
		projectRepo, rosterRepo, taskRepo, commitRepo, reviewRepo, scoreRepo,
		cfg.Scoring, locks)
	scoreService := service.NewScoreService(base, scoreRepo, locks)
	pressureService := service.NewPressureService(log, projectRepo, rosterRepo, taskRepo, cfg.Scoring, dispatcher)
	freeRiderService := service.NewFreeRiderService(log, projectRepo, rosterRepo, scoreRepo, caseRepo, cfg.Scoring, dispatcher)

	srv := myhttp.NewServer(log,
		projectService, taskService, commitService, reviewService,
		recomputeService, scoreService, pressureService, freeRiderService)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
