package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/job-runner/api/v1"
	"github.com/kubev2v/job-runner/internal/handlers"
	"github.com/kubev2v/job-runner/internal/jobs"
	"github.com/kubev2v/job-runner/internal/metrics"
	"github.com/kubev2v/job-runner/internal/server"
	"github.com/kubev2v/job-runner/internal/services"
	"github.com/kubev2v/job-runner/internal/store"
	"github.com/kubev2v/job-runner/internal/store/migrations"
	srvErrors "github.com/kubev2v/job-runner/pkg/errors"
	"github.com/kubev2v/job-runner/pkg/jobrunner"
	"github.com/kubev2v/job-runner/pkg/scheduler"
)

const schedulerWorkers = 2

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the job runner daemon",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	log := zap.S().Named("main")
	log.Infow("starting job runner", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return err
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to migrate run history: %w", err)
	}
	st := store.NewStore(db)
	defer st.Close()

	sched := scheduler.NewScheduler(schedulerWorkers)
	defer sched.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	runnerMetrics, err := metrics.NewRunnerMetrics(registry)
	if err != nil {
		return err
	}

	defs, err := jobs.FromConfig(cfg.Jobs)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		log.Warnw("no jobs configured, the runner will exit right away")
	}

	runnerSrv := services.NewRunnerService(cfg.Runner, cfg.Store.HistorySize, defs, st, sched,
		jobrunner.WithLogger(zap.L()),
		jobrunner.WithHooks(runnerMetrics),
	)
	defer runnerSrv.Close()
	historySrv := services.NewHistoryService(st, sched)

	srv, err := server.NewServer(cfg, func(router gin.IRoutes) {
		v1.RegisterHandlers(router, handlers.New(runnerSrv, historySrv))
	}, server.WithGatherer(registry))
	if err != nil {
		return err
	}

	if err := runnerSrv.Start(); err != nil {
		return fmt.Errorf("failed to start runner: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Infow("signal received, shutting down")
		runErr = shutdownRunner(runnerSrv, cfg.Runner.ShutdownTimeout)
	case <-runnerSrv.Done():
		log.Infow("runner exited")
		runErr = runnerSrv.Err()
	case err := <-serverErr:
		log.Errorw("control api failed", "error", err)
		runErr = errors.Join(err, shutdownRunner(runnerSrv, cfg.Runner.ShutdownTimeout))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Runner.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		log.Warnw("control api did not stop cleanly", "error", err)
	}

	return runErr
}

func shutdownRunner(svc *services.RunnerService, timeout time.Duration) error {
	err := svc.Shutdown(context.Background(), timeout)
	// Closed: the worker already exited, for instance after a shutdown over the api.
	if err == nil || srvErrors.IsClosedError(err) {
		return svc.Err()
	}
	return err
}
