package cmd

import (
	"context"
	"geodrive-insight/internal/delivery/http"
	"geodrive-insight/internal/repository"
	"geodrive-insight/internal/service"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the GeoDrive Insight API and scheduler",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		appDep.cache,
		appDep.metrics,
		appDep.brands,
	)
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.cfg, appDep.log, appDep.echo, appDep.validator, services, appDep.metrics)

	if appDep.cfg.Scheduler.Enabled {
		if err := services.SchedulerService.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully...")

	if err := apiServer.Stop(); err != nil {
		appDep.log.Error("Failed to stop HTTP server", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), appDep.cfg.Scheduler.TimeoutDuration)
	defer cancel()
	if err := services.SchedulerService.Stop(stopCtx); err != nil {
		appDep.log.Warn("Scheduler did not stop in time", zap.Error(err))
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
