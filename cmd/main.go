package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"lead-insights-service/internal/config"
	"lead-insights-service/internal/controller"
	"lead-insights-service/internal/db"
	httpserver "lead-insights-service/internal/http"
	"lead-insights-service/internal/logger"
	"lead-insights-service/internal/repository"
	"lead-insights-service/internal/service"
	"lead-insights-service/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := repository.NewLeadRepository(conn)
	worker := service.NewBatchLeadWorker(repo, logg, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	defer worker.Shutdown()

	statsOpts := stats.Options{
		Breakdown:        stats.BreakdownMode(cfg.BreakdownMode),
		IncludeUndefined: cfg.RankUndefined,
	}
	leadService := service.NewLeadService(repo, worker, logg, cfg.FutureTolerance, statsOpts, cfg.BaseURL)
	leadController := controller.NewLeadController(leadService)

	server := httpserver.NewServer(cfg, logg, leadController)

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			logg.Error().Err(err).Msg("server shutdown")
		}
	}()

	logg.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
