package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/oggyb/matchfeed/internal/app"
	"github.com/oggyb/matchfeed/internal/cache"
	"github.com/oggyb/matchfeed/internal/config"
	"github.com/oggyb/matchfeed/internal/db"
	"github.com/oggyb/matchfeed/internal/logger"
	"github.com/oggyb/matchfeed/internal/server"
	"github.com/oggyb/matchfeed/internal/service/feed"
	"github.com/oggyb/matchfeed/internal/service/rotation"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	rotationSvc := rotation.NewService(appCtx)

	registrars := []server.Registrar{
		feed.NewRegistrar(appCtx),
		rotation.NewRegistrar(appCtx, rotationSvc),
	}
	router := server.NewRouter(cfg, registrars...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Rotation.Cron != "" {
		sched, err := rotation.NewScheduler(rotationSvc, cfg.Rotation.Cron)
		if err != nil {
			log.Error("invalid rotation cron expression", "cron", cfg.Rotation.Cron, "err", err)
			return
		}
		sched.Start()
		defer sched.Stop()
		log.Info("rotation scheduler started", "cron", cfg.Rotation.Cron)
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(ctx, cfg, router); err != nil {
		log.Error("http server stopped", "err", err)
	}
}
