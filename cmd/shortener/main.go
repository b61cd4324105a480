package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/config"
	"github.com/mvidal/urlshort/internal/generator"
	"github.com/mvidal/urlshort/internal/handler"
	"github.com/mvidal/urlshort/internal/metrics"
	"github.com/mvidal/urlshort/internal/repository"
	"github.com/mvidal/urlshort/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.ParseFlags()
	if err != nil {
		sugar.Fatalw("Configuration error", "error", err.Error())
	}

	sugar.Infow("Configuration loaded",
		"server_address", cfg.ServerAddress,
		"base_url", cfg.BaseURL,
		"database", cfg.DatabaseDSN != "",
		"cache", cfg.RedisAddr != "",
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var repo repository.Repository
	if cfg.DatabaseDSN != "" {
		pgRepo, err := repository.NewPostgresRepository(cfg.DatabaseDSN)
		if err != nil {
			sugar.Fatalw("Failed to connect to PostgreSQL", "error", err.Error())
		}
		repo = pgRepo
		sugar.Infow("Using PostgreSQL repository")
	} else {
		repo = repository.NewMemoryRepository()
		sugar.Infow("Using in-memory repository")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		repo = repository.NewCachedRepository(repo, client, cfg.CacheTTL, logger, m)
		sugar.Infow("Lookup cache enabled", "redis_addr", cfg.RedisAddr)
	}
	defer repo.Close()

	shortenerService := service.NewShortenerService(repo, generator.New(), logger, m)

	h := handler.NewHandler(shortenerService, logger, cfg.BaseURL)
	r := h.SetupRouter(registry)

	sugar.Infow("Server starting", "address", cfg.ServerAddress)

	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		sugar.Fatalw(err.Error(), "event", "start server")
	}
}
