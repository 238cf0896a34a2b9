// README: Entry point; loads config, wires the assistant, maps client and rate limiter, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mapchat/internal/ai"
	"mapchat/internal/config"
	httptransport "mapchat/internal/http"
	"mapchat/internal/infra"
	"mapchat/internal/maps"
	"mapchat/internal/modules/ratelimit"
	"mapchat/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("mapchat-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Maps.APIKey == "" {
		return errors.New("GOOGLE_MAPS_API_KEY is required")
	}

	shutdownTracing, err := infra.NewTracerProvider(cfg.Tracing.Enabled, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	completer, closeCompleter, err := ai.NewCompleter(ctx, ai.ProviderConfig{
		Provider:     cfg.LLM.Provider,
		OllamaURL:    cfg.LLM.OllamaURL(),
		OllamaModel:  cfg.LLM.OllamaModel,
		GeminiAPIKey: cfg.LLM.GeminiKey,
		GeminiModel:  cfg.LLM.GeminiModel,
	})
	if err != nil {
		return err
	}
	defer closeCompleter()
	logger.Info("completion provider ready", zap.String("provider", completer.Name()))

	mapsClient, err := maps.NewClient(maps.Config{APIKey: cfg.Maps.APIKey}, logger)
	if err != nil {
		return err
	}

	var store ratelimit.Store
	switch cfg.RateLimit.Backend {
	case "redis":
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		store = ratelimit.NewRedisStore(rdb)
	default:
		store = ratelimit.NewMemoryStore(cfg.RateLimit.MaxClients, cfg.RateLimit.Window)
	}
	limiter := ratelimit.NewService(store, ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}, ratelimit.WithLogger(logger))
	logger.Info("rate limiter ready",
		zap.String("backend", cfg.RateLimit.Backend),
		zap.Int("max_requests", limiter.Limit()),
		zap.Duration("window", limiter.Window()),
	)

	extractor := ai.NewExtractor(completer, logger)
	composer := service.NewComposer(mapsClient, logger)
	assistant := service.NewAssistant(extractor, composer)

	gin.SetMode(cfg.HTTP.GinMode)
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Assistant:      assistant,
		Maps:           mapsClient,
		Limiter:        limiter,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Logger:         logger,
	})

	return httptransport.NewServer(cfg.HTTP.Addr, router, logger).Run(ctx)
}
