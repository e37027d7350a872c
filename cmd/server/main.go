package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/torimo/backend/config"
	httpDelivery "github.com/torimo/backend/internal/delivery/http"
	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/infrastructure/aliasstore"
	"github.com/torimo/backend/internal/infrastructure/cache"
	"github.com/torimo/backend/internal/infrastructure/dataset"
	"github.com/torimo/backend/internal/infrastructure/gemini"
	"github.com/torimo/backend/internal/infrastructure/usda"
	"github.com/torimo/backend/internal/pkg/logging"
	"github.com/torimo/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting torimo nutrition backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
	)

	// Process-wide read-only caches, loaded on first use
	datasets := dataset.NewStore(dataset.NewLoader(logger), cfg.Dataset.Path, cfg.Dataset.OverridePath)
	aliases := aliasstore.NewStore(cfg.Dataset.AliasPath, logger)

	cacheRepo, closeCache, err := newCache(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer closeCache()

	var api domain.NutritionAPI
	if cfg.USDA.APIKey != "" {
		client := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, usda.Options{
			RequestsPerHour: cfg.RateLimit.USDA,
			PageSize:        cfg.USDA.PageSize,
			HTTPTimeout:     cfg.USDA.Timeout,
			Logger:          logger,
		})
		client.SetDebug(cfg.Server.Environment == "development")
		api = client
		logger.Info("USDA lookup enabled", zap.String("base_url", cfg.USDA.BaseURL))
	} else {
		logger.Warn("USDA API key not configured, external lookup disabled")
	}

	var (
		llmParser  domain.ItemParser
		normalizer domain.NameNormalizer
	)
	if cfg.Gemini.APIKey != "" {
		llm := gemini.NewClient(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout,
		}, logger)
		llmParser, normalizer = llm, llm
		logger.Info("LLM collaborator enabled", zap.String("model", cfg.Gemini.Model))
	}

	// Initialize usecase layer
	nutritionService := usecase.NewNutritionService(
		datasets,
		usecase.NewAliasResolver(aliases, cfg.Matching.AliasThreshold, logger),
		api,
		cacheRepo,
		usecase.NutritionServiceConfig{
			DatasetThreshold: cfg.Matching.DatasetThreshold,
			SuggestionCutoff: cfg.Matching.SuggestionCutoff,
			SuggestionLimit:  cfg.Matching.SuggestionLimit,
			APITimeout:       cfg.USDA.Timeout,
			CacheTTL:         cfg.Cache.TTL,
		},
		logger,
	)
	mealService := usecase.NewMealService(nutritionService, llmParser, normalizer, logger)

	handler := httpDelivery.NewHandler(mealService, nutritionService, datasets, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig == syscall.SIGHUP {
			ds := datasets.Reload()
			table := aliases.Reload()
			logger.Info("caches reloaded", zap.Int("foods", ds.Len()), zap.Int("aliases", table.Len()))
			continue
		}
		break
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// newCache builds the configured cache for external lookups. The returned
// close function is always safe to call.
func newCache(cfg *config.Config, logger *zap.Logger) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL, "torimo:")
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("using redis cache", zap.Duration("ttl", cfg.Cache.TTL))
		return redisCache, func() { _ = redisCache.Close() }, nil
	case "none":
		return nil, func() {}, nil
	default:
		memoryCache := cache.NewMemoryCache()
		logger.Info("using memory cache", zap.Duration("ttl", cfg.Cache.TTL))
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}
