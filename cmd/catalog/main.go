package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"CourseBrowser/internal/catalog"
	"CourseBrowser/internal/config"
	"CourseBrowser/internal/fuzzy"
	"CourseBrowser/pkg/kit"
)

const (
	service     = "catalog"
	openTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("CATALOG_CONFIG"))
	if err != nil {
		panic(err)
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Cache)
	if err != nil {
		log.Fatal("open cache store failed", zap.Error(err), zap.String("backend", cfg.Cache.Backend))
	}
	defer func() { _ = store.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := catalog.NewMetrics(reg)

	cache := catalog.NewCache(store, cfg.Cache.Key)
	searcher := &fuzzy.Searcher{Scorer: fuzzy.NewLevenshtein(), Threshold: cfg.Catalog.FuzzyThreshold}

	ctrl := catalog.NewController(cache,
		catalog.WithRand(catalog.NewRand(cfg.Catalog.Seed)),
		catalog.WithSearcher(searcher),
		catalog.WithLogger(log),
		catalog.WithMetrics(metrics),
	)
	if err := ctrl.Init(ctx); err != nil {
		log.Fatal("catalog init failed", zap.Error(err))
	}

	s := &catalog.Server{
		Catalog:     ctrl,
		Views:       catalog.NewViews(ctrl, cfg.Views.Max, cfg.Views.IdleTTL),
		Store:       store,
		Log:         log,
		ViewLimiter: kit.NewIPRateLimiter(cfg.Views.CreatePerMinute, time.Minute),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		RequestTimeout: cfg.Server.RequestTimeout,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(ctx, ":"+strconv.Itoa(cfg.Server.Port), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.CacheConfig) (catalog.KVStore, error) {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	switch cfg.Backend {
	case "memory":
		return catalog.NewMemStore(), nil
	case "file":
		return catalog.NewFileStore(cfg.Dir)
	case "redis":
		return catalog.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "postgres":
		return catalog.OpenPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
