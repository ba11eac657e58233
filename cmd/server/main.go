package main

import (
	"context"
	"os"
	"path/filepath"

	catalogstatic "tilefarm/internal/adapter/catalog/static"
	httpadapter "tilefarm/internal/adapter/http"
	"tilefarm/internal/adapter/metrics/fanout"
	metricsinmem "tilefarm/internal/adapter/metrics/inmemory"
	metricsprom "tilefarm/internal/adapter/metrics/prom"
	"tilefarm/internal/adapter/repo"
	"tilefarm/internal/app/action"
	"tilefarm/internal/app/catalog"
	"tilefarm/internal/app/replay"
	"tilefarm/internal/app/session"
	"tilefarm/internal/app/status"
	"tilefarm/internal/config"
	"tilefarm/internal/logger"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("build logger")
	}

	ctx := context.Background()

	stores, err := repo.Open(ctx, storeOptions(cfg))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open storage")
	}
	defer stores.Close()

	catalogProvider := catalogProviderFor(cfg.CatalogPath)
	crops, err := catalogProvider.Catalog(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("load crop catalog")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kpiRecorder := metricsinmem.NewRecorder()
	metrics := fanout.Recorder{kpiRecorder, metricsprom.NewRecorder(promRegistry)}

	opener := session.Opener{
		Repo:       stores.Saves,
		Events:     stores.Events,
		Catalog:    crops,
		Metrics:    metrics,
		Logger:     log,
		TickPeriod: cfg.TickPeriod,
	}
	registry, err := session.NewRegistry(cfg.SessionCacheSize, func(ctx context.Context, userKey string) (*session.Session, error) {
		return opener.Open(ctx, userKey, nil)
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build session registry")
	}
	defer registry.Close()

	h := httpadapter.Handler{
		ActionUC:  action.UseCase{Sessions: registry},
		StatusUC:  status.UseCase{Sessions: registry},
		ReplayUC:  replay.UseCase{Events: stores.Events},
		CatalogUC: catalog.UseCase{Provider: catalogProvider},
		KPI:       kpiRecorder,
		Metrics:   promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("driver", cfg.DBDriver).
		Int("crops", len(crops)).
		Msg("tilefarm server listening")
	// Spin returns after a graceful shutdown on SIGINT/SIGTERM; the deferred
	// registry close then flushes every open farm.
	s.Spin()
}

func storeOptions(cfg *config.Config) repo.Options {
	return repo.Options{
		Driver:        cfg.DBDriver,
		DSN:           cfg.DBDSN,
		SQLitePath:    cfg.SQLitePath,
		MigrationsDir: cfg.MigrationsDir,
	}
}

// catalogProviderFor splits a configured catalog path into the provider's
// root directory and file name.
func catalogProviderFor(path string) catalogstatic.Provider {
	return catalogstatic.Provider{Root: filepath.Dir(path), File: filepath.Base(path)}
}
