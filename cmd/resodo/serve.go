package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"resodo-gateway/middleware/ratelimit"
	rldomain "resodo-gateway/middleware/ratelimit/domain"
	rlinfra "resodo-gateway/middleware/ratelimit/infra"
	"resodo-gateway/resolution"
	"resodo-gateway/resolution/application"
	"resodo-gateway/resolution/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func serveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig(g.configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, newLogger(g.logLevel, g.logFormat))
		},
	}
}

func serve(parent context.Context, cfg config, logger *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	policy := rldomain.Policy{Limit: cfg.rateLimit, Window: cfg.rateWindow}

	var rdb *redis.Client
	if cfg.rateRedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.rateRedisAddr,
			Password: cfg.rateRedisPassword,
			DB:       cfg.rateRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			return err
		}
	}

	var store rldomain.LimiterStore
	if rdb != nil {
		store = rlinfra.NewRedisWindowStore(rdb, policy, rlinfra.WithWindowLogger(logger))
	} else {
		mem := rlinfra.NewWindowStore(policy)
		mem.StartJanitor(ctx)
		store = mem
	}

	memStats := rlinfra.NewMemoryStatsStore(rlinfra.WithTrackKeys(cfg.rateStatsTrackKeys))
	promStats, err := rlinfra.NewPrometheusStatsStore(reg)
	if err != nil {
		return err
	}
	stats := rldomain.MultiStats{memStats, promStats}
	if cfg.rateStatsEnabled {
		stats = append(stats, rlinfra.NewRedisStatsStore(
			rdb,
			rlinfra.WithStatsPrefix(cfg.rateStatsPrefix),
			rlinfra.WithStatsTTL(cfg.rateStatsTTL),
			rlinfra.WithStatsBucket(cfg.rateStatsBucket),
			rlinfra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		))
	}

	metrics, err := infra.NewPipelineMetrics(reg)
	if err != nil {
		return err
	}
	composer := infra.NewPDFComposer(cfg.pipeline.OutputDir, cfg.pipeline.Sanitize.Sanitizer())
	composer.Logger = logger
	svc := &application.Service{
		Crawler:      infra.NewContactCrawler(cfg.pipeline.Crawl, logger),
		Completer:    infra.NewOpenAICompleter(cfg.pipeline.LLM),
		Composer:     composer,
		ContextChars: cfg.pipeline.ContextChars,
		Metrics:      metrics,
		Logger:       logger,
	}

	opts := resolution.RouterOptions{
		ContactInfo: resolution.NewHandler(svc, logger),
		Concurrency: ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.concurrencyTimeout,
		}),
		Stats:   resolution.StatsHandler(memStats.Snapshot),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  logger,
	}
	if cfg.rateEnabled {
		opts.RateLimit = ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Stats:               stats,
			Policy:              policy,
			KeyHeader:           cfg.rateKeyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
			OnReject:            resolution.RejectRateLimited,
		})
	}

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           resolution.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.writeTimeout,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("resodo listening", "addr", cfg.listenAddr, "version", Version)
	logger.Info("rate", "enabled", cfg.rateEnabled, "limit", cfg.rateLimit, "window", cfg.rateWindow,
		"key_header", cfg.rateKeyHeader, "trust_xff", cfg.trustXFF, "redis", cfg.rateRedisAddr != "")
	logger.Info("rate-stats", "redis", cfg.rateStatsEnabled, "bucket", cfg.rateStatsBucket,
		"ttl", cfg.rateStatsTTL, "track_keys", cfg.rateStatsTrackKeys)
	logger.Info("concurrency", "max", cfg.concurrencyMax, "acquire_timeout", cfg.concurrencyTimeout)
	logger.Info("pipeline", "llm_base_url", cfg.pipeline.LLM.BaseURL, "model", cfg.pipeline.LLM.Model,
		"llm_key_set", cfg.pipeline.LLM.APIKey != "", "context_chars", cfg.pipeline.ContextChars,
		"output_dir", cfg.pipeline.OutputDir, "crawl_max_pages", cfg.pipeline.Crawl.MaxPages)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
