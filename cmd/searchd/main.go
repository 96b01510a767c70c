package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/analytics"
	aggstore "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/analytics/aggregator"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/analytics/collector"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/booleval"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/vector"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, pgClient, err := loadCorpus(ctx, cfg)
	if err != nil {
		slog.Error("failed to load corpus", "error", err)
		os.Exit(1)
	}
	if pgClient != nil {
		defer pgClient.Close()
	}
	if len(docs) == 0 {
		slog.Error("corpus is empty, nothing to index", "source", cfg.Corpus.Source)
		os.Exit(1)
	}

	m := metrics.New()
	buildStart := time.Now()
	engine := indexer.NewEngine(tokenizer.NewDefault())
	engine.Build(docs)
	pt := permuterm.Build(engine.Snapshot())
	vm := vector.NewModel(tokenizer.New(tokenizer.RankedStopWords), docs)
	buildSeconds := time.Since(buildStart).Seconds()
	m.IndexDocuments.Set(float64(engine.TotalDocs()))
	m.IndexTerms.Set(float64(engine.Terms()))
	m.IndexBuildSeconds.Set(buildSeconds)
	slog.Info("index ready",
		"documents", engine.TotalDocs(),
		"terms", engine.Terms(),
		"permuterm_terms", pt.Terms(),
		"build_seconds", buildSeconds,
	)

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	var tracker analytics.Tracker = analytics.Noop{}
	var statsHandler http.HandlerFunc
	var snapshotStore *aggstore.Store
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.QueryEvents)
		defer producer.Close()
		if cfg.Kafka.BatchSize > 1 {
			bc := collector.NewBatchCollector(producer, cfg.Kafka.BatchSize, cfg.Kafka.FlushInterval)
			bc.Start(ctx)
			defer bc.Close()
			tracker = bc
		} else {
			c := analytics.NewCollector(producer, 10000)
			c.Start(ctx)
			defer c.Close()
			tracker = c
		}

		// The consumer needs the aggregator's handler and the aggregator
		// owns the consumer, so bind the handler through a late-assigned
		// variable.
		var aggregator *analytics.Aggregator
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.QueryEvents,
			func(ctx context.Context, key, value []byte) error {
				return analytics.HandleEvent(aggregator)(ctx, key, value)
			})
		aggregator = analytics.NewAggregator(consumer)
		statsHandler = aggregator.StatsHandler()
		go func() {
			if err := aggregator.Start(ctx); err != nil {
				slog.Error("analytics aggregator error", "error", err)
			}
		}()
		slog.Info("analytics pipeline started", "topic", cfg.Kafka.QueryEvents)

		if pgClient != nil && cfg.Kafka.SnapshotInterval > 0 {
			snapshotStore, err = aggstore.NewStore(ctx, pgClient)
			if err != nil {
				slog.Warn("analytics snapshots disabled", "error", err)
			} else {
				snapshotStore.StartPeriodicSave(ctx, aggregator, cfg.Kafka.SnapshotInterval)
			}
		}

		tracker.Track(analytics.BuildEvent{
			Type:         analytics.EventIndexBuild,
			Documents:    engine.TotalDocs(),
			Terms:        engine.Terms(),
			BuildSeconds: buildSeconds,
			Timestamp:    time.Now().UTC(),
		})
	}

	checker := health.NewChecker()
	checker.Register("index_engine", func(ctx context.Context) health.ComponentHealth {
		if engine.TotalDocs() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d documents, %d terms", engine.TotalDocs(), engine.Terms()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "empty index"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if pgClient != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.DB.PingContext(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	exec := executor.New(engine, parser.New(tokenizer.NewDefault()), booleval.New(engine, pt), pt, vm)
	h := handler.New(exec, engine, queryCache, tracker, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/terms", h.Terms)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	if statsHandler != nil {
		mux.HandleFunc("GET /api/v1/analytics", statsHandler)
	}
	if snapshotStore != nil {
		mux.HandleFunc("GET /api/v1/analytics/history", snapshotStore.HistoryHandler())
	}
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

// loadCorpus reads documents from the configured source. The postgres
// client is returned so the caller can reuse it for health checks.
func loadCorpus(ctx context.Context, cfg *config.Config) (corpus.Corpus, *postgres.Client, error) {
	switch cfg.Corpus.Source {
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		var docs corpus.Corpus
		err = resilience.Retry(ctx, "corpus-load", resilience.RetryConfig{MaxAttempts: 5}, func() error {
			store, err := corpus.NewStore(ctx, client)
			if err != nil {
				return err
			}
			docs, err = store.LoadAll(ctx)
			return err
		})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return docs, client, nil
	case "dir", "":
		docs, err := corpus.LoadDir(cfg.Corpus.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("loading corpus dir %s: %w", cfg.Corpus.Dir, err)
		}
		return docs, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}
