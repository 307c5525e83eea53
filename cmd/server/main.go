package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"investogun/internal/application"
	"investogun/internal/application/form"
	appmetrics "investogun/internal/application/metrics"
	"investogun/internal/application/service"
	"investogun/internal/application/store"
	"investogun/internal/application/view"
	"investogun/internal/attachments"
	"investogun/internal/audit"
	"investogun/internal/blob"
	"investogun/internal/platform/config"
	"investogun/internal/platform/httpserver"
	"investogun/internal/platform/logger"
	"investogun/internal/platform/metrics"
	redisClient "investogun/internal/platform/redis"
	"investogun/internal/reference"
	"investogun/internal/session"
	"investogun/internal/webhook"
	"investogun/pkg/platform/httputil"
	"investogun/pkg/platform/middleware/metadata"
	"investogun/pkg/platform/middleware/requestid"
	"investogun/pkg/platform/middleware/requesttime"
)

const (
	auditBuffer      = 256
	sweepInterval    = 5 * time.Minute
	shutdownTimeout  = 10 * time.Second
	kafkaPartitions  = 3
	kafkaReplication = 1
)

// main wires dependencies and runs the HTTP server until a signal arrives.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ref, err := reference.Load(cfg.ReferenceFile)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	drafts, redis, err := buildDraftStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redis != nil {
		defer redis.Close()
	}

	sinks, closeSinks, err := buildAuditSinks(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeSinks()
	publisher := audit.NewPublisher(auditBuffer, log)
	worker := audit.NewWorker(publisher.Inbox(), log, sinks...)

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open attachment store: %w", err)
	}
	log.Info("attachment store ready", "driver", blobs.Driver())

	httpCfg := webhook.DefaultConfig()
	httpCfg.Timeout = cfg.Webhook.Timeout
	submitter := webhook.New(cfg.Webhook.URL, webhook.WithHTTPClient(webhook.NewHTTPClient(httpCfg)))

	svc := application.NewService(drafts, form.NewEditor(ref), submitter,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(appmetrics.New(prometheus.DefaultRegisterer)),
		service.WithAttachments(attachments.New(blobs, log)),
	)

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	sessions := session.NewManager(cfg.SessionKey, cfg.DraftTTL, cfg.CookieSecure)
	handler := application.NewHandler(svc, sessions, renderer, log, cfg.MaxUploadBytes)

	router := newRouter(handler, redis)
	srv := httpserver.New(cfg, router)

	// The audit worker outlives the HTTP server so events from requests
	// finishing during shutdown are still delivered.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if mem, ok := drafts.(*store.InMemory); ok {
		g.Go(func() error {
			sweepDrafts(gctx, mem, log)
			return nil
		})
	}
	g.Go(func() error {
		log.Info("starting kyc intake server",
			"addr", cfg.Addr,
			"webhook", submitter.URL(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer stopWorker()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newRouter(handler *application.Handler, redis *redisClient.Client) chi.Router {
	httpMetrics := metrics.New(prometheus.DefaultRegisterer)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(httpMetrics.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if redis != nil {
			if err := redis.Health(r.Context()); err != nil {
				status = map[string]string{"status": "degraded", "redis": err.Error()}
				code = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, code, status)
	})

	handler.Register(r)
	return r
}

// buildDraftStore returns Redis-backed drafts when REDIS_URL is set and the
// in-memory store otherwise.
func buildDraftStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.DraftStore, *redisClient.Client, error) {
	client, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		log.Info("using in-memory draft store", "ttl", cfg.DraftTTL)
		return store.NewInMemory(cfg.DraftTTL), nil, nil
	}
	if err := client.RegisterPoolMetrics(prometheus.DefaultRegisterer); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("using redis draft store", "ttl", cfg.DraftTTL)
	return store.NewRedis(client.Client, cfg.DraftTTL), client, nil
}

// buildAuditSinks always logs events and additionally persists them to
// Postgres and Kafka when those are configured.
func buildAuditSinks(ctx context.Context, cfg config.AuditConfig, log *slog.Logger) ([]audit.Sink, func(), error) {
	sinks := []audit.Sink{audit.NewLogSink(log)}
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.PostgresDSN != "" {
		db, err := audit.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open audit database: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		pg := audit.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("prepare audit schema: %w", err)
		}
		sinks = append(sinks, pg)
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("create kafka sink: %w", err)
		}
		closers = append(closers, kafka.Close)
		if err := kafka.EnsureTopic(ctx, kafkaPartitions, kafkaReplication); err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("ensure kafka topic: %w", err)
		}
		sinks = append(sinks, kafka)
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	log.Info("audit sinks ready", "sinks", names)
	return sinks, closeAll, nil
}

func sweepDrafts(ctx context.Context, drafts *store.InMemory, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := drafts.Sweep(ctx); n > 0 {
				log.Debug("swept expired drafts", "count", n)
			}
		}
	}
}
