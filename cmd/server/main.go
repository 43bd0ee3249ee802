package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"simonev/internal/audit"
	auditmem "simonev/internal/audit/store/memory"
	auditpg "simonev/internal/audit/store/postgres"
	"simonev/internal/identity"
	"simonev/internal/jwttoken"
	"simonev/internal/kegiatan"
	kegiatanmem "simonev/internal/kegiatan/store/memory"
	kegiatanpg "simonev/internal/kegiatan/store/postgres"
	"simonev/internal/platform/config"
	"simonev/internal/platform/httpserver"
	"simonev/internal/platform/logger"
	"simonev/internal/platform/metrics"
	platformredis "simonev/internal/platform/redis"
	"simonev/internal/progress"
	progresscache "simonev/internal/progress/cache"
	progressmem "simonev/internal/progress/store/memory"
	progresspg "simonev/internal/progress/store/postgres"
	httptransport "simonev/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		auditStore    audit.Store
		progressStore progress.Store
		kegiatanStore kegiatan.Store
		healthCheck   func() error
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		aStore := auditpg.New(db)
		pStore := progresspg.New(db)
		kStore := kegiatanpg.New(db)
		for _, ensure := range []func(context.Context) error{
			aStore.EnsureSchema, pStore.EnsureSchema, kStore.EnsureSchema,
		} {
			if err := ensure(ctx); err != nil {
				log.Error("schema migration failed", "error", err)
				os.Exit(1)
			}
		}
		auditStore, progressStore, kegiatanStore = aStore, pStore, kStore
		healthCheck = db.Ping
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		auditStore = auditmem.NewInMemoryStore()
		progressStore = progressmem.NewInMemoryStore()
		kegiatanStore = kegiatanmem.NewInMemoryStore()
	}

	notifier := audit.NewNotifier(auditStore, log, 64)
	go notifier.Run(ctx)

	recorder, err := audit.NewRecorder(auditStore,
		audit.WithLogger(log),
		audit.WithMetrics(m),
		audit.WithAlerts(notifier.Inbox()),
	)
	if err != nil {
		log.Error("audit recorder init failed", "error", err)
		os.Exit(1)
	}

	progressOpts := []progress.Option{
		progress.WithRecorder(recorder),
		progress.WithLogger(log),
		progress.WithMetrics(m),
	}
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		progressOpts = append(progressOpts,
			progress.WithCache(progresscache.New(redisClient, cfg.ProgressCacheTTL)))
	}

	progressSvc, err := progress.New(progressStore, progressOpts...)
	if err != nil {
		log.Error("progress service init failed", "error", err)
		os.Exit(1)
	}

	kegiatanSvc, err := kegiatan.New(kegiatanStore,
		kegiatan.WithPipeline(progressSvc),
		kegiatan.WithRecorder(recorder),
		kegiatan.WithLogger(log),
		kegiatan.WithMetrics(m),
	)
	if err != nil {
		log.Error("kegiatan service init failed", "error", err)
		os.Exit(1)
	}

	userStore := identity.NewInMemoryStore()
	if _, err := identity.SeedBootstrapAdmin(ctx, userStore, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
	identitySvc, err := identity.New(userStore, identity.WithLogger(log))
	if err != nil {
		log.Error("identity service init failed", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		JWT:      jwtService,
		Recorder: recorder,
		Identity: identitySvc,
		Tokens:   jwtService,
		TokenTTL: cfg.TokenTTL,
		Kegiatan: kegiatanSvc,
		Progress: progressSvc,
		Audit:    auditStore,
		Health:   healthCheck,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting simonev", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("simonev stopped")
}
