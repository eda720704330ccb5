package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/audit"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/catalog"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/config"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/events"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/httpapi"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/identity"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/reporting"
	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/logger"
	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis only backs the login throttle. Absent config disables the
	// throttle; present-but-broken config is a startup error.
	var throttle *httpapi.LoginThrottle
	if cfg.Redis.Enabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		throttle = httpapi.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	}

	paymentsRepo := payments.NewPostgresRepo(db)

	h := httpapi.Handlers{
		Identity: identity.NewService(identity.NewPostgresStore(db), identity.BcryptVerifier{}, authManager),
		Events:   events.NewService(events.NewPostgresRepo(db)),
		Payments: payments.NewService(paymentsRepo),
		Catalog:  catalog.NewService(catalog.NewPostgresRepo(db)),
		Reports:  reporting.NewService(reporting.NewPaymentsRepo(paymentsRepo)),
		Audit:    audit.NewService(audit.NewPostgresRepo(db)),
		Throttle: throttle,
		Debug:    cfg.IsDebug(),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, authManager, db)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
