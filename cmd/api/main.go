package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/bootstrap"
	"github.com/sangkips/billbook-api/internal/config"
	"github.com/sangkips/billbook-api/internal/presentation/http/handler"
	"github.com/sangkips/billbook-api/internal/presentation/http/routes"
	"github.com/sangkips/billbook-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 10 * time.Second
	idempotencySweeper = time.Hour
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := bootstrap.New(cfg, log, bootstrap.Options{Migrate: true})
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("shutdown cleanup failed", zap.Error(err))
		}
	}()

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(app.Auth),
		Invoice:  handler.NewInvoiceHandler(app.Invoices, app.Mail),
		Customer: handler.NewCustomerHandler(app.Customers),
		Product:  handler.NewProductHandler(app.Products),
		Settings: handler.NewSettingsHandler(app.Settings),
		Report:   handler.NewReportHandler(app.Reports),
		Printer:  handler.NewPrinterHandler(app.Printer),
	}

	router, limiter := routes.Setup(handlers, &routes.Deps{
		JWTManager:      app.JWT,
		Cfg:             cfg,
		IdempotencyRepo: app.IdempotencyRepo,
		Logger:          log,
		Metrics:         app.Metrics,
	})
	defer limiter.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, app, log)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sweepIdempotencyKeys(ctx context.Context, app *bootstrap.App, log *zap.Logger) {
	ticker := time.NewTicker(idempotencySweeper)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.PurgeIdempotencyKeys(ctx)
			if err != nil {
				log.Warn("idempotency sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("idempotency keys purged", zap.Int64("count", n))
			}
		}
	}
}
