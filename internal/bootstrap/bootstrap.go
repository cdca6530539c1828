// Package bootstrap builds the object graph shared by the API server and billctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/config"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/infrastructure/database"
	"github.com/sangkips/billbook-api/internal/infrastructure/kv"
	"github.com/sangkips/billbook-api/internal/infrastructure/repository"
	"github.com/sangkips/billbook-api/internal/infrastructure/sink"
	"github.com/sangkips/billbook-api/pkg/email"
	"github.com/sangkips/billbook-api/pkg/metrics"
	"github.com/sangkips/billbook-api/pkg/printer"
	"github.com/sangkips/billbook-api/pkg/upi"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const qrSize = 256

// Options tweak what New does beyond wiring.
type Options struct {
	// Migrate runs AutoMigrate after connecting.
	Migrate bool
	// Registerer receives the metrics. Nil uses the default registerer.
	Registerer prometheus.Registerer
	// Now overrides the invoice clock.
	Now func() time.Time
}

// App is the wired application.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	KV      kv.Store
	Metrics *metrics.Metrics
	JWT     *utils.JWTManager

	IdempotencyRepo domainRepo.IdempotencyRepository

	Invoices  *service.InvoiceService
	Customers *service.CustomerService
	Products  *service.ProductService
	Settings  *service.SettingsService
	Reports   *service.ReportService
	Auth      *service.AuthService
	Printer   *service.PrinterService
	Mail      *service.MailService

	device printer.Printer
}

// New connects storage and builds every service.
func New(cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Database.Timezone, err)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if opts.Migrate {
		if err := database.AutoMigrate(db, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	store, err := kv.Open(&cfg.KV, log)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	var m *metrics.Metrics
	if opts.Registerer == nil {
		m = metrics.Default()
	} else {
		m = metrics.New(opts.Registerer)
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewInvoiceSequenceRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	settingsRepo := repository.NewSettingsRepository(store)
	catalog := repository.NewCatalogStore(customerRepo, productRepo)

	settingsService := service.NewSettingsService(settingsRepo, cfg.Storage.UploadMaxSize, log)

	// Thermal printer
	device, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn("printer unavailable, using null printer", zap.Error(err))
		device = printer.NewNullPrinter()
	}
	printerSink := sink.NewPrinterSink(device, cfg.Printer.CharWidth, log)
	documents := sink.NewMultiSink(sink.NewFileSink(cfg.Storage.Path), printerSink)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authService, err := service.NewAuthService(cfg.Reports.PasswordHash, cfg.Reports.Password, jwtManager, log)
	if err != nil {
		return nil, err
	}

	invoiceService := service.NewInvoiceService(
		invoiceRepo,
		sequenceRepo,
		catalog,
		settingsService,
		documents,
		upi.NewQREncoder(qrSize),
		m,
		log,
		service.InvoiceOptions{
			Numbering:      cfg.Billing.Numbering,
			BrandingPolicy: cfg.Billing.BrandingPolicy,
			CurrencySymbol: cfg.Billing.CurrencySymbol,
			CurrencyCode:   cfg.Billing.CurrencyCode,
			Location:       location,
			Now:            opts.Now,
		},
	)
	mailer := email.NewMailer(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	app := &App{
		Config:          cfg,
		Log:             log,
		DB:              db,
		KV:              store,
		Metrics:         m,
		JWT:             jwtManager,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Invoices:        invoiceService,
		Customers:       service.NewCustomerService(customerRepo),
		Products:        service.NewProductService(productRepo),
		Settings:        settingsService,
		Reports:         service.NewReportService(invoiceRepo, analyticsRepo, customerRepo, productRepo, settingsRepo),
		Auth:            authService,
		Printer:         service.NewPrinterService(printerSink, settingsService, cfg.Printer.Type, log),
		Mail:            service.NewMailService(invoiceService, mailer, log),
		device:          device,
	}
	return app, nil
}

// Seed loads the demo catalog.
func (a *App) Seed() error {
	return database.SeedDemoCatalog(a.DB, a.Log)
}

// PurgeIdempotencyKeys removes replay records past their expiry.
func (a *App) PurgeIdempotencyKeys(ctx context.Context) (int64, error) {
	return a.IdempotencyRepo.DeleteExpired(ctx, time.Now())
}

// Close releases the printer, the settings store and the database.
func (a *App) Close() error {
	var errs []error
	if a.device != nil {
		errs = append(errs, a.device.Close())
	}
	if a.KV != nil {
		errs = append(errs, a.KV.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
