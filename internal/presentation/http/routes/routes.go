package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/config"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/handler"
	"github.com/sangkips/billbook-api/internal/presentation/http/middleware"
	"github.com/sangkips/billbook-api/pkg/metrics"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Invoice  *handler.InvoiceHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Settings *handler.SettingsHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Setup creates the Gin router and registers all routes. The returned
// limiter's cleanup loop runs until Stop is called.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, *middleware.ClientRateLimiter) {
	router := gin.New()
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(deps.Metrics.GinMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFor(
		deps.Cfg.RateLimit.Requests,
		time.Duration(deps.Cfg.RateLimit.Duration)*time.Second,
	))

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		v1.POST("/auth/login", h.Auth.Login)

		registerInvoiceRoutes(v1, h, deps, log)
		registerCustomerRoutes(v1, h)
		registerProductRoutes(v1, h)
		registerSettingsRoutes(v1, h)
		registerPrinterRoutes(v1, h)

		// Reports sit behind the reports password
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthMiddleware(deps.JWTManager), middleware.RequireScope(service.ScopeReports))
		registerReportRoutes(reports, h)
	}

	return router, rateLimiter
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps, log *zap.Logger) {
	invoices := v1.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  log,
		}), h.Invoice.Create)
		invoices.GET("/next-number", h.Invoice.NextNumber)
		invoices.GET("/number/:number", h.Invoice.GetByNumber)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/document", h.Invoice.Document)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/print", h.Invoice.Print)
		invoices.POST("/:id/email", h.Invoice.Email)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	settings := v1.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("/store", h.Settings.UpdateStore)
		settings.PUT("/printer", h.Settings.UpdatePrinter)
		settings.PUT("/upi", h.Settings.UpdateUPI)
		settings.DELETE("/:key", h.Settings.Reset)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerReportRoutes(reports *gin.RouterGroup, h *Handlers) {
	reports.GET("/sales", h.Report.Sales)
	reports.GET("/storage", h.Report.Storage)
	reports.GET("/export", h.Report.Export)
}
