package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/retail-inventory/internal/application/alerts"
	"github.com/jhoicas/retail-inventory/internal/application/analytics"
	"github.com/jhoicas/retail-inventory/internal/application/auth"
	"github.com/jhoicas/retail-inventory/internal/application/billing"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/purchasing"
	"github.com/jhoicas/retail-inventory/internal/application/sales"
	"github.com/jhoicas/retail-inventory/internal/application/usecase"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// MetricsExporter latencia por ruta y endpoint /metrics.
type MetricsExporter interface {
	HTTPRecorder
	Handler() nethttp.Handler
}

// ServerConfig opciones del servidor Fiber.
type ServerConfig struct {
	AppName     string
	Production  bool
	SwaggerFile string // vacío = sin /docs
	Log         *logger.Logger
	Metrics     MetricsExporter // nil = sin /metrics
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	LocationUC    *usecase.LocationUseCase
	SupplierUC    *usecase.SupplierUseCase
	Ledger        *inventory.StockLedger
	History       *inventory.HistoryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Alerts        *alerts.Dispatcher
	Sales         *sales.RecordSaleUseCase
	Invoices      *billing.InvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	Reports       *analytics.ReportUseCase
	Purchases     *purchasing.PurchaseOrderUseCase
	JWTSecret     string
}

// NewServer crea la app Fiber con middlewares globales, /health, /metrics, /docs y las rutas de la API.
func NewServer(cfg ServerConfig, deps RouterDeps) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log, cfg.Production),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	if cfg.Metrics != nil {
		app.Use(Metrics(cfg.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Retail Inventory API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canRead := RequirePermission(entity.PermInventoryRead)
	canWrite := RequirePermission(entity.PermInventoryWrite)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.History, deps.Replenishment, deps.Alerts, deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", canRead, productHandler.List)
	products.Post("/", canWrite, productHandler.Create)
	products.Get("/:id", canRead, productHandler.GetByID)
	products.Put("/:id", canWrite, productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Get("/:id/history", canRead, inventoryHandler.History)
	products.Get("/:id/conservation", canRead, inventoryHandler.Conservation)

	// Barcodes: /generate antes de /:code
	barcodes := protected.Group("/barcodes")
	barcodes.Get("/generate", canWrite, productHandler.GenerateBarcode)
	barcodes.Get("/:code", canRead, productHandler.GetByBarcode)

	// Inventory
	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjust", canWrite, inventoryHandler.Adjust)
	invGroup.Get("/replenishment", canRead, inventoryHandler.Replenishment)
	protected.Get("/alerts", canRead, inventoryHandler.Alerts)

	// Locations y suppliers
	locationHandler := NewLocationHandler(deps.LocationUC, deps.SupplierUC)
	protected.Get("/locations", canRead, locationHandler.ListLocations)
	protected.Post("/locations", canWrite, locationHandler.CreateLocation)
	protected.Get("/suppliers", canRead, locationHandler.ListSuppliers)
	protected.Post("/suppliers", canWrite, locationHandler.CreateSupplier)

	// Sales
	salesGroup := protected.Group("/sales", RequirePermission(entity.PermSalesWrite))
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Invoices: /preview antes de /:id
	invoices := protected.Group("/invoices", RequirePermission(entity.PermInvoicesWrite))
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Reports
	reports := protected.Group("/reports", RequirePermission(entity.PermReportsRead))
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/financial", reportHandler.Financial)

	// Purchase orders: /generate antes de /:id
	canPurchase := RequirePermission(entity.PermPurchasingWrite)
	poHandler := NewPurchaseOrderHandler(deps.Purchases)
	orders := protected.Group("/purchase-orders")
	orders.Get("/", canRead, poHandler.List)
	orders.Post("/", canPurchase, poHandler.Create)
	orders.Post("/generate", canPurchase, poHandler.Generate)
	orders.Get("/:id", canRead, poHandler.GetByID)
	orders.Post("/:id/receive", canPurchase, poHandler.Receive)
	orders.Post("/:id/cancel", canPurchase, poHandler.Cancel)
}
