package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/alerts"
	"github.com/jhoicas/retail-inventory/internal/application/analytics"
	"github.com/jhoicas/retail-inventory/internal/application/auth"
	"github.com/jhoicas/retail-inventory/internal/application/billing"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/application/purchasing"
	"github.com/jhoicas/retail-inventory/internal/application/sales"
	"github.com/jhoicas/retail-inventory/internal/application/usecase"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
	inframetrics "github.com/jhoicas/retail-inventory/internal/infrastructure/metrics"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/notification"
	infrapdf "github.com/jhoicas/retail-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/retail-inventory/internal/interfaces/http"
	"github.com/jhoicas/retail-inventory/pkg/barcode"
	"github.com/jhoicas/retail-inventory/pkg/config"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	standardRate, err := decimal.NewFromString(cfg.Tax.StandardRate)
	if err != nil {
		log.Fatal().Err(err).Msg("TAX_STANDARD_RATE inválido")
	}
	taxTable := tax.NewTable(standardRate)

	metrics := inframetrics.New("retail")

	// Idempotencia de ventas: Redis si está configurado; si no, sin deduplicación.
	var idem ports.IdempotencyStore = ports.NopIdempotency{}
	if cfg.Redis.Enabled() {
		client, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		idem = redisstore.NewIdempotencyStore(client)
	}

	// Notificaciones: SMTP detrás de un circuit breaker, o log si no hay servidor.
	var notifier ports.Notifier = notification.NewLogNotifier(log)
	if smtp := cfg.Alerts.SMTP; smtp.Host != "" {
		notifier = notification.NewBreakerNotifier(
			notification.NewSMTPNotifier(notification.SMTPConfig{
				Host:     smtp.Host,
				Port:     smtp.Port,
				User:     smtp.User,
				Password: smtp.Password,
				From:     smtp.From,
			}),
			notification.DefaultBreakerConfig("smtp"),
			log,
		)
	}

	txRunner := postgres.NewTxRunner(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	transactionRepo := postgres.NewInventoryTransactionRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	purchaseRepo := postgres.NewPurchaseOrderRepository(pool)

	dispatcher := alerts.NewDispatcher(txRunner, productRepo, alertRepo, notifier, metrics, log, alerts.Config{
		Cooldown:  cfg.Alerts.Cooldown,
		Recipient: cfg.Alerts.Recipient,
	})
	ledger := inventory.NewStockLedger(txRunner, dispatcher, metrics, log)
	refs := inventory.NewReferenceValidator(locationRepo, supplierRepo)

	productUC := usecase.NewProductUseCase(productRepo, txRunner, refs, barcode.NewGenerator(uint64(time.Now().UnixNano())), taxTable, log)
	invoiceUC := billing.NewInvoiceUseCase(saleRepo, productRepo, invoiceRepo, taxTable, metrics, log)
	pdfUC := billing.NewPDFUseCase(invoiceUC, infrapdf.NewMarotoInvoiceRenderer(cfg.Invoice.PDFDir, cfg.App.Name))
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, reportRepo)
	purchaseUC := purchasing.NewPurchaseOrderUseCase(purchasing.Deps{
		Tx:            txRunner,
		Orders:        purchaseRepo,
		Products:      productRepo,
		Suppliers:     supplierRepo,
		Locations:     locationRepo,
		Ledger:        ledger,
		Replenishment: replenishmentUC,
		Notifier:      notifier,
		Metrics:       metrics,
		Log:           log,
	})
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewServer(httpRouter.ServerConfig{
		AppName:     cfg.App.Name,
		Production:  cfg.App.IsProduction(),
		SwaggerFile: "./docs/swagger.json",
		Log:         log,
		Metrics:     metrics,
	}, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		LocationUC:    usecase.NewLocationUseCase(locationRepo),
		SupplierUC:    usecase.NewSupplierUseCase(supplierRepo),
		Ledger:        ledger,
		History:       inventory.NewHistoryUseCase(productRepo, transactionRepo),
		Replenishment: replenishmentUC,
		Alerts:        dispatcher,
		Sales:         sales.NewRecordSaleUseCase(txRunner, ledger, saleRepo, idem, metrics, log),
		Invoices:      invoiceUC,
		InvoicePDF:    pdfUC,
		Reports:       analytics.NewReportUseCase(reportRepo),
		Purchases:     purchaseUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	// Barrido periódico: recupera alertas que un fallo post-commit no alcanzó a registrar.
	go dispatcher.Run(ctx, cfg.Alerts.SweepInterval)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
