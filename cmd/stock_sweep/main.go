// stock_sweep ejecuta un barrido único de alertas de stock bajo.
//
// Uso: go run ./cmd/stock_sweep [-migrate] [-timeout 2m]
// Con -migrate aplica antes el esquema embebido (idempotente).
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/retail-inventory/internal/application/alerts"
	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/notification"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-inventory/pkg/config"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

func main() {
	migrate := flag.Bool("migrate", false, "aplicar el esquema antes del barrido")
	timeout := flag.Duration("timeout", 2*time.Minute, "tiempo máximo del barrido")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("stock_sweep")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if *migrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Strs("tables", postgres.Tables()).Msg("esquema aplicado")
	}

	var notifier ports.Notifier = notification.NewLogNotifier(log)
	if smtp := cfg.Alerts.SMTP; smtp.Host != "" {
		notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     smtp.Host,
			Port:     smtp.Port,
			User:     smtp.User,
			Password: smtp.Password,
			From:     smtp.From,
		})
	}

	dispatcher := alerts.NewDispatcher(
		postgres.NewTxRunner(pool),
		postgres.NewProductRepository(pool),
		postgres.NewStockAlertRepository(pool),
		notifier,
		nil,
		log,
		alerts.Config{Cooldown: cfg.Alerts.Cooldown, Recipient: cfg.Alerts.Recipient},
	)

	fired, err := dispatcher.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Int("fired", fired).Msg("barrido incompleto")
		os.Exit(1)
	}
	log.Info().Int("fired", fired).Msg("barrido completado")
}
