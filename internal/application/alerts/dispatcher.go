// Package alerts implementa el despachador de alertas de stock bajo con ventana de enfriamiento.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// DefaultCooldown ventana mínima entre dos alertas del mismo producto.
const DefaultCooldown = 24 * time.Hour

// errWindowTaken aborta la tx cuando otro llamador ya reclamó la ventana.
var errWindowTaken = errors.New("ventana de alerta ya reclamada")

// Config parámetros del despachador.
type Config struct {
	Cooldown  time.Duration
	Recipient string
	Now       func() time.Time // reloj inyectable; nil = time.Now
}

// Dispatcher decide si un producto merece alerta, la registra y notifica.
// La entrega es best-effort: un fallo del notificador se registra en el log y nunca se propaga.
type Dispatcher struct {
	tx        repository.TxRunner
	products  repository.ProductRepository
	alerts    repository.StockAlertRepository
	notifier  ports.Notifier
	metrics   ports.Metrics
	log       *logger.Logger
	cooldown  time.Duration
	recipient string
	now       func() time.Time
}

// NewDispatcher construye el despachador.
func NewDispatcher(
	tx repository.TxRunner,
	products repository.ProductRepository,
	alerts repository.StockAlertRepository,
	notifier ports.Notifier,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *Dispatcher {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		tx:        tx,
		products:  products,
		alerts:    alerts,
		notifier:  notifier,
		metrics:   metrics,
		log:       log.Component("alerts"),
		cooldown:  cfg.Cooldown,
		recipient: cfg.Recipient,
		now:       cfg.Now,
	}
}

// MaybeAlert dispara una alerta si el producto está en o bajo su umbral y fuera de la ventana.
// La ventana se reclama con una escritura condicional en la misma tx que inserta la alerta,
// así dos ventas concurrentes bajo umbral generan una sola alerta.
// Devuelve true si se registró una alerta.
func (d *Dispatcher) MaybeAlert(ctx context.Context, p *entity.Product) bool {
	if p == nil || !p.IsLowStock() {
		return false
	}
	now := d.now().UTC()
	cutoff := now.Add(-d.cooldown)
	if p.LastAlertAt != nil && !p.LastAlertAt.Before(cutoff) {
		return false
	}

	alert := &entity.StockAlert{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		AlertType: entity.AlertTypeLowStock,
		CreatedAt: now,
	}
	err := d.tx.Run(ctx, func(repos repository.TxRepos) error {
		claimed, err := repos.Products.ClaimAlert(ctx, p.ID, now, cutoff)
		if err != nil {
			return err
		}
		if !claimed {
			return errWindowTaken
		}
		return repos.Alerts.Create(ctx, alert)
	})
	if errors.Is(err, errWindowTaken) {
		return false
	}
	if err != nil {
		d.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo registrar la alerta de stock bajo")
		return false
	}

	d.metrics.LowStockAlert()
	d.log.Info().
		Str("product_id", p.ID).
		Int("quantity", p.Quantity).
		Int("min_stock_level", p.MinStockLevel).
		Msg("alerta de stock bajo registrada")
	d.notify(ctx, p)
	return true
}

func (d *Dispatcher) notify(ctx context.Context, p *entity.Product) {
	if d.notifier == nil {
		return
	}
	subject, body := Message(p)
	if err := d.notifier.Send(ctx, d.recipient, subject, body); err != nil {
		d.metrics.NotificationFailed()
		d.log.Error().Err(err).Str("product_id", p.ID).Str("to", d.recipient).Msg("falló la notificación de stock bajo")
	}
}

// Message arma asunto y cuerpo de la notificación.
func Message(p *entity.Product) (subject, body string) {
	subject = "Stock bajo: " + p.Name
	body = fmt.Sprintf("Quedan %d unidades de %s (mínimo %d).", p.Quantity, p.Name, p.MinStockLevel)
	if p.Barcode != "" {
		body += "\nCódigo de barras: " + p.Barcode
	}
	return subject, body
}

// Sweep revisa todos los productos bajo umbral; la ventana de enfriamiento sigue aplicando.
// Devuelve cuántas alertas se registraron.
func (d *Dispatcher) Sweep(ctx context.Context) (int, error) {
	low, err := d.products.ListLowStock(ctx)
	if err != nil {
		return 0, err
	}
	fired := 0
	for _, p := range low {
		if ctx.Err() != nil {
			return fired, ctx.Err()
		}
		if d.MaybeAlert(ctx, p) {
			fired++
		}
	}
	d.log.Debug().Int("low_stock", len(low)).Int("fired", fired).Msg("barrido de stock bajo")
	return fired, nil
}

// Run ejecuta Sweep cada interval hasta que ctx se cancele.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Sweep(ctx); err != nil && ctx.Err() == nil {
				d.log.Error().Err(err).Msg("barrido de stock bajo falló")
			}
		}
	}
}

// List alertas más recientes primero; productID vacío = todas.
func (d *Dispatcher) List(ctx context.Context, productID string, limit int) ([]*entity.StockAlert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return d.alerts.List(ctx, productID, limit)
}
