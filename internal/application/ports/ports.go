// Package ports define los puertos de salida de la capa de aplicación que no son persistencia:
// notificaciones, idempotencia y métricas. Los adaptadores viven en infrastructure.
package ports

import (
	"context"
	"time"
)

// Notifier entrega un mensaje a un destinatario (email, log). Un error significa que la entrega falló.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// IdempotencyStore reserva claves de idempotencia para operaciones de escritura.
// Claim devuelve false si la clave ya fue usada dentro del TTL.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Metrics contadores de negocio. Las implementaciones deben ser seguras para uso concurrente.
type Metrics interface {
	SaleRecorded()
	SaleRejected(reason string)
	StockAdjusted(direction string)
	LowStockAlert()
	NotificationFailed()
	InvoiceCreated()
	PurchaseOrder(event string) // created, received, cancelled
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) SaleRecorded()        {}
func (NopMetrics) SaleRejected(string)  {}
func (NopMetrics) StockAdjusted(string) {}
func (NopMetrics) LowStockAlert()       {}
func (NopMetrics) NotificationFailed()  {}
func (NopMetrics) InvoiceCreated()      {}
func (NopMetrics) PurchaseOrder(string) {}

// NopIdempotency acepta cualquier clave; se usa cuando Redis no está configurado.
type NopIdempotency struct{}

func (NopIdempotency) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (NopIdempotency) Release(context.Context, string) error                      { return nil }
