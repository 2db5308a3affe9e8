// Package metrics implementa ports.Metrics sobre Prometheus con un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus agrupa los contadores de negocio y la latencia HTTP.
type Prometheus struct {
	registry *prometheus.Registry

	salesRecorded       prometheus.Counter
	salesRejected       *prometheus.CounterVec
	stockAdjustments    *prometheus.CounterVec
	lowStockAlerts      prometheus.Counter
	notificationsFailed prometheus.Counter
	invoicesCreated     prometheus.Counter
	purchaseOrders      *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New crea las métricas bajo el namespace dado y las registra junto con los collectors de Go y del proceso.
func New(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Prometheus{
		registry: reg,
		salesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Ventas confirmadas",
		}),
		salesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_rejected_total",
			Help:      "Ventas rechazadas por motivo",
		}, []string{"reason"}),
		stockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Ajustes de stock aplicados por dirección",
		}, []string{"direction"}),
		lowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_alerts_total",
			Help:      "Alertas de stock bajo despachadas",
		}),
		notificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Notificaciones cuya entrega falló",
		}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Facturas emitidas",
		}),
		purchaseOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_orders_total",
			Help:      "Órdenes de compra por evento",
		}, []string{"event"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Solicitudes HTTP atendidas",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las solicitudes HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.salesRecorded, m.salesRejected, m.stockAdjustments, m.lowStockAlerts,
		m.notificationsFailed, m.invoicesCreated, m.purchaseOrders, m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Prometheus) SaleRecorded()              { m.salesRecorded.Inc() }
func (m *Prometheus) SaleRejected(reason string) { m.salesRejected.WithLabelValues(reason).Inc() }
func (m *Prometheus) StockAdjusted(dir string)   { m.stockAdjustments.WithLabelValues(dir).Inc() }
func (m *Prometheus) LowStockAlert()             { m.lowStockAlerts.Inc() }
func (m *Prometheus) NotificationFailed()        { m.notificationsFailed.Inc() }
func (m *Prometheus) InvoiceCreated()            { m.invoicesCreated.Inc() }
func (m *Prometheus) PurchaseOrder(event string) { m.purchaseOrders.WithLabelValues(event).Inc() }

// RecordHTTPRequest registra una solicitud atendida. route es el patrón de la ruta, no el path concreto.
func (m *Prometheus) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, s).Inc()
	m.httpDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
}

// Handler expone el registro en formato Prometheus/OpenMetrics.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry para tests y collectors adicionales.
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}
