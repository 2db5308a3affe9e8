package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// ErrCircuitOpen el breaker está abierto y la notificación no se intentó.
var ErrCircuitOpen = errors.New("notificador no disponible: circuit breaker abierto")

var _ ports.Notifier = (*BreakerNotifier)(nil)

// BreakerConfig umbrales del circuit breaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // solicitudes permitidas en half-open
	Interval         time.Duration // ventana para limpiar contadores (0 = nunca)
	Timeout          time.Duration // tiempo en open antes de pasar a half-open
	FailureThreshold uint32        // fallos consecutivos para abrir
}

// DefaultBreakerConfig valores por defecto para un servidor SMTP.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// BreakerNotifier envuelve otro Notifier: tras varios fallos seguidos deja de intentar
// durante Timeout y falla rápido con ErrCircuitOpen.
type BreakerNotifier struct {
	next ports.Notifier
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerNotifier construye el envoltorio.
func NewBreakerNotifier(next ports.Notifier, cfg BreakerConfig, log *logger.Logger) *BreakerNotifier {
	if log == nil {
		log = logger.Nop()
	}
	l := log.Component("notifier_breaker")
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn().Str("name", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker cambió de estado")
		},
	}
	return &BreakerNotifier{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Send delega en el notificador envuelto a través del breaker.
func (b *BreakerNotifier) Send(ctx context.Context, to, subject, body string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, to, subject, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w (%s)", ErrCircuitOpen, b.cb.Name())
	}
	return err
}

// State estado actual del breaker.
func (b *BreakerNotifier) State() gobreaker.State {
	return b.cb.State()
}
