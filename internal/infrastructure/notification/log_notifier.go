package notification

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe la notificación en el log. Se usa cuando no hay SMTP configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Component("notifier")}
}

// Send nunca falla.
func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.log.Warn().Str("to", to).Str("subject", subject).Str("body", body).Msg("notificación")
	return nil
}
