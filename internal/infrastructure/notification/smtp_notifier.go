// Package notification contiene los adaptadores de ports.Notifier: correo SMTP,
// log estructurado y un envoltorio con circuit breaker.
package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
)

var _ ports.Notifier = (*SMTPNotifier)(nil)

// Sender abstrae el envío; *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig servidor de correo.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPNotifier envía las notificaciones como correo de texto plano.
type SMTPNotifier struct {
	sender Sender
	from   string
}

// NewSMTPNotifier construye el notificador con un gomail.Dialer.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// NewSMTPNotifierWithSender permite inyectar el Sender (tests).
func NewSMTPNotifierWithSender(sender Sender, from string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from}
}

// Send arma el mensaje y lo entrega. gomail no acepta contexto: solo se respeta una cancelación previa.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("smtp: destinatario vacío")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: envío a %s: %w", to, err)
	}
	return nil
}
