package notification_test

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/retail-inventory/internal/infrastructure/notification"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

type flakyNotifier struct {
	calls int
	err   error
}

func (n *flakyNotifier) Send(context.Context, string, string, string) error {
	n.calls++
	return n.err
}

func TestSMTPNotifier_ArmaElMensaje(t *testing.T) {
	sender := &fakeSender{}
	n := notification.NewSMTPNotifierWithSender(sender, "alerts@tienda.local")

	subject := "Stock bajo: Café"
	require.NoError(t, n.Send(context.Background(), "admin@tienda.local", subject, "Quedan 2 unidades"))
	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, []string{"alerts@tienda.local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"admin@tienda.local"}, m.GetHeader("To"))
	// gomail codifica en Q los encabezados no ASCII
	assert.Equal(t, []string{mime.QEncoding.Encode("UTF-8", subject)}, m.GetHeader("Subject"))

	var dec mime.WordDecoder
	decoded, err := dec.DecodeHeader(m.GetHeader("Subject")[0])
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)
}

func TestSMTPNotifier_Errores(t *testing.T) {
	boom := errors.New("connection refused")
	n := notification.NewSMTPNotifierWithSender(&fakeSender{err: boom}, "a@b.c")

	err := n.Send(context.Background(), "x@y.z", "s", "b")
	assert.ErrorIs(t, err, boom)

	assert.Error(t, n.Send(context.Background(), "", "s", "b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "x@y.z", "s", "b"), context.Canceled)
}

func TestBreakerNotifier_AbreTrasFallosConsecutivos(t *testing.T) {
	inner := &flakyNotifier{err: errors.New("smtp caído")}
	cfg := notification.DefaultBreakerConfig("smtp-test")
	cfg.Timeout = time.Hour
	b := notification.NewBreakerNotifier(inner, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, b.Send(ctx, "a", "s", "b"))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Send(ctx, "a", "s", "b")
	assert.ErrorIs(t, err, notification.ErrCircuitOpen)
	assert.Equal(t, 3, inner.calls, "con el breaker abierto no se intenta el envío")
}

func TestBreakerNotifier_ExitoMantieneCerrado(t *testing.T) {
	inner := &flakyNotifier{}
	b := notification.NewBreakerNotifier(inner, notification.DefaultBreakerConfig("smtp-ok"), nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Send(context.Background(), "a", "s", "b"))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 5, inner.calls)
}

func TestLogNotifier_NuncaFalla(t *testing.T) {
	assert.NoError(t, notification.NewLogNotifier(nil).Send(context.Background(), "a", "s", "b"))
}
