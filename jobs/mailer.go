package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
)

// Mailer delivers queued emails over SMTP.
type Mailer struct {
	Host   string
	Port   int
	From   string
	Logger *slog.Logger

	// send is swappable for tests.
	send func(addr, from string, to []string, msg []byte) error
}

// NewMailer constructs a Mailer.
func NewMailer(host string, port int, from string, logger *slog.Logger) *Mailer {
	return &Mailer{
		Host:   host,
		Port:   port,
		From:   from,
		Logger: logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// Handle processes TaskTypeSendEmail tasks.
func (m *Mailer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.From, payload.To, payload.Subject, payload.Body)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)

	if err := m.send(addr, m.From, []string{payload.To}, []byte(msg)); err != nil {
		if m.Logger != nil {
			m.Logger.Error("send email", slog.String("to", payload.To), slog.Any("error", err))
		}
		return err
	}

	if m.Logger != nil {
		m.Logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	}
	return nil
}
