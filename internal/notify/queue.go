package notify

import (
	"context"
	"log/slog"

	"github.com/sentinel-id/sentinel/jobs"
)

// Queue implements Notifier by enqueuing background tasks.
type Queue struct {
	client *jobs.Client
	logger *slog.Logger
}

// NewQueue constructs a queue-backed Notifier.
func NewQueue(client *jobs.Client, logger *slog.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

func (q *Queue) SendEmail(ctx context.Context, to, subject, body string) error {
	err := q.client.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		q.logger.Error("enqueue email", slog.String("to", to), slog.Any("error", err))
		return err
	}
	return nil
}

func (q *Queue) SendSMS(ctx context.Context, phone, message string) error {
	err := q.client.EnqueueSendSMS(ctx, jobs.SendSMSPayload{
		Phone:   phone,
		Message: message,
	})
	if err != nil {
		q.logger.Error("enqueue sms", slog.String("phone", phone), slog.Any("error", err))
		return err
	}
	return nil
}
