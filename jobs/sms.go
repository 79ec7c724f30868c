package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
)

// SMSSender delivers queued SMS messages through a provider webhook.
// When no webhook is configured the message is logged instead, which
// keeps development environments working without an account.
type SMSSender struct {
	WebhookURL string
	Client     *http.Client
	Logger     *slog.Logger
}

// NewSMSSender constructs an SMSSender.
func NewSMSSender(webhookURL string, logger *slog.Logger) *SMSSender {
	return &SMSSender{
		WebhookURL: webhookURL,
		Client:     http.DefaultClient,
		Logger:     logger,
	}
}

// Handle processes TaskTypeSendSMS tasks.
func (s *SMSSender) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendSMSPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if s.WebhookURL == "" {
		if s.Logger != nil {
			s.Logger.Info("sms (no provider configured)",
				slog.String("phone", payload.Phone),
				slog.String("message", payload.Message))
		}
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return asynq.SkipRetry
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned %d", resp.StatusCode)
	}

	if s.Logger != nil {
		s.Logger.Info("sms sent", slog.String("phone", payload.Phone))
	}
	return nil
}
