package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestMailerHandle(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := NewMailer("smtp.sentinel.local", 587, "no-reply@sentinel.local", slog.Default())
	m.send = func(addr, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	task, err := NewSendEmailTask(SendEmailPayload{
		To:      "jane@sentinel.io",
		Subject: "Verify your account",
		Body:    "click the link",
	})
	require.NoError(t, err)

	require.NoError(t, m.Handle(context.Background(), task))
	require.Equal(t, "smtp.sentinel.local:587", gotAddr)
	require.Equal(t, "no-reply@sentinel.local", gotFrom)
	require.Equal(t, []string{"jane@sentinel.io"}, gotTo)
	require.Contains(t, string(gotMsg), "Subject: Verify your account")
	require.Contains(t, string(gotMsg), "click the link")
}

func TestMailerHandleDeliveryError(t *testing.T) {
	m := NewMailer("smtp.sentinel.local", 587, "no-reply@sentinel.local", slog.Default())
	m.send = func(addr, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	task, err := NewSendEmailTask(SendEmailPayload{To: "jane@sentinel.io"})
	require.NoError(t, err)
	require.Error(t, m.Handle(context.Background(), task))
}

func TestMailerHandleBadPayloadSkipsRetry(t *testing.T) {
	m := NewMailer("smtp.sentinel.local", 587, "no-reply@sentinel.local", slog.Default())
	task := asynq.NewTask(TaskTypeSendEmail, []byte("not json"))

	err := m.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSMSSenderPostsToWebhook(t *testing.T) {
	var received SendSMSPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, slog.Default())
	task, err := NewSendSMSTask(SendSMSPayload{Phone: "+15551234567", Message: "code ABCD1234"})
	require.NoError(t, err)

	require.NoError(t, s.Handle(context.Background(), task))
	require.Equal(t, "+15551234567", received.Phone)
	require.Equal(t, "code ABCD1234", received.Message)
}

func TestSMSSenderProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, slog.Default())
	task, err := NewSendSMSTask(SendSMSPayload{Phone: "+15551234567", Message: "code"})
	require.NoError(t, err)

	require.Error(t, s.Handle(context.Background(), task))
}

func TestSMSSenderNoProviderConfigured(t *testing.T) {
	s := NewSMSSender("", slog.Default())
	task, err := NewSendSMSTask(SendSMSPayload{Phone: "+15551234567", Message: "code"})
	require.NoError(t, err)

	require.NoError(t, s.Handle(context.Background(), task))
}
