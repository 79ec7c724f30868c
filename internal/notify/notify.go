// Package notify abstracts out-of-band delivery of verification artifacts.
package notify

import "context"

// Notifier delivers verification URLs and MFA codes. Implementations must not
// block on the upstream provider; the queue-backed implementation enqueues a
// background task and returns.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, phone, message string) error
}
