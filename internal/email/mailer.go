// Package email sends the three notification messages the legacy lifecycle
// produces: heartbeat reminders, the transmission notice to the owner, and
// access links to heirs.
package email

import "context"

// Mailer is the outbound notification boundary. Implementations deliver a
// single HTML message; failures are returned, never retried here — the
// sweep decides what a send failure means.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}
