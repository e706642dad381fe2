package providers

import (
	"context"
)

// Mailer defines the interface for outbound email delivery.
type Mailer interface {
	// Send delivers a plain-text mail to a single recipient
	Send(ctx context.Context, to, subject, body string) error
}
