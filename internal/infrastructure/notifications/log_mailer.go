package notifications

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wanderlyst/backend/internal/domain/providers"
)

// LogMailer writes outbound mail to the log instead of sending it. It stands
// in for the real sender when no mail API is configured, which keeps local
// signup flows usable.
type LogMailer struct{}

var _ providers.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a log-only mail sender.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail delivery skipped, no mail API configured")
	return nil
}
