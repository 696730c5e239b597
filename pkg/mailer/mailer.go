package mailer

import (
	"context"

	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

// Mailer sends fire-and-forget customer notifications. Content and delivery
// are external concerns; callers must never block an order transaction on a
// send.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type logMailer struct {
	from string
	log  *logger.Logger
}

// NewLogMailer returns a Mailer that records the outbound message in the
// structured log instead of delivering it. The default until a real
// provider is configured.
func NewLogMailer(from string, log *logger.Logger) Mailer {
	return &logMailer{from: from, log: log}
}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx = m.log.WithFields(ctx, map[string]any{
		"mail_from":       m.from,
		"mail_to":         to,
		"mail_subject":    subject,
		"mail_body_bytes": len(body),
	})
	m.log.Info(ctx, "outbound mail")
	return nil
}
