// Package email delivers outbound messages. Production uses Resend; every other
// environment uses the in-memory NoopSender.
package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one message.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender default
	Subject string
	HTML    string
	Text    string            // plain-text alternative
	Tags    map[string]string // provider-side tracking tags
}

// SendResult contains the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
