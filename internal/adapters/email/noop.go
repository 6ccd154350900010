package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender keeps sent messages in memory instead of delivering them.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
	now  func() time.Time
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{now: time.Now}
}

// Send records the message.
// POST: Returns a synthetic message ID; nothing leaves the process
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, req)
	slog.Info("email_event", "event", "noop_send", "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: fmt.Sprintf("noop-%d", len(s.sent)), SentAt: s.now()}, nil
}

// SendBatch records every message in order.
func (s *NoopSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, _ := s.Send(ctx, req)
		results = append(results, res)
	}
	return results, nil
}

// Sent returns a copy of every recorded message.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}
