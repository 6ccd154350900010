package email

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the most messages Resend accepts per batch call.
const resendBatchLimit = 100

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	now    func() time.Time
}

// NewResendSender creates a new ResendSender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		now:    time.Now,
	}
}

// Send sends a single email via Resend.
// PRE: req has at least one recipient and a subject
// POST: Email is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		slog.Error("email_event", "event", "resend_send_failed", "error", err, "to", req.To)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}
	slog.Info("email_event", "event", "resend_sent", "message_id", sent.Id, "to", req.To)
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}

// SendBatch sends messages in chunks of at most resendBatchLimit.
// PRE: len(reqs) > 0
// POST: Results are in request order; on error, results for earlier chunks are returned
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	var results []SendResult
	for start := 0; start < len(reqs); start += resendBatchLimit {
		end := min(start+resendBatchLimit, len(reqs))

		batch := make([]*resend.SendEmailRequest, 0, end-start)
		for _, req := range reqs[start:end] {
			batch = append(batch, s.params(req))
		}
		resp, err := s.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			slog.Error("email_event", "event", "resend_batch_failed", "error", err, "batch_size", len(batch))
			return results, fmt.Errorf("resend batch send failed: %w", err)
		}
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: s.now()})
		}
	}
	slog.Info("email_event", "event", "resend_batch_sent", "count", len(results))
	return results, nil
}

func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	from := req.From
	if from == "" {
		from = s.from
	}
	p := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	names := make([]string, 0, len(req.Tags))
	for name := range req.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Tags = append(p.Tags, resend.Tag{Name: name, Value: req.Tags[name]})
	}
	return p
}
