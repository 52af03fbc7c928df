// internal/notification/fanout.go
package notification

import (
	"context"

	"manara-backend/internal/common/config"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/common/metrics"
	"manara-backend/internal/store"
)

// Broadcaster publishes a fan-out summary to an external topic. Optional;
// nil disables broadcasting.
type Broadcaster interface {
	PublishJSON(ctx context.Context, topicARN string, payload interface{}) error
}

// FanoutResult summarizes one fan-out run.
type FanoutResult struct {
	Success    bool `json:"success"`
	Count      int  `json:"count"`
	Recipients int  `json:"recipients"`
	Errors     int  `json:"errors"`
}

// Writer fans a payload out into one notification document per recipient.
type Writer struct {
	store       store.ContentStore
	cfg         config.NotificationConfig
	broadcaster Broadcaster
	topicARN    string
	logger      logger.Logger
}

func NewWriter(s store.ContentStore, cfg config.NotificationConfig, log logger.Logger) *Writer {
	return &Writer{
		store:  s,
		cfg:    cfg,
		logger: log,
	}
}

// WithBroadcast enables publishing a summary message after each fan-out.
func (w *Writer) WithBroadcast(b Broadcaster, topicARN string) *Writer {
	w.broadcaster = b
	w.topicARN = topicARN
	return w
}

// FanOut resolves the recipient set and writes one notification per
// recipient, sequentially. Individual write failures are logged and counted
// but never abort the loop.
func (w *Writer) FanOut(ctx context.Context, p Payload) (FanoutResult, error) {
	recipients, err := w.resolveRecipients(ctx)
	if err != nil {
		return FanoutResult{}, err
	}

	if len(recipients) == 0 {
		w.logger.Warn("No recipients resolved for notification fan-out", map[string]interface{}{
			"relatedId":   p.RelatedID,
			"relatedType": string(p.RelatedType),
		})
		return FanoutResult{Success: true, Count: 0, Recipients: 0}, nil
	}

	result := FanoutResult{Recipients: len(recipients)}
	for _, email := range recipients {
		n := p.ToNotification(email)
		if _, err := w.store.CreateNotification(ctx, n); err != nil {
			result.Errors++
			metrics.NotificationWrites.WithLabelValues("error").Inc()
			w.logger.WithError(err).Error("Notification write failed", map[string]interface{}{
				"recipient":   email,
				"relatedId":   p.RelatedID,
				"relatedType": string(p.RelatedType),
			})
			continue
		}
		result.Count++
		metrics.NotificationWrites.WithLabelValues("success").Inc()
	}
	result.Success = true

	w.broadcast(ctx, p, result)
	return result, nil
}

// WriteDirect writes a single notification for one known recipient,
// bypassing recipient resolution. Used by the account flows.
func (w *Writer) WriteDirect(ctx context.Context, p Payload, recipientEmail string) error {
	_, err := w.store.CreateNotification(ctx, p.ToNotification(recipientEmail))
	if err != nil {
		metrics.NotificationWrites.WithLabelValues("error").Inc()
		return err
	}
	metrics.NotificationWrites.WithLabelValues("success").Inc()
	return nil
}

func (w *Writer) resolveRecipients(ctx context.Context) ([]string, error) {
	emails, err := w.store.ListRecipientEmails(ctx)
	if err != nil {
		return nil, err
	}
	if len(emails) > 0 {
		return emails, nil
	}

	if len(w.cfg.FallbackRecipients) > 0 {
		w.logger.Warn("No user documents with email found, using configured fallback recipients", map[string]interface{}{
			"fallbackCount": len(w.cfg.FallbackRecipients),
		})
		return w.cfg.FallbackRecipients, nil
	}
	return nil, nil
}

func (w *Writer) broadcast(ctx context.Context, p Payload, result FanoutResult) {
	if w.broadcaster == nil || w.topicARN == "" {
		return
	}

	summary := map[string]interface{}{
		"relatedId":   p.RelatedID,
		"relatedType": string(p.RelatedType),
		"severity":    p.Type,
		"titleEn":     p.Title.En,
		"recipients":  result.Recipients,
		"written":     result.Count,
	}
	if err := w.broadcaster.PublishJSON(ctx, w.topicARN, summary); err != nil {
		w.logger.WithError(err).Warn("Fan-out broadcast publish failed", map[string]interface{}{
			"topic": w.topicARN,
		})
	}
}
