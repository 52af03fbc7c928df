// internal/webhook/handler.go
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"manara-backend/internal/common/config"
	apperrors "manara-backend/internal/common/errors"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/common/metrics"
	"manara-backend/internal/models"
	"manara-backend/internal/notification"
	"manara-backend/internal/store"
)

// providerHeaders are logged for every delivery before verification runs.
var providerHeaders = []string{
	"sanity-transaction-id",
	"sanity-transaction-time",
	"sanity-dataset",
	"sanity-document-id",
	"sanity-project-id",
	"sanity-webhook-id",
	"sanity-operation",
	"idempotency-key",
}

const idempotencyKeyHeader = "idempotency-key"

// Handler receives content-store change events and fans them out into
// notification documents.
type Handler struct {
	cfg          config.Config
	verifier     *Verifier
	dedup        DedupStore
	store        store.ContentStore
	writer       *notification.Writer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	cfg config.Config,
	verifier *Verifier,
	dedup DedupStore,
	s store.ContentStore,
	writer *notification.Writer,
	log logger.Logger,
) *Handler {
	return &Handler{
		cfg:          cfg,
		verifier:     verifier,
		dedup:        dedup,
		store:        s,
		writer:       writer,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

// HandlePost processes a webhook delivery. Errors on individual documents
// are counted in the response body; only signature failures and unhandled
// faults change the status code.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.WebhookEventsReceived.WithLabelValues("read_error").Inc()
		h.errorHandler.WriteError(w, r, apperrors.NewPayloadInvalidError(err.Error()))
		return
	}

	h.logDelivery(r, len(body))

	if !h.cfg.App.IsDevelopment() {
		if err := h.verifier.Verify(r.Header.Get(SignatureHeader), body); err != nil {
			metrics.WebhookEventsReceived.WithLabelValues("rejected").Inc()
			h.errorHandler.WriteError(w, r, err)
			return
		}
	}

	event := ParseEvent(body)
	if event.Shape == ShapeUnrecognized || len(event.Changes) == 0 {
		metrics.WebhookEventsReceived.WithLabelValues("no_op").Inc()
		writeJSON(w, http.StatusOK, Summary{
			Success: true,
			Message: "No documents to process",
		})
		return
	}

	if duplicate, err := h.checkDuplicate(r); err != nil {
		h.logger.WithError(err).Warn("Idempotency check failed, processing anyway", nil)
	} else if duplicate {
		metrics.WebhookEventsReceived.WithLabelValues("duplicate").Inc()
		writeJSON(w, http.StatusOK, Summary{
			Success:   true,
			Message:   "Duplicate delivery skipped",
			Duplicate: true,
		})
		return
	}

	summary := h.dispatch(r.Context(), event)
	metrics.WebhookEventsReceived.WithLabelValues("processed").Inc()
	writeJSON(w, http.StatusOK, summary)
}

// HandleGet is a liveness echo for manual probing; no business logic.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(providerHeaders))
	for _, name := range providerHeaders {
		headers[name] = r.Header.Get(name)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": h.cfg.App.Name,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"headers": headers,
	})
}

// checkDuplicate consults the dedup store when the delivery carries an
// idempotency key. Keyless deliveries are never deduplicated; redelivering
// one duplicates its notifications.
func (h *Handler) checkDuplicate(r *http.Request) (bool, error) {
	key := r.Header.Get(idempotencyKeyHeader)
	if key == "" || h.dedup == nil {
		return false, nil
	}
	fresh, err := h.dedup.MarkProcessed(r.Context(), key)
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// dispatch processes every change sequentially, in delivery order. A failed
// document increments errorCount and the loop continues.
func (h *Handler) dispatch(ctx context.Context, event Event) Summary {
	summary := Summary{Success: true}

	for _, change := range event.Changes {
		summary.Processed++
		summary.DocumentType = string(change.Type)
		summary.Operation = string(change.Operation)

		if err := h.processChange(ctx, change); err != nil {
			summary.ErrorCount++
			metrics.WebhookDocumentsProcessed.WithLabelValues(string(change.Type), string(change.Operation), "error").Inc()
			h.logger.WithError(err).Error("Document dispatch failed", map[string]interface{}{
				"documentId":   change.ID,
				"documentType": string(change.Type),
				"operation":    string(change.Operation),
			})
			continue
		}
		summary.SuccessCount++
		metrics.WebhookDocumentsProcessed.WithLabelValues(string(change.Type), string(change.Operation), "success").Inc()
	}

	return summary
}

func (h *Handler) processChange(ctx context.Context, change DocumentChange) error {
	info, ok := notification.Lookup(change.Type)
	if !ok {
		return apperrors.NewUnknownContentTypeError(string(change.Type))
	}

	var payload notification.Payload
	if change.Operation == models.OpDelete {
		// The document is gone; render from the type label alone.
		payload = notification.BuildContentDeleted(change.ID, change.Type, info)
	} else {
		doc, err := h.store.FetchDocument(ctx, change.ID, info.Projection)
		if err != nil {
			return err
		}
		if doc == nil {
			return apperrors.NewDocumentNotFoundError(change.ID)
		}
		doc.Type = change.Type
		payload = notification.BuildContentChanged(doc, info, change.Operation)
	}

	_, err := h.writer.FanOut(ctx, payload)
	return err
}

func (h *Handler) logDelivery(r *http.Request, bodyLen int) {
	fields := map[string]interface{}{
		"bodyBytes": bodyLen,
	}
	for _, name := range providerHeaders {
		if v := r.Header.Get(name); v != "" {
			fields[name] = v
		}
	}
	h.logger.Info("Webhook delivery received", fields)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
