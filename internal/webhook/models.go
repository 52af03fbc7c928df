// internal/webhook/models.go
package webhook

import "manara-backend/internal/models"

// DocumentChange is one (id, type, operation) triple extracted from a
// webhook delivery.
type DocumentChange struct {
	ID        string
	Type      models.ContentType
	Operation models.Operation
}

// EventShape tags which of the known wire shapes a delivery matched.
type EventShape string

const (
	ShapeBatch        EventShape = "batch"
	ShapeSingle       EventShape = "single"
	ShapeMutations    EventShape = "mutations"
	ShapeUnrecognized EventShape = "unrecognized"
)

// Event is the parsed form of a webhook delivery: a recognized shape plus
// the ordered list of document changes it carries. Unrecognized deliveries
// carry no changes and are acknowledged without processing.
type Event struct {
	Shape   EventShape
	Changes []DocumentChange
}

// Summary is the JSON body returned after dispatching an event. The
// documentType and operation fields echo the last processed change, which
// for mixed mutation batches describes only the trailing entry.
type Summary struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Processed    int    `json:"processed"`
	SuccessCount int    `json:"successCount"`
	ErrorCount   int    `json:"errorCount"`
	DocumentType string `json:"documentType,omitempty"`
	Operation    string `json:"operation,omitempty"`
	Duplicate    bool   `json:"duplicate,omitempty"`
}
