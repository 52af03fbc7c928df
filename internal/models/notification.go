// internal/models/notification.go
package models

import "time"

// Severity tags carried in the notification "type" field.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notification is the document written to the content store for each
// recipient when content changes, and directly by the account flows. The
// document _type discriminator is always "notification"; the "type" field
// carries the severity tag surfaced in the notifications UI.
type Notification struct {
	ID             string          `json:"_id" bson:"_id"`
	DocType        ContentType     `json:"_type" bson:"_type"`
	RecipientEmail string          `json:"recipientEmail" bson:"recipientEmail"`
	Title          LocalizedString `json:"title" bson:"title"`
	Message        LocalizedString `json:"message" bson:"message"`
	Type           string          `json:"type" bson:"type"`
	RelatedID      string          `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	RelatedType    ContentType     `json:"relatedType,omitempty" bson:"relatedType,omitempty"`
	Image          string          `json:"image,omitempty" bson:"image,omitempty"`
	ActionURL      string          `json:"actionUrl,omitempty" bson:"actionUrl,omitempty"`
	ActionText     LocalizedString `json:"actionText,omitempty" bson:"actionText,omitempty"`
	IsRead         bool            `json:"isRead" bson:"isRead"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
}
