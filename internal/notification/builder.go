// internal/notification/builder.go
package notification

import (
	"fmt"

	"github.com/google/uuid"

	"manara-backend/internal/models"
)

// Payload is a notification before a recipient is assigned. The fan-out
// writer clones it once per resolved recipient.
type Payload struct {
	Title       models.LocalizedString
	Message     models.LocalizedString
	Type        string
	RelatedID   string
	RelatedType models.ContentType
	Image       string
	ActionURL   string
	ActionText  models.LocalizedString
}

// BuildContentChanged renders the notification for a created or updated
// document. Both languages are always rendered; the recipient's language is
// unknown at fan-out time.
func BuildContentChanged(doc *models.Document, info TypeInfo, op models.Operation) Payload {
	title := doc.DisplayTitle()
	if title.IsEmpty() {
		title = models.LocalizedString{Ar: info.LabelAr, En: info.LabelEn}
	}

	p := Payload{
		Type:        models.SeverityInfo,
		RelatedID:   doc.ID,
		RelatedType: doc.Type,
		Image:       doc.Image,
		ActionURL:   actionURL(info, doc.Ref()),
		ActionText: models.LocalizedString{
			Ar: "عرض التفاصيل",
			En: "View details",
		},
	}

	switch op {
	case models.OpCreate:
		p.Title = models.LocalizedString{
			Ar: fmt.Sprintf("%s جديد: %s", info.LabelAr, title.Pick("ar")),
			En: fmt.Sprintf("New %s: %s", info.LabelEn, title.Pick("en")),
		}
		p.Message = models.LocalizedString{
			Ar: fmt.Sprintf("تمت إضافة %s جديد بعنوان \"%s\"", info.LabelAr, title.Pick("ar")),
			En: fmt.Sprintf("A new %s titled \"%s\" was added", info.LabelEn, title.Pick("en")),
		}
	default: // update
		p.Title = models.LocalizedString{
			Ar: fmt.Sprintf("تحديث %s: %s", info.LabelAr, title.Pick("ar")),
			En: fmt.Sprintf("Updated %s: %s", info.LabelEn, title.Pick("en")),
		}
		p.Message = models.LocalizedString{
			Ar: fmt.Sprintf("تم تحديث %s بعنوان \"%s\"", info.LabelAr, title.Pick("ar")),
			En: fmt.Sprintf("The %s titled \"%s\" was updated", info.LabelEn, title.Pick("en")),
		}
	}

	return p
}

// BuildContentDeleted renders the notification for a deleted document. The
// document is gone, so only the type label and id are available; no action
// link is attached.
func BuildContentDeleted(id string, docType models.ContentType, info TypeInfo) Payload {
	return Payload{
		Type:        models.SeverityWarning,
		RelatedID:   id,
		RelatedType: docType,
		Title: models.LocalizedString{
			Ar: fmt.Sprintf("تم حذف %s", info.LabelAr),
			En: fmt.Sprintf("A %s was removed", info.LabelEn),
		},
		Message: models.LocalizedString{
			Ar: fmt.Sprintf("تمت إزالة %s من المنصة", info.LabelAr),
			En: fmt.Sprintf("A %s is no longer available on the platform", info.LabelEn),
		},
	}
}

// BuildAccountNotice renders a direct account notification (welcome mail,
// security change) for a single known recipient.
func BuildAccountNotice(title, message models.LocalizedString, severity string) Payload {
	return Payload{
		Title:   title,
		Message: message,
		Type:    severity,
	}
}

func actionURL(info TypeInfo, ref string) string {
	if info.PathPrefix == "" {
		return "/" + ref
	}
	return fmt.Sprintf("/%s/%s", info.PathPrefix, ref)
}

// ToNotification materializes the payload for one recipient.
func (p Payload) ToNotification(recipientEmail string) *models.Notification {
	return &models.Notification{
		ID:             uuid.NewString(),
		DocType:        models.TypeNotification,
		RecipientEmail: recipientEmail,
		Title:          p.Title,
		Message:        p.Message,
		Type:           p.Type,
		RelatedID:      p.RelatedID,
		RelatedType:    p.RelatedType,
		Image:          p.Image,
		ActionURL:      p.ActionURL,
		ActionText:     p.ActionText,
		IsRead:         false,
	}
}
