// internal/models/content.go
package models

import "time"

// ContentType identifies the kind of document held in the content store.
type ContentType string

const (
	TypeEpisode        ContentType = "episode"
	TypeArticle        ContentType = "article"
	TypePlaylist       ContentType = "playlist"
	TypeSeason         ContentType = "season"
	TypeTeamMember     ContentType = "teamMember"
	TypeFAQ            ContentType = "faq"
	TypeHeroSlider     ContentType = "heroSlider"
	TypeTermsContent   ContentType = "termsContent"
	TypePrivacyContent ContentType = "privacyContent"
	TypeSocialLinks    ContentType = "socialLinks"

	TypeUser         ContentType = "user"
	TypeNotification ContentType = "notification"
)

// Operation is the change kind reported by the content store webhook.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ParseOperation maps a raw webhook operation string onto the closed set.
// Unknown values fall back to update, matching how redeliveries of edits
// behave upstream.
func ParseOperation(raw string) Operation {
	switch Operation(raw) {
	case OpCreate, OpUpdate, OpDelete:
		return Operation(raw)
	default:
		return OpUpdate
	}
}

// LocalizedString is a bilingual value as stored on content documents.
type LocalizedString struct {
	Ar string `json:"ar,omitempty" bson:"ar,omitempty"`
	En string `json:"en,omitempty" bson:"en,omitempty"`
}

// Pick returns the value for the requested language, falling back to the
// other language when the requested one is empty.
func (s LocalizedString) Pick(lang string) string {
	if lang == "ar" {
		if s.Ar != "" {
			return s.Ar
		}
		return s.En
	}
	if s.En != "" {
		return s.En
	}
	return s.Ar
}

// IsEmpty reports whether both languages are unset.
func (s LocalizedString) IsEmpty() bool {
	return s.Ar == "" && s.En == ""
}

// Document is the projection of a content store document the notification
// builders need. Fields beyond the projection stay in Raw.
type Document struct {
	ID          string                 `json:"_id" bson:"_id"`
	Type        ContentType            `json:"_type" bson:"_type"`
	Title       LocalizedString        `json:"title,omitempty" bson:"title,omitempty"`
	Name        LocalizedString        `json:"name,omitempty" bson:"name,omitempty"`
	Question    LocalizedString        `json:"question,omitempty" bson:"question,omitempty"`
	Slug        string                 `json:"slug,omitempty" bson:"slug,omitempty"`
	Image       string                 `json:"image,omitempty" bson:"image,omitempty"`
	PublishedAt *time.Time             `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Raw         map[string]interface{} `json:"-" bson:"-"`
}

// DisplayTitle returns the best human-readable label for the document. The
// per-type projections map their headline field into one of the three slots.
func (d *Document) DisplayTitle() LocalizedString {
	if !d.Title.IsEmpty() {
		return d.Title
	}
	if !d.Name.IsEmpty() {
		return d.Name
	}
	return d.Question
}

// Ref returns the URL path segment for the document: slug when present,
// otherwise the raw id.
func (d *Document) Ref() string {
	if d.Slug != "" {
		return d.Slug
	}
	return d.ID
}
