// internal/notification/registry.go
package notification

import "manara-backend/internal/models"

// TypeInfo describes how one content type renders into notifications.
type TypeInfo struct {
	// LabelAr/LabelEn name the content type in the reader's language,
	// used by deleted-content messages ("تم حذف حلقة" / "An episode was removed").
	LabelAr string
	LabelEn string

	// PathPrefix is the site route prefix for this type; ActionURL becomes
	// /<PathPrefix>/<slug-or-id>. Empty means the type has no detail page
	// and created/updated notifications link to the prefixless ref.
	PathPrefix string

	// TitleField is the document field holding the headline, projected on
	// fetch. Types without one fall back to the type label.
	TitleField string

	// Projection lists the store fields needed to build the notification.
	Projection []string
}

// typeRegistry binds every known content type to its rendering info. A type
// missing here cannot produce notifications and counts as a dispatch error.
var typeRegistry = map[models.ContentType]TypeInfo{
	models.TypeEpisode: {
		LabelAr: "حلقة", LabelEn: "episode",
		PathPrefix: "episodes",
		TitleField: "title",
		Projection: []string{"title", "slug", "image", "publishedAt"},
	},
	models.TypeArticle: {
		LabelAr: "مقال", LabelEn: "article",
		PathPrefix: "articles",
		TitleField: "title",
		Projection: []string{"title", "slug", "image", "publishedAt"},
	},
	models.TypePlaylist: {
		LabelAr: "قائمة تشغيل", LabelEn: "playlist",
		PathPrefix: "playlists",
		TitleField: "title",
		Projection: []string{"title", "slug", "image"},
	},
	models.TypeSeason: {
		LabelAr: "موسم", LabelEn: "season",
		PathPrefix: "seasons",
		TitleField: "title",
		Projection: []string{"title", "slug", "image"},
	},
	models.TypeTeamMember: {
		LabelAr: "عضو فريق", LabelEn: "team member",
		PathPrefix: "team",
		TitleField: "name",
		Projection: []string{"name", "slug", "image"},
	},
	models.TypeFAQ: {
		LabelAr: "سؤال شائع", LabelEn: "FAQ entry",
		PathPrefix: "faq",
		TitleField: "question",
		Projection: []string{"question"},
	},
	models.TypeHeroSlider: {
		LabelAr: "شريحة رئيسية", LabelEn: "hero slide",
		PathPrefix: "",
		TitleField: "title",
		Projection: []string{"title", "image"},
	},
	models.TypeTermsContent: {
		LabelAr: "شروط الاستخدام", LabelEn: "terms of use",
		PathPrefix: "terms",
		TitleField: "title",
		Projection: []string{"title"},
	},
	models.TypePrivacyContent: {
		LabelAr: "سياسة الخصوصية", LabelEn: "privacy policy",
		PathPrefix: "privacy",
		TitleField: "title",
		Projection: []string{"title"},
	},
	models.TypeSocialLinks: {
		LabelAr: "روابط التواصل", LabelEn: "social links",
		PathPrefix: "",
		TitleField: "title",
		Projection: []string{"title"},
	},
}

// Lookup returns the rendering info for a content type.
func Lookup(t models.ContentType) (TypeInfo, bool) {
	info, ok := typeRegistry[t]
	return info, ok
}

// RegisteredTypes returns every content type the registry can render.
func RegisteredTypes() []models.ContentType {
	types := make([]models.ContentType, 0, len(typeRegistry))
	for t := range typeRegistry {
		types = append(types, t)
	}
	return types
}
