// internal/search/service.go
package search

import (
	"context"
	"sort"
	"strings"

	"manara-backend/internal/common/logger"
	"manara-backend/internal/contentapi"
)

// CollectionLister is the slice of the content API client the service needs.
type CollectionLister interface {
	ListCollection(ctx context.Context, collection string, q contentapi.Query) ([]contentapi.Entry, error)
}

// collectionSpec binds an upstream collection to its result type tag and
// the field holding its headline.
type collectionSpec struct {
	collection string
	resultType string
	titleField string
	query      contentapi.Query
}

// The collections aggregated per query, fetched sequentially in this order.
var collections = []collectionSpec{
	{collection: "episodes", resultType: "episode", titleField: "title",
		query: contentapi.Query{Populate: "*", Sort: "publishedAt:desc", PageSize: 100}},
	{collection: "seasons", resultType: "season", titleField: "title",
		query: contentapi.Query{Populate: "*", PageSize: 100}},
	{collection: "playlists", resultType: "playlist", titleField: "title",
		query: contentapi.Query{Populate: "*", PageSize: 100}},
	{collection: "faqs", resultType: "faq", titleField: "question",
		query: contentapi.Query{PageSize: 100}},
	{collection: "team-members", resultType: "teamMember", titleField: "name",
		query: contentapi.Query{Populate: "*", PageSize: 100}},
	{collection: "terms", resultType: "terms", titleField: "title",
		query: contentapi.Query{PageSize: 10}},
	{collection: "privacy", resultType: "privacy", titleField: "title",
		query: contentapi.Query{PageSize: 10}},
}

// Service aggregates and ranks content search results.
type Service struct {
	api    CollectionLister
	logger logger.Logger
}

func NewService(api CollectionLister, log logger.Logger) *Service {
	return &Service{api: api, logger: log}
}

// Search runs the aggregation. A blank query short-circuits to an empty
// result set without touching the upstream API. Any upstream failure fails
// the whole search; no partial results.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	normQuery := Normalize(query)
	if normQuery == "" {
		return []Result{}, nil
	}

	var all []Result
	for _, spec := range collections {
		entries, err := s.api.ListCollection(ctx, spec.collection, spec.query)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			all = append(all, mapEntry(entry, spec))
		}
	}

	matched := filterResults(all, normQuery)
	rankResults(matched, normQuery)
	return matched, nil
}

// mapEntry converts one upstream entry into the common result shape,
// tolerating both flat and attribute-nested responses.
func mapEntry(entry contentapi.Entry, spec collectionSpec) Result {
	fields := entry.Fields()

	r := Result{
		ID:          entry.ID.String(),
		Type:        spec.resultType,
		Title:       stringField(fields, spec.titleField),
		Slug:        stringField(fields, "slug"),
		Thumbnail:   firstString(fields, "thumbnail", "image"),
		Description: stringField(fields, "description"),
		PublishedAt: stringField(fields, "publishedAt"),
	}
	if r.ID == "" {
		r.ID = stringField(fields, "id")
	}
	if r.Title == "" {
		r.Title = firstString(fields, "title", "name", "question")
	}
	r.Content = flattenRichText(fields["content"])
	if r.Content == "" {
		r.Content = stringField(fields, "answer")
	}

	r.normTitle = Normalize(r.Title)
	r.normBody = Normalize(strings.TrimSpace(r.Description + " " + r.Content))
	return r
}

// flattenRichText concatenates the text children of paragraph and heading
// blocks into plain text. Non-block content passes through as-is.
func flattenRichText(v interface{}) string {
	switch content := v.(type) {
	case string:
		return content
	case []interface{}:
		var parts []string
		for _, item := range content {
			block, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			blockType, _ := block["type"].(string)
			if blockType != "paragraph" && !strings.HasPrefix(blockType, "heading") {
				continue
			}
			children, _ := block["children"].([]interface{})
			for _, child := range children {
				node, ok := child.(map[string]interface{})
				if !ok {
					continue
				}
				if text, ok := node["text"].(string); ok && text != "" {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func filterResults(results []Result, normQuery string) []Result {
	matched := make([]Result, 0, len(results))
	for _, r := range results {
		if strings.Contains(r.normTitle, normQuery) || strings.Contains(r.normBody, normQuery) {
			matched = append(matched, r)
		}
	}
	return matched
}

// rankResults orders by: title starts with query, then title contains query,
// then newest publishedAt. The sort is stable so equal entries keep their
// collection order.
func rankResults(results []Result, normQuery string) {
	rank := func(r Result) int {
		if strings.HasPrefix(r.normTitle, normQuery) {
			return 0
		}
		if strings.Contains(r.normTitle, normQuery) {
			return 1
		}
		return 2
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := rank(results[i]), rank(results[j])
		if ri != rj {
			return ri < rj
		}
		// RFC3339 timestamps compare correctly as strings; empty sorts last.
		if results[i].PublishedAt != results[j].PublishedAt {
			return results[i].PublishedAt > results[j].PublishedAt
		}
		return false
	})
}

// stringField reads a string-valued field, unwrapping bilingual objects by
// preferring "ar" then "en".
func stringField(fields map[string]interface{}, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case map[string]interface{}:
		if ar, ok := v["ar"].(string); ok && ar != "" {
			return ar
		}
		if en, ok := v["en"].(string); ok {
			return en
		}
	}
	return ""
}

func firstString(fields map[string]interface{}, names ...string) string {
	for _, name := range names {
		if v := stringField(fields, name); v != "" {
			return v
		}
	}
	return ""
}
