// internal/webhook/handler_test.go
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"manara-backend/internal/common/config"
	"manara-backend/internal/common/database"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/models"
	"manara-backend/internal/notification"
)

// ==========================
// Mock Implementations
// ==========================

// MockContentStore implements store.ContentStore with function fields and
// records every notification it is asked to create.
type MockContentStore struct {
	mu      sync.Mutex
	Created []*models.Notification

	FetchDocumentFunc       func(ctx context.Context, id string, projection []string) (*models.Document, error)
	ListRecipientEmailsFunc func(ctx context.Context) ([]string, error)
	CreateNotificationFunc  func(ctx context.Context, n *models.Notification) (string, error)

	fetchCalls int
}

func (m *MockContentStore) FetchDocument(ctx context.Context, id string, projection []string) (*models.Document, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.FetchDocumentFunc != nil {
		return m.FetchDocumentFunc(ctx, id, projection)
	}
	return nil, nil
}

func (m *MockContentStore) ListRecipientEmails(ctx context.Context) ([]string, error) {
	if m.ListRecipientEmailsFunc != nil {
		return m.ListRecipientEmailsFunc(ctx)
	}
	return []string{"a@example.com", "b@example.com"}, nil
}

func (m *MockContentStore) CreateNotification(ctx context.Context, n *models.Notification) (string, error) {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, n)
	return n.ID, nil
}

func (m *MockContentStore) FetchUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (m *MockContentStore) PatchUser(ctx context.Context, id string, patch map[string]interface{}) error {
	return nil
}

func (m *MockContentStore) CreateDocument(ctx context.Context, doc map[string]interface{}) (string, error) {
	return "", nil
}

func (m *MockContentStore) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

func (m *MockContentStore) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

func (m *MockContentStore) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(environment string) config.Config {
	cfg := config.Config{}
	cfg.App.Name = "manara-backend"
	cfg.App.Environment = environment
	cfg.Webhook.Secret = testSecret
	cfg.Webhook.ToleranceSeconds = 300
	return cfg
}

func episodeDocument(id string) *models.Document {
	published := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Document{
		ID:          id,
		Type:        models.TypeEpisode,
		Title:       models.LocalizedString{Ar: "الحلقة الأولى", En: "Episode One"},
		Slug:        "episode-one",
		Image:       "https://cdn.example.com/ep.jpg",
		PublishedAt: &published,
	}
}

type handlerFixture struct {
	handler *Handler
	store   *MockContentStore
}

func newTestHandler(t *testing.T, environment string, dedup DedupStore) *handlerFixture {
	mockStore := &MockContentStore{
		FetchDocumentFunc: func(ctx context.Context, id string, projection []string) (*models.Document, error) {
			return episodeDocument(id), nil
		},
	}

	cfg := createTestConfig(environment)
	log := logger.NewTestLogger(t)
	writer := notification.NewWriter(mockStore, cfg.Notifications, log)
	verifier := NewVerifier(cfg.Webhook.Secret, cfg.Webhook.ToleranceSeconds)

	return &handlerFixture{
		handler: NewHandler(cfg, verifier, dedup, mockStore, writer, log),
		store:   mockStore,
	}
}

func newMiniredisDedup(t *testing.T) DedupStore {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{
		Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDedupStore(client, 60)
}

func signedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/sanity/webhook", bytes.NewBufferString(body))
	req.Header.Set(SignatureHeader, Sign(testSecret, time.Now(), []byte(body)))
	return req
}

func decodeSummary(t *testing.T, rec *httptest.ResponseRecorder) Summary {
	var summary Summary
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	return summary
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandlePost_SingleCreateFansOutPerRecipient(t *testing.T) {
	f := newTestHandler(t, "production", nil)

	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, signedRequest(`{"_id":"ep-1","_type":"episode"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeSummary(t, rec)
	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, "episode", summary.DocumentType)
	assert.Equal(t, "create", summary.Operation)

	// One notification per recipient, all describing the same document.
	assert.Equal(t, 2, f.store.CreatedCount())
	for _, n := range f.store.Created {
		assert.Equal(t, "ep-1", n.RelatedID)
		assert.Equal(t, models.TypeEpisode, n.RelatedType)
		assert.Equal(t, models.SeverityInfo, n.Type)
		assert.Equal(t, "/episodes/episode-one", n.ActionURL)
		assert.False(t, n.IsRead)
		assert.NotEmpty(t, n.Title.Ar)
		assert.NotEmpty(t, n.Title.En)
	}
	recipients := []string{f.store.Created[0].RecipientEmail, f.store.Created[1].RecipientEmail}
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, recipients)
}

func TestHandlePost_DeleteSkipsFetchAndOmitsAction(t *testing.T) {
	f := newTestHandler(t, "production", nil)

	body := `{"operation":"delete","ids":["ep-1"],"_type":"episode"}`
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, signedRequest(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeSummary(t, rec)
	assert.Equal(t, 1, summary.SuccessCount)

	// The document is gone, so nothing may be fetched.
	assert.Equal(t, 0, f.store.FetchCalls())
	assert.Equal(t, 2, f.store.CreatedCount())
	for _, n := range f.store.Created {
		assert.Equal(t, models.SeverityWarning, n.Type)
		assert.Empty(t, n.ActionURL)
		assert.Empty(t, n.ActionText.En)
		assert.Equal(t, "ep-1", n.RelatedID)
	}
}

func TestHandlePost_UnrecognizedPayloadAcknowledgedWithoutProcessing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"unknown fields", `{"projectId":"abc","dataset":"production"}`},
		{"not json", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestHandler(t, "production", nil)

			rec := httptest.NewRecorder()
			f.handler.HandlePost(rec, signedRequest(tt.body))

			assert.Equal(t, http.StatusOK, rec.Code)
			summary := decodeSummary(t, rec)
			assert.True(t, summary.Success)
			assert.Equal(t, "No documents to process", summary.Message)
			assert.Equal(t, 0, summary.Processed)
			assert.Equal(t, 0, f.store.CreatedCount())
			assert.Equal(t, 0, f.store.FetchCalls())
		})
	}
}

func TestHandlePost_BatchContinuesPastFailures(t *testing.T) {
	f := newTestHandler(t, "production", nil)
	f.store.FetchDocumentFunc = func(ctx context.Context, id string, projection []string) (*models.Document, error) {
		if id == "ep-2" {
			return nil, nil // missing document
		}
		return episodeDocument(id), nil
	}

	body := `{"operation":"update","ids":["ep-1","ep-2","ep-3"],"_type":"episode"}`
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, signedRequest(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeSummary(t, rec)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	// Two successful documents, two recipients each.
	assert.Equal(t, 4, f.store.CreatedCount())
}

func TestHandlePost_UnknownTypeCountsAsError(t *testing.T) {
	f := newTestHandler(t, "production", nil)

	body := `{"_id":"x-1","_type":"unknownThing"}`
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, signedRequest(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeSummary(t, rec)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.Equal(t, 0, f.store.CreatedCount())
}

// ==========================
// Signature Enforcement Tests
// ==========================

func TestHandlePost_RejectsBadSignatures(t *testing.T) {
	body := `{"_id":"ep-1","_type":"episode"}`

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"tampered body", Sign(testSecret, time.Now(), []byte(`{"_id":"other"}`))},
		{"stale timestamp", Sign(testSecret, time.Now().Add(-10*time.Minute), []byte(body))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestHandler(t, "production", nil)

			req := httptest.NewRequest(http.MethodPost, "/api/sanity/webhook", bytes.NewBufferString(body))
			if tt.header != "" {
				req.Header.Set(SignatureHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			f.handler.HandlePost(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, 0, f.store.CreatedCount())
		})
	}
}

func TestHandlePost_DevelopmentSkipsVerification(t *testing.T) {
	f := newTestHandler(t, "development", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sanity/webhook",
		bytes.NewBufferString(`{"_id":"ep-1","_type":"episode"}`))
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.store.CreatedCount())
}

// ==========================
// Idempotency Tests
// ==========================

func TestHandlePost_KeylessRedeliveryDuplicatesNotifications(t *testing.T) {
	f := newTestHandler(t, "production", newMiniredisDedup(t))

	body := `{"_id":"ep-1","_type":"episode"}`
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.handler.HandlePost(rec, signedRequest(body))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// No idempotency key means no dedup; both deliveries fan out.
	assert.Equal(t, 4, f.store.CreatedCount())
}

func TestHandlePost_IdempotencyKeySkipsRedelivery(t *testing.T) {
	f := newTestHandler(t, "production", newMiniredisDedup(t))

	body := `{"_id":"ep-1","_type":"episode"}`

	first := signedRequest(body)
	first.Header.Set("idempotency-key", "delivery-42")
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.store.CreatedCount())

	second := signedRequest(body)
	second.Header.Set("idempotency-key", "delivery-42")
	rec = httptest.NewRecorder()
	f.handler.HandlePost(rec, second)

	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeSummary(t, rec)
	assert.True(t, summary.Duplicate)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 2, f.store.CreatedCount(), "duplicate delivery must not write again")
}

func TestHandlePost_DistinctKeysBothProcess(t *testing.T) {
	f := newTestHandler(t, "production", newMiniredisDedup(t))

	body := `{"_id":"ep-1","_type":"episode"}`
	for _, key := range []string{"delivery-1", "delivery-2"} {
		req := signedRequest(body)
		req.Header.Set("idempotency-key", key)
		rec := httptest.NewRecorder()
		f.handler.HandlePost(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 4, f.store.CreatedCount())
}

// ==========================
// Edge Cases
// ==========================

func TestHandlePost_MutationsSummaryReflectsLastEntry(t *testing.T) {
	f := newTestHandler(t, "production", nil)

	body := `{"mutations":[
		{"mutation":"create","result":{"_id":"ep-1","_type":"episode"}},
		{"mutation":"update","result":{"_id":"ar-1","_type":"article"}}
	]}`
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, signedRequest(body))

	summary := decodeSummary(t, rec)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, "article", summary.DocumentType)
	assert.Equal(t, "update", summary.Operation)
}

func TestHandleGet_EchoesProviderHeaders(t *testing.T) {
	f := newTestHandler(t, "production", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sanity/webhook", nil)
	req.Header.Set("sanity-webhook-id", "hook-7")
	rec := httptest.NewRecorder()
	f.handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	headers, ok := resp["headers"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "hook-7", headers["sanity-webhook-id"])
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandlePost_SingleEvent(b *testing.B) {
	mockStore := &MockContentStore{
		FetchDocumentFunc: func(ctx context.Context, id string, projection []string) (*models.Document, error) {
			return episodeDocument(id), nil
		},
		CreateNotificationFunc: func(ctx context.Context, n *models.Notification) (string, error) {
			return n.ID, nil
		},
	}
	cfg := createTestConfig("development")
	log := logger.NewNoOpLogger()
	writer := notification.NewWriter(mockStore, cfg.Notifications, log)
	h := NewHandler(cfg, NewVerifier(cfg.Webhook.Secret, 300), nil, mockStore, writer, log)

	body := []byte(`{"_id":"ep-1","_type":"episode"}`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/sanity/webhook", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandlePost(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkParseEvent_Mutations(b *testing.B) {
	var buf bytes.Buffer
	buf.WriteString(`{"mutations":[`)
	for i := 0; i < 20; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"mutation":"update","result":{"_id":"doc-%d","_type":"episode"}}`, i)
	}
	buf.WriteString(`]}`)
	body := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		event := ParseEvent(body)
		if len(event.Changes) != 20 {
			b.Fatal("unexpected parse result")
		}
	}
}
