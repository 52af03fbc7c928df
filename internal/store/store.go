// internal/store/store.go
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manara-backend/internal/common/database"
	apperrors "manara-backend/internal/common/errors"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/models"
)

// ContentStore is the document-level API over the content database. All
// documents, regardless of type, live in one collection keyed by _id with a
// _type discriminator.
type ContentStore interface {
	FetchDocument(ctx context.Context, id string, projection []string) (*models.Document, error)
	ListRecipientEmails(ctx context.Context) ([]string, error)
	CreateNotification(ctx context.Context, n *models.Notification) (string, error)
	FetchUserByEmail(ctx context.Context, email string) (*models.User, error)
	PatchUser(ctx context.Context, id string, patch map[string]interface{}) error
	CreateDocument(ctx context.Context, doc map[string]interface{}) (string, error)
	DeleteDocument(ctx context.Context, id string) error
}

// MongoStore implements ContentStore over a single MongoDB collection.
type MongoStore struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoStore(client *database.MongoClient, log logger.Logger) *MongoStore {
	return &MongoStore{
		coll:   client.Documents(),
		logger: log,
	}
}

// FetchDocument loads a document by id with an optional field projection.
// A missing document is (nil, nil), not an error; callers decide whether
// absence is a failure.
func (s *MongoStore) FetchDocument(ctx context.Context, id string, projection []string) (*models.Document, error) {
	opts := options.FindOne()
	if len(projection) > 0 {
		proj := bson.M{"_id": 1, "_type": 1}
		for _, field := range projection {
			proj[field] = 1
		}
		opts.SetProjection(proj)
	}

	var doc models.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("fetchDocument", err)
	}
	return &doc, nil
}

// ListRecipientEmails returns the distinct non-empty emails of user documents.
func (s *MongoStore) ListRecipientEmails(ctx context.Context) ([]string, error) {
	filter := bson.M{
		"_type": models.TypeUser,
		"email": bson.M{"$exists": true, "$nin": bson.A{"", nil}},
	}

	values, err := s.coll.Distinct(ctx, "email", filter)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("listRecipientEmails", err)
	}

	emails := make([]string, 0, len(values))
	for _, v := range values {
		if email, ok := v.(string); ok && email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

// CreateNotification inserts a notification document and returns its id.
func (s *MongoStore) CreateNotification(ctx context.Context, n *models.Notification) (string, error) {
	n.DocType = models.TypeNotification
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return "", apperrors.NewNotificationWriteFailedError(n.RecipientEmail, err)
	}
	return n.ID, nil
}

// FetchUserByEmail loads the user document for an email, nil when absent.
func (s *MongoStore) FetchUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_type": models.TypeUser, "email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("fetchUserByEmail", err)
	}
	return &user, nil
}

// PatchUser applies a partial update to a user document.
func (s *MongoStore) PatchUser(ctx context.Context, id string, patch map[string]interface{}) error {
	update := bson.M{}
	for k, v := range patch {
		update[k] = v
	}
	update["updatedAt"] = time.Now().UTC()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "_type": models.TypeUser},
		bson.M{"$set": update},
	)
	if err != nil {
		return apperrors.NewStoreQueryFailedError("patchUser", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NewDocumentNotFoundError(id)
	}
	return nil
}

// CreateDocument inserts an arbitrary document, returning the stored _id.
func (s *MongoStore) CreateDocument(ctx context.Context, doc map[string]interface{}) (string, error) {
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", apperrors.NewStoreQueryFailedError("createDocument", err)
	}
	if id, ok := doc["_id"].(string); ok {
		return id, nil
	}
	if id, ok := res.InsertedID.(string); ok {
		return id, nil
	}
	return "", nil
}

// DeleteDocument removes a document by id. Deleting an absent document is
// not an error.
func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperrors.NewStoreQueryFailedError("deleteDocument", err)
	}
	return nil
}
