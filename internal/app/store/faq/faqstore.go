// internal/app/store/faq/faqstore.go
package faqstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the faq_questions collection.
type Store struct {
	p mongoconn.Provider
}

// New creates a new FAQ store.
func New(p mongoconn.Provider) *Store {
	return &Store{p: p}
}

func (s *Store) c(ctx context.Context) (*mongo.Collection, error) {
	db, err := s.p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(models.CollFAQ), nil
}

// List returns every question in display order (order, then creation time).
func (s *Store) List(ctx context.Context) ([]models.FAQQuestion, error) {
	c, err := s.c(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("faq: list: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.FAQQuestion{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("faq: list: %w", err)
	}
	return out, nil
}

// Add appends a question. ID and timestamps are assigned here.
func (s *Store) Add(ctx context.Context, q models.FAQQuestion) (models.FAQQuestion, error) {
	now := time.Now().UTC()
	q.ID = primitive.NewObjectID()
	q.CreatedAt = now
	q.UpdatedAt = now

	c, err := s.c(ctx)
	if err != nil {
		return q, err
	}
	if _, err := c.InsertOne(ctx, q); err != nil {
		return q, fmt.Errorf("faq: insert: %w", err)
	}
	return q, nil
}

// Count returns the number of stored questions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	c, err := s.c(ctx)
	if err != nil {
		return 0, err
	}
	return c.CountDocuments(ctx, bson.M{})
}

// DedupeResult reports what a duplicate sweep did.
type DedupeResult struct {
	DuplicatesRemoved int64 `json:"duplicatesRemoved"`
	Remaining         int64 `json:"remaining"`
}

type faqKeyRow struct {
	ID       primitive.ObjectID `bson:"_id"`
	Question string             `bson:"question"`
}

// Dedupe removes every question whose normalized text repeats an earlier
// one, keeping the first by creation order (_id breaks ties). All marked
// records go in a single DeleteMany. Running it again removes nothing.
func (s *Store) Dedupe(ctx context.Context) (DedupeResult, error) {
	c, err := s.c(ctx)
	if err != nil {
		return DedupeResult{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "question": 1})
	cur, err := c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return DedupeResult{}, fmt.Errorf("faq: load for dedupe: %w", err)
	}
	var rows []faqKeyRow
	if err := cur.All(ctx, &rows); err != nil {
		return DedupeResult{}, fmt.Errorf("faq: load for dedupe: %w", err)
	}

	dupes := duplicateIDs(rows)
	total := int64(len(rows))
	if len(dupes) == 0 {
		return DedupeResult{Remaining: total}, nil
	}

	res, err := c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": dupes}})
	if err != nil {
		return DedupeResult{}, fmt.Errorf("faq: delete duplicates: %w", err)
	}
	return DedupeResult{
		DuplicatesRemoved: res.DeletedCount,
		Remaining:         total - res.DeletedCount,
	}, nil
}

// duplicateIDs returns the IDs of rows whose key was already seen earlier in
// rows. rows must already be in creation order.
func duplicateIDs(rows []faqKeyRow) []primitive.ObjectID {
	seen := make(map[string]struct{}, len(rows))
	var dupes []primitive.ObjectID
	for _, r := range rows {
		key := normalize.FAQKey(r.Question)
		if _, ok := seen[key]; ok {
			dupes = append(dupes, r.ID)
			continue
		}
		seen[key] = struct{}{}
	}
	return dupes
}
