// internal/app/store/slugged/sluggedstore.go
package sluggedstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no local document has the requested slug.
var ErrNotFound = errors.New("slug not found")

// Sluggable is implemented by pointers to slug-keyed content types.
type Sluggable[T any] interface {
	models.Record[T]
	SlugValue() string
}

// Store reads the local copies of slug-keyed content. The CMS is the
// store of record; these documents are a closed set written only by seeding.
type Store[T any, PT Sluggable[T]] struct {
	p    mongoconn.Provider
	coll string
}

// New creates a slug-keyed store over coll.
func New[T any, PT Sluggable[T]](p mongoconn.Provider, coll string) *Store[T, PT] {
	return &Store[T, PT]{p: p, coll: coll}
}

// Collection returns the backing collection name.
func (s *Store[T, PT]) Collection() string { return s.coll }

func (s *Store[T, PT]) c(ctx context.Context) (*mongo.Collection, error) {
	db, err := s.p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(s.coll), nil
}

// GetBySlug returns the document whose slug matches exactly (case-sensitive).
func (s *Store[T, PT]) GetBySlug(ctx context.Context, slug string) (T, error) {
	var rec T
	c, err := s.c(ctx)
	if err != nil {
		return rec, err
	}
	err = c.FindOne(ctx, bson.M{"slug": slug}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("%s: find %q: %w", s.coll, slug, err)
	}
	return rec, nil
}

// List returns every local document ordered by slug.
func (s *Store[T, PT]) List(ctx context.Context) ([]T, error) {
	c, err := s.c(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", s.coll, err)
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: list: %w", s.coll, err)
	}
	return out, nil
}

// Exists checks if a document with the given slug exists.
func (s *Store[T, PT]) Exists(ctx context.Context, slug string) (bool, error) {
	c, err := s.c(ctx)
	if err != nil {
		return false, err
	}
	count, err := c.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Seed inserts rec unless a document with the same slug is already present.
// It reports whether a document was written. Existing documents are never
// overwritten.
func (s *Store[T, PT]) Seed(ctx context.Context, rec T) (bool, error) {
	slug := PT(&rec).SlugValue()
	if slug == "" {
		return false, errors.New("seed: empty slug")
	}
	now := time.Now().UTC()
	meta := PT(&rec).Meta()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	c, err := s.c(ctx)
	if err != nil {
		return false, err
	}
	res, err := c.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$setOnInsert": rec},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("%s: seed %q: %w", s.coll, slug, err)
	}
	return res.UpsertedCount > 0, nil
}
