// internal/app/store/content/contentstore.go
package contentstore

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

// Store holds the single live record of one singleton content type.
//
// Lookups always take the most recently updated document so that a
// duplicate left behind by two racing first reads is harmless: writes
// replace the record that reads return.
type Store[T any, PT models.Record[T]] struct {
	p        mongoconn.Provider
	coll     string
	defaults func() T
}

// New creates a singleton store over coll. defaults builds the record
// materialized on first read.
func New[T any, PT models.Record[T]](p mongoconn.Provider, coll string, defaults func() T) *Store[T, PT] {
	return &Store[T, PT]{p: p, coll: coll, defaults: defaults}
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

var latestFirst = options.FindOne().SetSort(bson.D{
	{Key: "updated_at", Value: -1},
	{Key: "_id", Value: -1},
})

// Current returns the live record. found is false when the collection is empty.
func (s *Store[T, PT]) Current(ctx context.Context) (rec T, found bool, err error) {
	c, err := s.c(ctx)
	if err != nil {
		return rec, false, err
	}
	err = c.FindOne(ctx, bson.M{}, latestFirst).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("%s: find current: %w", s.coll, err)
	}
	return rec, true, nil
}

// LoadOrCreate returns the live record, persisting the defaults first if
// there is none yet. created reports whether this call inserted it.
func (s *Store[T, PT]) LoadOrCreate(ctx context.Context) (rec T, created bool, err error) {
	rec, found, err := s.Current(ctx)
	if err != nil || found {
		return rec, false, err
	}

	rec = s.Defaults()
	now := time.Now().UTC()
	meta := PT(&rec).Meta()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	c, err := s.c(ctx)
	if err != nil {
		return rec, false, err
	}
	if _, err := c.InsertOne(ctx, rec); err != nil {
		return rec, false, fmt.Errorf("%s: insert defaults: %w", s.coll, err)
	}
	return rec, true, nil
}

// Defaults returns a fresh copy of the declared default record.
func (s *Store[T, PT]) Defaults() T {
	if s.defaults == nil {
		var zero T
		return zero
	}
	return s.defaults()
}

// Replace writes rec as the live record, inserting it if its ID is new.
// UpdatedAt is stamped here; a zero ID or CreatedAt is filled in.
func (s *Store[T, PT]) Replace(ctx context.Context, rec T) (T, error) {
	now := time.Now().UTC()
	meta := PT(&rec).Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now

	c, err := s.c(ctx)
	if err != nil {
		return rec, err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := c.ReplaceOne(ctx, bson.M{"_id": meta.ID}, rec, opts); err != nil {
		return rec, fmt.Errorf("%s: replace: %w", s.coll, err)
	}
	return rec, nil
}

// Count returns how many documents the collection holds. Tests use it to
// check that reads never create a second record.
func (s *Store[T, PT]) Count(ctx context.Context) (int64, error) {
	c, err := s.c(ctx)
	if err != nil {
		return 0, err
	}
	return c.CountDocuments(ctx, bson.M{})
}
