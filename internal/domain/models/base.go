// internal/domain/models/base.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base holds the store-managed fields every content record carries.
// None of these are client-controlled: the write path strips them from
// incoming bodies and the store stamps UpdatedAt itself.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Meta returns the embedded Base so generic stores can reach it through
// any record type that embeds it.
func (b *Base) Meta() *Base { return b }

// ServerManagedKeys are JSON body keys that identify or version a record.
// They are dropped from every write before merging.
var ServerManagedKeys = []string{
	"_id",
	"id",
	"__v",
	"documentId",
	"createdAt",
	"created_at",
	"updatedAt",
	"updated_at",
}

// Link is a labeled call-to-action target.
type Link struct {
	Label string `bson:"label" json:"label"`
	Href  string `bson:"href" json:"href"`
}

// Record constrains generic stores and resolvers to pointer types whose
// element embeds Base.
type Record[T any] interface {
	*T
	Meta() *Base
}
