package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base holds the identity and timestamps every stored document carries.
type Base struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Meta gives generic code access to the embedded Base.
func (b *Base) Meta() *Base { return b }

// Init assigns a fresh ObjectID and stamps both timestamps.
func (b *Base) Init(now time.Time) {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now.UTC()
	b.UpdatedAt = b.CreatedAt
}

func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
