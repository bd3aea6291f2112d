// Package store persists documents. Repository is implemented on top of a
// MongoDB collection and, for tests and local runs, in memory.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
	ErrDuplicate = errors.New("duplicate key")
)

// FindOptions controls paging. Results are ordered by _id, oldest first
// unless Newest is set. SortBy orders by that field ascending before paging,
// with _id breaking ties.
type FindOptions struct {
	Skip   int64
	Limit  int64
	Newest bool
	SortBy string
}

// Repository is a typed view over one collection. Documents must carry an
// "_id" set by the caller before Insert.
//
// Filters are plain bson.M documents. Both implementations understand field
// equality (an array field matches when it contains the value), dotted paths
// and the $in operator.
type Repository[T any] interface {
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	Find(ctx context.Context, filter bson.M, opts ...FindOptions) ([]T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	// Set applies a $set of the given fields.
	Set(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	// Push appends value to the array field of one document.
	Push(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error
	// Pull removes value from the array field of every document holding it
	// and reports how many documents changed.
	Pull(ctx context.Context, field string, value interface{}) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", hex)
	}
	return id, nil
}

// IDs builds an {"_id": {"$in": ids}} filter.
func IDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func mergeOptions(opts []FindOptions) FindOptions {
	var o FindOptions
	for _, opt := range opts {
		if opt.Skip > 0 {
			o.Skip = opt.Skip
		}
		if opt.Limit > 0 {
			o.Limit = opt.Limit
		}
		if opt.SortBy != "" {
			o.SortBy = opt.SortBy
		}
		o.Newest = o.Newest || opt.Newest
	}
	return o
}
