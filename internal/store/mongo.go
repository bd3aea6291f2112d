package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ Repository[struct{}] = (*Mongo[struct{}])(nil)

func NewMongo[T any](coll *mongo.Collection, timeout time.Duration) *Mongo[T] {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mongo[T]{coll: coll, timeout: timeout}
}

func (m *Mongo[T]) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, m.timeout)
}

func (m *Mongo[T]) Insert(ctx context.Context, doc *T) error {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(ErrDuplicate, m.coll.Name())
		}
		return errors.Wrapf(err, "%s.InsertOne", m.coll.Name())
	}
	return nil
}

func (m *Mongo[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.FindOne(ctx, bson.M{"_id": id})
}

func (m *Mongo[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	var doc T
	if err := m.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.Wrap(ErrNotFound, m.coll.Name())
		}
		return nil, errors.Wrapf(err, "%s.FindOne", m.coll.Name())
	}
	return &doc, nil
}

func (m *Mongo[T]) Find(ctx context.Context, filter bson.M, opts ...FindOptions) ([]T, error) {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	o := mergeOptions(opts)
	findOptions := options.Find()
	if o.Skip > 0 {
		findOptions.SetSkip(o.Skip)
	}
	if o.Limit > 0 {
		findOptions.SetLimit(o.Limit)
	}
	byID := 1
	if o.Newest {
		byID = -1
	}
	if o.SortBy != "" {
		findOptions.SetSort(bson.D{{Key: o.SortBy, Value: 1}, {Key: "_id", Value: byID}})
	} else {
		findOptions.SetSort(bson.D{{Key: "_id", Value: byID}})
	}
	if filter == nil {
		filter = bson.M{}
	}

	cur, err := m.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.Find", m.coll.Name())
	}
	docs := []T{}
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "%s.Find", m.coll.Name())
	}
	return docs, nil
}

func (m *Mongo[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	n, err := m.coll.CountDocuments(ctx, filter)
	return n, errors.Wrapf(err, "%s.CountDocuments", m.coll.Name())
}

func (m *Mongo[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	res, err := m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(ErrDuplicate, m.coll.Name())
		}
		return errors.Wrapf(err, "%s.ReplaceOne", m.coll.Name())
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, m.coll.Name())
	}
	return nil
}

func (m *Mongo[T]) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrapf(err, "%s.UpdateOne", m.coll.Name())
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, m.coll.Name())
	}
	return nil
}

func (m *Mongo[T]) Set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return m.update(ctx, id, bson.M{"$set": fields})
}

func (m *Mongo[T]) Push(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return m.update(ctx, id, bson.M{"$push": bson.M{field: value}})
}

func (m *Mongo[T]) Pull(ctx context.Context, field string, value interface{}) (int64, error) {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	res, err := m.coll.UpdateMany(ctx, bson.M{field: value}, bson.M{"$pull": bson.M{field: value}})
	if err != nil {
		return 0, errors.Wrapf(err, "%s.UpdateMany", m.coll.Name())
	}
	return res.ModifiedCount, nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "%s.DeleteOne", m.coll.Name())
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, m.coll.Name())
	}
	return nil
}

func (m *Mongo[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := m.ctx(ctx)
	defer cancel()

	res, err := m.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Wrapf(err, "%s.DeleteMany", m.coll.Name())
	}
	return res.DeletedCount, nil
}
