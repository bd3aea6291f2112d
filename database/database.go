package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"learnhub/internal/store"
)

// DBinstance connects to uri and verifies the connection with a ping.
func DBinstance(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}
	return client, nil
}

// Ping is used by the health check.
func Ping(ctx context.Context, client *mongo.Client) error {
	return errors.Wrap(client.Ping(ctx, readpref.Primary()), "mongo ping")
}

var uniqueIndexes = map[string]string{
	store.UniversityCoursesCollection: "slug",
	store.AdminsCollection:            "email",
	store.UsersCollection:             "email",
	store.QuizzesCollection:           "topicId",
}

// EnsureIndexes creates the unique indexes the application relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, field := range uniqueIndexes {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return errors.Wrapf(err, "create index %s.%s", coll, field)
		}
	}

	_, err := db.Collection(store.TDSSimulationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return errors.Wrap(err, "create index tdsSimulations.userId")
}
