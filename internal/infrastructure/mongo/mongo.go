// Package mongostore persists audit records in a MongoDB collection,
// matching the service's original deployment target. All BSON mapping
// stays inside this package.
package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client *mongo.Client
	coll   *mongo.Collection
}

func Connect(ctx context.Context, uri, database, collection string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &DB{
		Client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (d *DB) Close(ctx context.Context) error { return d.Client.Disconnect(ctx) }

func (d *DB) Ping(ctx context.Context) error { return d.Client.Ping(ctx, nil) }
