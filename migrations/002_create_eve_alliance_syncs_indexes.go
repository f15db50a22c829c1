package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	Register(Migration{
		Version:     "002_create_eve_alliance_syncs_indexes",
		Description: "Create indexes for the eve_alliance_syncs run log",
		Up:          up002,
		Down:        down002,
	})
}

func up002(ctx context.Context, db *mongo.Database) error {
	syncs := db.Collection("eve_alliance_syncs")

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "started_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "started_at", Value: -1}}},
	}
	if _, err := syncs.Indexes().CreateMany(ctx, indexes); err != nil && !isIndexExistsError(err) {
		return err
	}
	return nil
}

func down002(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("eve_alliance_syncs").Indexes().DropAll(ctx); err != nil && !isNamespaceNotFound(err) {
		return err
	}
	return nil
}
