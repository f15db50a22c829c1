package migrations

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	Register(Migration{
		Version:     "001_create_eve_alliances_indexes",
		Description: "Create indexes for the eve_alliances snapshot collection",
		Up:          up001,
		Down:        down001,
	})
}

func up001(ctx context.Context, db *mongo.Database) error {
	alliances := db.Collection("eve_alliances")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "alliance_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sync_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "ticker", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "member_corps.corporation_id", Value: 1}},
		},
	}

	opts := options.CreateIndexes().SetMaxTime(30 * time.Second)
	if _, err := alliances.Indexes().CreateMany(ctx, indexes, opts); err != nil && !isIndexExistsError(err) {
		return err
	}
	return nil
}

func down001(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("eve_alliances").Indexes().DropAll(ctx); err != nil && !isNamespaceNotFound(err) {
		return err
	}
	return nil
}
