package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes lists the indexes each collection needs. The 2dsphere indexes
// back $geoNear; the unique ones turn duplicates into key errors.
var Indexes = map[string][]mongo.IndexModel{
	LocationsCollection: {
		{Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}}},
	},
	EventsCollection: {
		{Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "nickname", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	SportsCollection: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for name, idx := range Indexes {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
