// Package db is the MongoDB document store: connection, index bootstrap
// and the repositories behind every service.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recreo/config"
	"recreo/logging"
	"recreo/models"
)

const (
	LocationsCollection = "Locations"
	EventsCollection    = "Events"
	UsersCollection     = "Users"
	SportsCollection    = "Sports"
)

type Store struct {
	Client    *mongo.Client
	Locations *Entities[models.Location, *models.Location]
	Events    *Events
	Users     *Users
	Sports    *Sports
}

// Connect dials MongoDB, pings it and ensures the indexes exist.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := client.Database(cfg.Database)
	if err := EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logging.Info().Str("database", cfg.Database).Msg("mongo connected")

	return &Store{
		Client:    client,
		Locations: NewEntities[models.Location](database.Collection(LocationsCollection), "Location already exists."),
		Events:    &Events{Entities: NewEntities[models.Event](database.Collection(EventsCollection), "Event id already taken.")},
		Users:     &Users{coll: database.Collection(UsersCollection)},
		Sports:    &Sports{coll: database.Collection(SportsCollection)},
	}, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
