package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recreo/errs"
	"recreo/models"
	"recreo/proximity"
)

type Users struct {
	coll *mongo.Collection
}

func (u *Users) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return write(ctx, UsersCollection, "create", func(ctx context.Context) error {
		_, err := u.coll.InsertOne(ctx, user)
		if duplicateOn(err, "nickname_1") {
			return errs.Conflict(models.DuplicateNicknameMsg)
		}
		return duplicate(err, models.DuplicateEmailMsg)
	})
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return read(ctx, UsersCollection, "find_by_email", func(ctx context.Context) (*models.User, error) {
		var user models.User
		if err := u.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user); err != nil {
			return nil, err
		}
		return &user, nil
	})
}

type Sports struct {
	coll *mongo.Collection
}

func (s *Sports) Insert(ctx context.Context, sp *models.Sport) error {
	if sp.ID.IsZero() {
		sp.ID = primitive.NewObjectID()
	}
	return write(ctx, SportsCollection, "insert", func(ctx context.Context) error {
		_, err := s.coll.InsertOne(ctx, sp)
		return duplicate(err, "Sport '"+sp.Name+"' already exists.")
	})
}

func (s *Sports) Find(ctx context.Context, f proximity.Filters, limit int) ([]models.Sport, error) {
	return read(ctx, SportsCollection, "find", func(ctx context.Context) ([]models.Sport, error) {
		opts := options.Find()
		if limit > 0 {
			opts.SetLimit(int64(limit))
		}
		cur, err := s.coll.Find(ctx, f.Match(), opts)
		if err != nil {
			return nil, err
		}
		out := []models.Sport{}
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}
