package db

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recreo/errs"
	"recreo/models"
	"recreo/proximity"
)

// Entities is the repository shared by locations and events.
type Entities[T any, P interface {
	*T
	models.Entity
}] struct {
	coll    *mongo.Collection
	name    string
	dupeMsg string
}

func NewEntities[T any, P interface {
	*T
	models.Entity
}](coll *mongo.Collection, dupeMsg string) *Entities[T, P] {
	return &Entities[T, P]{coll: coll, name: coll.Name(), dupeMsg: dupeMsg}
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// Query runs the proximity pipeline for q.
func (e *Entities[T, P]) Query(ctx context.Context, q proximity.Query) ([]P, error) {
	return read(ctx, e.name, "query", func(ctx context.Context) ([]P, error) {
		cur, err := e.coll.Aggregate(ctx, proximity.Pipeline(q))
		if err != nil {
			return nil, err
		}
		var docs []T
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		out := make([]P, len(docs))
		for i := range docs {
			out[i] = P(&docs[i])
		}
		return out, nil
	})
}

// Count is over the whole collection.
func (e *Entities[T, P]) Count(ctx context.Context) (int64, error) {
	return read(ctx, e.name, "count", func(ctx context.Context) (int64, error) {
		return e.coll.CountDocuments(ctx, bson.D{})
	})
}

func (e *Entities[T, P]) Get(ctx context.Context, id primitive.ObjectID) (P, error) {
	return read(ctx, e.name, "get", func(ctx context.Context) (P, error) {
		doc := P(new(T))
		if err := e.coll.FindOne(ctx, byID(id)).Decode(doc); err != nil {
			var zero P
			return zero, err
		}
		return doc, nil
	})
}

func (e *Entities[T, P]) Insert(ctx context.Context, doc P) error {
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectID())
	}
	return write(ctx, e.name, "insert", func(ctx context.Context) error {
		_, err := e.coll.InsertOne(ctx, doc)
		return duplicate(err, e.dupeMsg)
	})
}

func (e *Entities[T, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return write(ctx, e.name, "delete", func(ctx context.Context) error {
		res, err := e.coll.DeleteOne(ctx, byID(id))
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return errs.ErrNoDocument
		}
		return nil
	})
}

// Distinct returns the sorted string values of field.
func (e *Entities[T, P]) Distinct(ctx context.Context, field string) ([]string, error) {
	return read(ctx, e.name, "distinct", func(ctx context.Context) ([]string, error) {
		raw, err := e.coll.Distinct(ctx, field, bson.D{})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		sort.Strings(out)
		return out, nil
	})
}

type threadDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Comments []models.Comment   `bson:"comments"`
}

func (e *Entities[T, P]) Thread(ctx context.Context, id primitive.ObjectID) (*models.Thread, error) {
	return read(ctx, e.name, "thread", func(ctx context.Context) (*models.Thread, error) {
		var doc threadDoc
		opts := options.FindOne().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "comments", Value: 1}})
		if err := e.coll.FindOne(ctx, byID(id), opts).Decode(&doc); err != nil {
			return nil, err
		}
		return &models.Thread{ID: doc.ID, Name: doc.Name, Comments: doc.Comments}, nil
	})
}

// update applies one update document and reports a missing target as
// ErrNoDocument.
func (e *Entities[T, P]) update(ctx context.Context, op string, filter, upd bson.D) error {
	return write(ctx, e.name, op, func(ctx context.Context) error {
		res, err := e.coll.UpdateOne(ctx, filter, upd)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errs.ErrNoDocument
		}
		return nil
	})
}

// PushComment prepends cm to the comment list.
func (e *Entities[T, P]) PushComment(ctx context.Context, id primitive.ObjectID, cm models.Comment) error {
	return e.update(ctx, "push_comment", byID(id), bson.D{{Key: "$push", Value: bson.D{
		{Key: "comments", Value: bson.D{
			{Key: "$each", Value: bson.A{cm}},
			{Key: "$position", Value: 0},
		}},
	}}})
}

// SetComment replaces the comment with cm.ID in place.
func (e *Entities[T, P]) SetComment(ctx context.Context, id primitive.ObjectID, cm models.Comment) error {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "comments._id", Value: cm.ID}}
	return e.update(ctx, "set_comment", filter, bson.D{{Key: "$set", Value: bson.D{{Key: "comments.$", Value: cm}}}})
}

func (e *Entities[T, P]) PullComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "comments._id", Value: commentID}}
	return e.update(ctx, "pull_comment", filter, bson.D{{Key: "$pull", Value: bson.D{
		{Key: "comments", Value: bson.D{{Key: "_id", Value: commentID}}},
	}}})
}

type ratingsDoc struct {
	Comments []struct {
		Rating int `bson:"rating"`
	} `bson:"comments"`
}

func (e *Entities[T, P]) CommentRatings(ctx context.Context, id primitive.ObjectID) ([]int, error) {
	return read(ctx, e.name, "comment_ratings", func(ctx context.Context) ([]int, error) {
		var doc ratingsDoc
		opts := options.FindOne().SetProjection(bson.D{{Key: "comments.rating", Value: 1}})
		if err := e.coll.FindOne(ctx, byID(id), opts).Decode(&doc); err != nil {
			return nil, err
		}
		out := make([]int, len(doc.Comments))
		for i, c := range doc.Comments {
			out[i] = c.Rating
		}
		return out, nil
	})
}

func (e *Entities[T, P]) SetRating(ctx context.Context, id primitive.ObjectID, rating int) error {
	return e.update(ctx, "set_rating", byID(id), bson.D{{Key: "$set", Value: bson.D{{Key: "rating", Value: rating}}}})
}
