package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recreo/errs"
	"recreo/models"
)

// Events adds sequential ids and participants to the entity repository.
type Events struct {
	*Entities[models.Event, *models.Event]
}

func (e *Events) SeqIDs(ctx context.Context) ([]int, error) {
	return read(ctx, e.name, "seq_ids", func(ctx context.Context) ([]int, error) {
		opts := options.Find().SetProjection(bson.D{{Key: "id", Value: 1}})
		cur, err := e.coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return nil, err
		}
		var docs []struct {
			SeqID int `bson:"id"`
		}
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		ids := make([]int, len(docs))
		for i, d := range docs {
			ids[i] = d.SeqID
		}
		return ids, nil
	})
}

func (e *Events) SaveDetails(ctx context.Context, ev *models.Event) error {
	return e.update(ctx, "save_details", byID(ev.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: ev.Name},
		{Key: "description", Value: ev.Description},
		{Key: "type", Value: ev.Type},
		{Key: "locationId", Value: ev.LocationID},
		{Key: "location", Value: ev.Location},
		{Key: "coordinates", Value: ev.Coordinates},
		{Key: "sports", Value: ev.Sports},
		{Key: "startDate", Value: ev.StartDate},
		{Key: "endDate", Value: ev.EndDate},
		{Key: "interval", Value: ev.Interval},
		{Key: "category", Value: ev.Category},
		{Key: "locationAddName", Value: ev.LocationAddName},
	}}})
}

// AddUser adds nickname with set semantics; added is false when it was
// already present.
func (e *Events) AddUser(ctx context.Context, id primitive.ObjectID, nickname string) (added bool, err error) {
	err = write(ctx, e.name, "add_user", func(ctx context.Context) error {
		res, err := e.coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$addToSet", Value: bson.D{{Key: "users", Value: nickname}}}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errs.ErrNoDocument
		}
		added = res.ModifiedCount > 0
		return nil
	})
	return added, err
}

func (e *Events) RemoveUser(ctx context.Context, id primitive.ObjectID, nickname string) error {
	return e.update(ctx, "remove_user", byID(id), bson.D{{Key: "$pull", Value: bson.D{{Key: "users", Value: nickname}}}})
}
