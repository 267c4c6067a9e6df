package memstore

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/models"
)

type Locations = Collection[models.Location, *models.Location]

func NewLocations() *Locations {
	return NewCollection[models.Location, *models.Location]()
}

// Events adds participant and sequential-id handling to the generic
// collection.
type Events struct {
	*Collection[models.Event, *models.Event]
}

func NewEvents() *Events {
	return &Events{Collection: NewCollection[models.Event, *models.Event]()}
}

// Insert rejects a duplicate sequential id the way the unique index does.
func (e *Events) Insert(ctx context.Context, ev *models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.docs {
		if e.docs[i].SeqID == ev.SeqID || (!ev.ID.IsZero() && e.docs[i].ID == ev.ID) {
			return errs.Conflict("Event id already taken.")
		}
	}
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	e.docs = append(e.docs, *clone[models.Event, *models.Event](ev))
	return nil
}

func (e *Events) SeqIDs(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]int, 0, len(e.docs))
	for i := range e.docs {
		ids = append(ids, e.docs[i].SeqID)
	}
	return ids, nil
}

// SaveDetails writes the editable fields of ev.
func (e *Events) SaveDetails(ctx context.Context, ev *models.Event) error {
	return e.update(ctx, ev.ID, func(doc *models.Event) error {
		doc.Name = ev.Name
		doc.Description = ev.Description
		doc.Type = ev.Type
		doc.LocationID = ev.LocationID
		doc.Location = ev.Location
		doc.Coordinates = slices.Clone(ev.Coordinates)
		doc.Sports = slices.Clone(ev.Sports)
		doc.StartDate = ev.StartDate
		doc.EndDate = ev.EndDate
		doc.Interval = ev.Interval
		doc.Category = slices.Clone(ev.Category)
		doc.LocationAddName = ev.LocationAddName
		return nil
	})
}

// AddUser adds nickname unless present; added is false for a duplicate.
func (e *Events) AddUser(ctx context.Context, id primitive.ObjectID, nickname string) (added bool, err error) {
	err = e.update(ctx, id, func(doc *models.Event) error {
		if doc.HasUser(nickname) {
			return nil
		}
		doc.Users = append(slices.Clone(doc.Users), nickname)
		added = true
		return nil
	})
	return added, err
}

func (e *Events) RemoveUser(ctx context.Context, id primitive.ObjectID, nickname string) error {
	return e.update(ctx, id, func(doc *models.Event) error {
		doc.Users = slices.DeleteFunc(slices.Clone(doc.Users), func(u string) bool { return u == nickname })
		return nil
	})
}
