package events

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/mq"
)

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Type) == "" {
		return errs.Validation("Body parameters 'name', 'description' and 'type' are required.")
	}
	if len(in.Sports) == 0 || len(in.Category) == 0 {
		return errs.Validation("Body parameters 'sports' and 'category' must not be empty.")
	}
	return nil
}

// location resolves locationId to the location whose coordinates the
// event inherits.
func (s *Service) location(ctx context.Context, raw string) (*models.Location, error) {
	if raw == "" {
		return nil, errs.Validation("Body parameter 'locationId' is required.")
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, errs.NotFound(LocationMissing)
	}
	loc, err := s.locations.Get(ctx, oid)
	if errors.Is(err, errs.ErrNoDocument) {
		return nil, errs.NotFound(LocationMissing)
	}
	if err != nil {
		return nil, errs.Wrap("events.location", err)
	}
	return loc, nil
}

// Create stores a new event authored by who. The sequential id is the
// first free one; a concurrent creation that takes it first triggers a
// retry with a fresh scan.
func (s *Service) Create(ctx context.Context, who globals.Identity, in Input) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	loc, err := s.location(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	start, end, err := in.dates(s.now())
	if err != nil {
		return nil, err
	}

	ev := &models.Event{
		Name:            in.Name,
		Description:     in.Description,
		Type:            in.Type,
		LocationID:      in.LocationID,
		Location:        in.Location,
		Coordinates:     loc.Coordinates,
		Author:          who.Email,
		Users:           []string{},
		Sports:          in.Sports,
		Category:        in.Category,
		StartDate:       start,
		EndDate:         end,
		Interval:        in.Interval,
		LocationAddName: in.LocationAddName,
	}
	if ev.Location == "" {
		ev.Location = loc.Location
	}

	for attempt := 1; ; attempt++ {
		ids, err := s.store.SeqIDs(ctx)
		if err != nil {
			return nil, errs.Wrap("events.create", err)
		}
		ev.ID = primitive.NilObjectID
		ev.SeqID = FirstAvailableID(ids)
		err = s.store.Insert(ctx, ev)
		if err == nil {
			break
		}
		if !errs.Is(err, errs.KindConflict) || attempt == maxInsertAttempts {
			return nil, errs.Wrap("events.create", err)
		}
	}

	s.emit(ctx, mq.EventCreated, ev, "", who.Email)
	s.changed(ctx)
	return ev, nil
}
