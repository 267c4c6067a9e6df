// Package events implements the event service: creation with a sequential
// id, author-only edits, participant management and the public reads.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/models"
	"recreo/mq"
)

const (
	Collection = "Events"

	NoUsersMsg      = "No users found."
	NotInEventMsg   = "User is not in event users."
	AlreadyInMsg    = "User already registered for this event."
	LocationMissing = "Location with the specified 'locationId' doesn't exist."
)

// maxInsertAttempts bounds the retries when two creations race for the
// same sequential id.
const maxInsertAttempts = 3

type Store interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Insert(ctx context.Context, ev *models.Event) error
	SaveDetails(ctx context.Context, ev *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SeqIDs(ctx context.Context) ([]int, error)
	AddUser(ctx context.Context, id primitive.ObjectID, nickname string) (bool, error)
	RemoveUser(ctx context.Context, id primitive.ObjectID, nickname string) error
}

type LocationLookup interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Location, error)
}

type Service struct {
	store     Store
	locations LocationLookup
	emitter   mq.Emitter
	now       func() time.Time
	// onChange runs after any write that can alter codelist values.
	onChange func(ctx context.Context)
}

func NewService(store Store, locations LocationLookup, emitter mq.Emitter) *Service {
	return &Service{store: store, locations: locations, emitter: emitter, now: time.Now}
}

// OnChange registers a hook run after creates, updates and deletes.
func (s *Service) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

func notFound(id string) error {
	return errs.NotFound(fmt.Sprintf("Event with id '%s' not found.", id))
}

// Get loads a full event. Malformed ids read as not found.
func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}
	ev, err := s.store.Get(ctx, oid)
	if errors.Is(err, errs.ErrNoDocument) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap("events.get", err)
	}
	return ev, nil
}

func (s *Service) emit(ctx context.Context, name string, ev *models.Event, item, actor string) {
	s.emitter.Emit(ctx, mq.Index{
		Name:       name,
		EntityType: Collection,
		EntityID:   ev.ID.Hex(),
		ItemID:     item,
		Actor:      actor,
	})
}
