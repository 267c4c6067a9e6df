package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is the date span of an event.
type Schedule struct {
	Start time.Time
	End   time.Time
}

// Entity is implemented by *Location and *Event so the query engine and
// the stores can treat both root documents alike.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	GetName() string
	GetCoordinates() []float64
	GetComments() []Comment
	SetComments([]Comment)
	SetRating(int)
	SetDistance(float64)
	// Attr returns the values of a filterable field; a scalar field yields
	// a single-element slice.
	Attr(field string) []string
	Schedule() (Schedule, bool)
	// ListView strips fields that never appear in list responses.
	ListView()
	// DetailView strips fields hidden from read-one responses.
	DetailView()
}

var (
	_ Entity = (*Location)(nil)
	_ Entity = (*Event)(nil)
)
