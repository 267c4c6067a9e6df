package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled happening tied loosely to a Location through
// LocationID. Users holds participant nicknames with set semantics.
type Event struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SeqID           int                `json:"id,omitempty" bson:"id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description" bson:"description"`
	Type            string             `json:"type" bson:"type"`
	Coordinates     []float64          `json:"coordinates" bson:"coordinates"`
	Comments        []Comment          `json:"comments,omitempty" bson:"comments,omitempty"`
	LocationID      string             `json:"locationId,omitempty" bson:"locationId,omitempty"`
	Location        string             `json:"location,omitempty" bson:"location,omitempty"`
	Author          string             `json:"author,omitempty" bson:"author,omitempty"`
	Users           []string           `json:"users" bson:"users"`
	Sports          []string           `json:"sports" bson:"sports"`
	Rating          int                `json:"rating" bson:"rating"`
	StartDate       time.Time          `json:"startDate" bson:"startDate"`
	EndDate         time.Time          `json:"endDate" bson:"endDate"`
	Interval        string             `json:"interval,omitempty" bson:"interval,omitempty"`
	Category        []string           `json:"category" bson:"category"`
	LocationAddName string             `json:"locationAddName,omitempty" bson:"locationAddName,omitempty"`

	Distance *float64 `json:"distance,omitempty" bson:"distance,omitempty"`
}

func (e *Event) GetID() primitive.ObjectID   { return e.ID }
func (e *Event) SetID(id primitive.ObjectID) { e.ID = id }
func (e *Event) GetName() string             { return e.Name }
func (e *Event) GetCoordinates() []float64   { return e.Coordinates }
func (e *Event) GetComments() []Comment      { return e.Comments }
func (e *Event) SetComments(c []Comment)     { e.Comments = c }
func (e *Event) SetRating(r int)             { e.Rating = r }
func (e *Event) SetDistance(d float64)       { e.Distance = &d }

func (e *Event) Attr(field string) []string {
	switch field {
	case "category":
		return e.Category
	case "type":
		return []string{e.Type}
	case "sports":
		return e.Sports
	case "interval":
		return []string{e.Interval}
	}
	return nil
}

func (e *Event) Schedule() (Schedule, bool) {
	return Schedule{Start: e.StartDate, End: e.EndDate}, true
}

func (e *Event) ListView() {
	e.Comments = nil
	e.SeqID = 0
}

func (e *Event) DetailView() {
	e.SeqID = 0
}

// HasUser reports whether nickname already participates.
func (e *Event) HasUser(nickname string) bool {
	for _, u := range e.Users {
		if u == nickname {
			return true
		}
	}
	return false
}
