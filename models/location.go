package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a recreational spot. Category and type are single values;
// sports is a keyword list.
type Location struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SeqID       int                `json:"id,omitempty" bson:"id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	Type        string             `json:"type" bson:"type"`
	Sports      []string           `json:"sports" bson:"sports"`
	Description string             `json:"description" bson:"description"`
	Author      string             `json:"author,omitempty" bson:"author,omitempty"`
	Location    string             `json:"location" bson:"location"`
	Coordinates []float64          `json:"coordinates" bson:"coordinates"`
	Rating      int                `json:"rating" bson:"rating"`
	Comments    []Comment          `json:"comments,omitempty" bson:"comments,omitempty"`

	// Distance is set by proximity queries only.
	Distance *float64 `json:"distance,omitempty" bson:"distance,omitempty"`
}

func (l *Location) GetID() primitive.ObjectID   { return l.ID }
func (l *Location) SetID(id primitive.ObjectID) { l.ID = id }
func (l *Location) GetName() string             { return l.Name }
func (l *Location) GetCoordinates() []float64   { return l.Coordinates }
func (l *Location) GetComments() []Comment      { return l.Comments }
func (l *Location) SetComments(c []Comment)     { l.Comments = c }
func (l *Location) SetRating(r int)             { l.Rating = r }
func (l *Location) SetDistance(d float64)       { l.Distance = &d }

func (l *Location) Attr(field string) []string {
	switch field {
	case "category":
		return []string{l.Category}
	case "type":
		return []string{l.Type}
	case "sports":
		return l.Sports
	}
	return nil
}

// Locations have no schedule.
func (l *Location) Schedule() (Schedule, bool) { return Schedule{}, false }

func (l *Location) ListView() {
	l.Comments = nil
	l.SeqID = 0
}

func (l *Location) DetailView() {
	l.SeqID = 0
}
