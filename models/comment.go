package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a review embedded in a Location or Event.
type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Author    string             `json:"author" bson:"author"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedOn time.Time          `json:"createdOn" bson:"createdOn"`
}

// FindComment returns the index of the comment with id, or -1.
func FindComment(comments []Comment, id primitive.ObjectID) int {
	for i := range comments {
		if comments[i].ID == id {
			return i
		}
	}
	return -1
}

// Ratings extracts the rating of every comment.
func Ratings(comments []Comment) []int {
	out := make([]int, len(comments))
	for i, c := range comments {
		out[i] = c.Rating
	}
	return out
}

// Thread is the comment-bearing view of a parent Location or Event.
type Thread struct {
	ID       primitive.ObjectID
	Name     string
	Comments []Comment
}
