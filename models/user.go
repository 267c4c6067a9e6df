package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleUser = "user"

const (
	DuplicateEmailMsg    = "User with given e-mail address already registered."
	DuplicateNicknameMsg = "User with given nickname already registered."
)

type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email    string             `json:"email" bson:"email"`
	Name     string             `json:"name" bson:"name"`
	Nickname string             `json:"nickname" bson:"nickname"`
	Role     string             `json:"role" bson:"role"`
	Hash     string             `json:"-" bson:"hash"`
}

// Sport is a codelist entry: a sport name and the categories it belongs to.
type Sport struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Category []string           `json:"category" bson:"category"`
}

func (s *Sport) Attr(field string) []string {
	if field == "category" {
		return s.Category
	}
	return nil
}
