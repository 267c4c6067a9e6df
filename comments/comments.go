// Package comments manages reviews embedded in locations and events.
// Every successful mutation triggers a rating recompute on the parent.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/mq"
	"recreo/utils"
)

const (
	MissingFieldsMsg = "Body parameters 'author', 'rating' and 'comment' are required."
	MissingUpdateMsg = "At least on of body parameters 'rating' or 'comment' is required."
	RatingRangeMsg   = "Body parameter 'rating' must be between 1 and 5."
	NoCommentsMsg    = "No comments found."
)

// Store is the comment-array view of a parent collection.
type Store interface {
	Thread(ctx context.Context, id primitive.ObjectID) (*models.Thread, error)
	PushComment(ctx context.Context, id primitive.ObjectID, c models.Comment) error
	SetComment(ctx context.Context, id primitive.ObjectID, c models.Comment) error
	PullComment(ctx context.Context, id, commentID primitive.ObjectID) error
}

// Recomputer refreshes a parent's rating. It must not fail the caller.
type Recomputer interface {
	Recompute(ctx context.Context, id primitive.ObjectID)
}

// Input is a create or update request. Nil fields were not supplied.
type Input struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rating  json.RawMessage `json:"rating"`
		Comment *string         `json:"comment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rating, err := utils.FlexInt(raw.Rating)
	if err != nil {
		return err
	}
	in.Rating, in.Comment = rating, raw.Comment
	return nil
}

// View is the read-one response. The parent is keyed "location" or
// "event".
type View struct {
	ParentKey string
	Parent    ParentRef
	Comment   models.Comment
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{v.ParentKey: v.Parent, "comment": v.Comment})
}

type ParentRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Manager struct {
	store   Store
	ratings Recomputer
	emitter mq.Emitter
	// noun is "Location" or "Event", used in not-found messages.
	noun       string
	collection string
	now        func() time.Time
}

func NewManager(store Store, ratings Recomputer, emitter mq.Emitter, noun, collection string) *Manager {
	return &Manager{
		store:      store,
		ratings:    ratings,
		emitter:    emitter,
		noun:       noun,
		collection: collection,
		now:        time.Now,
	}
}

func (m *Manager) parentNotFound(id string) error {
	return errs.NotFound(fmt.Sprintf("%s with id '%s' not found.", m.noun, id))
}

func commentNotFound(id string) error {
	return errs.NotFound(fmt.Sprintf("Comment with id '%s' not found.", id))
}

// thread loads the parent. A malformed id cannot exist and reads as
// not found.
func (m *Manager) thread(ctx context.Context, parentID string) (*models.Thread, error) {
	oid, err := primitive.ObjectIDFromHex(parentID)
	if err != nil {
		return nil, m.parentNotFound(parentID)
	}
	th, err := m.store.Thread(ctx, oid)
	if errors.Is(err, errs.ErrNoDocument) {
		return nil, m.parentNotFound(parentID)
	}
	if err != nil {
		return nil, errs.Wrap("comments.thread", err)
	}
	return th, nil
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

// Create prepends a comment authored by the caller's email.
func (m *Manager) Create(ctx context.Context, parentID string, who globals.Identity, in Input) (models.Comment, error) {
	th, err := m.thread(ctx, parentID)
	if err != nil {
		return models.Comment{}, err
	}
	if in.Rating == nil || *in.Rating == 0 || in.Comment == nil || strings.TrimSpace(*in.Comment) == "" {
		return models.Comment{}, errs.Validation(MissingFieldsMsg)
	}
	if !validRating(*in.Rating) {
		return models.Comment{}, errs.Validation(RatingRangeMsg)
	}

	c := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    who.Email,
		Rating:    *in.Rating,
		Comment:   *in.Comment,
		CreatedOn: m.now().UTC().Truncate(time.Millisecond),
	}
	if err := m.store.PushComment(ctx, th.ID, c); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return models.Comment{}, m.parentNotFound(parentID)
		}
		return models.Comment{}, errs.Wrap("comments.create", err)
	}
	m.ratings.Recompute(ctx, th.ID)
	m.emit(ctx, mq.CommentCreated, th.ID, c.ID, who)
	return c, nil
}

// Get returns one comment with a reference to its parent.
func (m *Manager) Get(ctx context.Context, parentID, commentID string) (View, error) {
	th, err := m.thread(ctx, parentID)
	if err != nil {
		return View{}, err
	}
	if len(th.Comments) == 0 {
		return View{}, errs.NotFound(NoCommentsMsg)
	}
	i := indexOf(th.Comments, commentID)
	if i < 0 {
		return View{}, commentNotFound(commentID)
	}
	return View{
		ParentKey: strings.ToLower(m.noun),
		Parent:    ParentRef{ID: th.ID.Hex(), Name: th.Name},
		Comment:   th.Comments[i],
	}, nil
}

// Update changes rating and/or text of a comment owned by the caller.
func (m *Manager) Update(ctx context.Context, parentID, commentID string, who globals.Identity, in Input) (models.Comment, error) {
	th, err := m.thread(ctx, parentID)
	if err != nil {
		return models.Comment{}, err
	}
	i := indexOf(th.Comments, commentID)
	if i < 0 {
		return models.Comment{}, commentNotFound(commentID)
	}
	c := th.Comments[i]
	if c.Author != who.Email {
		return models.Comment{}, errs.Authorization("Not authorized to update this comment.")
	}
	hasRating := in.Rating != nil && *in.Rating != 0
	hasText := in.Comment != nil && strings.TrimSpace(*in.Comment) != ""
	if !hasRating && !hasText {
		return models.Comment{}, errs.Validation(MissingUpdateMsg)
	}
	if hasRating {
		if !validRating(*in.Rating) {
			return models.Comment{}, errs.Validation(RatingRangeMsg)
		}
		c.Rating = *in.Rating
	}
	if hasText {
		c.Comment = *in.Comment
	}

	if err := m.store.SetComment(ctx, th.ID, c); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return models.Comment{}, commentNotFound(commentID)
		}
		return models.Comment{}, errs.Wrap("comments.update", err)
	}
	m.ratings.Recompute(ctx, th.ID)
	m.emit(ctx, mq.CommentUpdated, th.ID, c.ID, who)
	return c, nil
}

// Delete removes a comment owned by the caller.
func (m *Manager) Delete(ctx context.Context, parentID, commentID string, who globals.Identity) error {
	th, err := m.thread(ctx, parentID)
	if err != nil {
		return err
	}
	if len(th.Comments) == 0 {
		return errs.NotFound(NoCommentsMsg)
	}
	i := indexOf(th.Comments, commentID)
	if i < 0 {
		return commentNotFound(commentID)
	}
	c := th.Comments[i]
	if c.Author != who.Email {
		return errs.Authorization("Not authorized to delete this comment.")
	}

	if err := m.store.PullComment(ctx, th.ID, c.ID); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return commentNotFound(commentID)
		}
		return errs.Wrap("comments.delete", err)
	}
	m.ratings.Recompute(ctx, th.ID)
	m.emit(ctx, mq.CommentDeleted, th.ID, c.ID, who)
	return nil
}

func indexOf(comments []models.Comment, commentID string) int {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return -1
	}
	return models.FindComment(comments, oid)
}

func (m *Manager) emit(ctx context.Context, name string, parent, comment primitive.ObjectID, who globals.Identity) {
	m.emitter.Emit(ctx, mq.Index{
		Name:       name,
		EntityType: m.collection,
		EntityID:   parent.Hex(),
		ItemID:     comment.Hex(),
		Actor:      who.Email,
	})
}
