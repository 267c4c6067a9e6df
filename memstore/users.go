package memstore

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/models"
	"recreo/proximity"
)

type Users struct {
	mu    sync.RWMutex
	users []models.User
}

func NewUsers() *Users {
	return &Users{}
}

// Create enforces the unique email and nickname indexes.
func (s *Users) Create(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		switch {
		case existing.Email == u.Email:
			return errs.Conflict(models.DuplicateEmailMsg)
		case existing.Nickname == u.Nickname:
			return errs.Conflict(models.DuplicateNicknameMsg)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *u)
	return nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, errs.ErrNoDocument
}

type Sports struct {
	mu     sync.RWMutex
	sports []models.Sport
}

func NewSports() *Sports {
	return &Sports{}
}

// Insert enforces the unique name index.
func (s *Sports) Insert(ctx context.Context, sp *models.Sport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sports {
		if existing.Name == sp.Name {
			return errs.Conflict("Sport '" + sp.Name + "' already exists.")
		}
	}
	if sp.ID.IsZero() {
		sp.ID = primitive.NewObjectID()
	}
	cp := *sp
	cp.Category = slices.Clone(sp.Category)
	s.sports = append(s.sports, cp)
	return nil
}

func (s *Sports) Find(ctx context.Context, f proximity.Filters, limit int) ([]models.Sport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Sport{}
	for i := range s.sports {
		if !f.Matches(&s.sports[i]) {
			continue
		}
		out = append(out, s.sports[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
