package events

import (
	"context"
	"errors"
	"fmt"

	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/mq"
	"recreo/proximity"
)

func (s *Service) authored(ctx context.Context, id string, who globals.Identity, action string) (*models.Event, error) {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.Author != who.Email {
		return nil, errs.Authorization(fmt.Sprintf("Not authorized to %s this event.", action))
	}
	return ev, nil
}

// Update overwrites the editable fields present in the body. Only the
// author may update.
func (s *Service) Update(ctx context.Context, id string, who globals.Identity, in Input) (*models.Event, error) {
	ev, err := s.authored(ctx, id, who, "update")
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		ev.Name = in.Name
	}
	if in.Description != "" {
		ev.Description = in.Description
	}
	if in.Type != "" {
		ev.Type = in.Type
	}
	if len(in.Sports) > 0 {
		ev.Sports = in.Sports
	}
	if len(in.Category) > 0 {
		ev.Category = in.Category
	}
	if in.Interval != "" {
		ev.Interval = in.Interval
	}
	if in.Location != "" {
		ev.Location = in.Location
	}
	if in.LocationAddName != "" {
		ev.LocationAddName = in.LocationAddName
	}
	if in.LocationID != "" && in.LocationID != ev.LocationID {
		loc, err := s.location(ctx, in.LocationID)
		if err != nil {
			return nil, err
		}
		ev.LocationID = in.LocationID
		ev.Coordinates = loc.Coordinates
	}

	start, end := ev.StartDate, ev.EndDate
	if in.StartDate != "" {
		if start, err = parseDate("startDate", in.StartDate); err != nil {
			return nil, err
		}
	}
	if in.EndDate != "" {
		if end, err = parseDate("endDate", in.EndDate); err != nil {
			return nil, err
		}
	}
	if start.After(end) {
		return nil, errs.Validation(proximity.InvalidDateRangeMsg)
	}
	ev.StartDate, ev.EndDate = start, end

	if err := s.store.SaveDetails(ctx, ev); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return nil, notFound(id)
		}
		return nil, errs.Wrap("events.update", err)
	}
	s.emit(ctx, mq.EventUpdated, ev, "", who.Email)
	s.changed(ctx)
	return ev, nil
}

// Delete removes the event. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id string, who globals.Identity) error {
	ev, err := s.authored(ctx, id, who, "delete")
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, ev.ID); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return notFound(id)
		}
		return errs.Wrap("events.delete", err)
	}
	s.emit(ctx, mq.EventDeleted, ev, "", who.Email)
	s.changed(ctx)
	return nil
}

// Join adds the caller's nickname to the participants.
func (s *Service) Join(ctx context.Context, id string, who globals.Identity) error {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ev.HasUser(who.Nickname) {
		return errs.Conflict(AlreadyInMsg)
	}
	added, err := s.store.AddUser(ctx, ev.ID, who.Nickname)
	if errors.Is(err, errs.ErrNoDocument) {
		return notFound(id)
	}
	if err != nil {
		return errs.Wrap("events.join", err)
	}
	if !added {
		return errs.Conflict(AlreadyInMsg)
	}
	s.emit(ctx, mq.UserJoined, ev, who.Nickname, who.Email)
	return nil
}

// Leave removes nickname from the participants when the caller is one of
// them. left is false when the caller was not participating.
func (s *Service) Leave(ctx context.Context, id, nickname string, who globals.Identity) (left bool, err error) {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if len(ev.Users) == 0 {
		return false, errs.NotFound(NoUsersMsg)
	}
	if !ev.HasUser(who.Nickname) {
		return false, nil
	}
	if err := s.store.RemoveUser(ctx, ev.ID, nickname); err != nil {
		if errors.Is(err, errs.ErrNoDocument) {
			return false, notFound(id)
		}
		return false, errs.Wrap("events.leave", err)
	}
	s.emit(ctx, mq.UserLeft, ev, nickname, who.Email)
	return true, nil
}
