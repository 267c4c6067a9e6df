package memstore

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/geo"
	"recreo/models"
	"recreo/proximity"
)

func seedLocations(t *testing.T) *Locations {
	t.Helper()
	ctx := context.Background()
	s := NewLocations()
	docs := []*models.Location{
		{SeqID: 1, Name: "far", Category: "park", Sports: []string{"running"}, Coordinates: []float64{15.70, 46.57}},
		{SeqID: 2, Name: "near", Category: "park", Sports: []string{"cycling"}, Coordinates: []float64{15.650, 46.557}},
		{SeqID: 3, Name: "mid", Category: "lake", Sports: []string{"running"}, Coordinates: []float64{15.66, 46.56},
			Comments: []models.Comment{{ID: primitive.NewObjectID(), Rating: 4}}},
		{SeqID: 4, Name: "other city", Category: "park", Sports: []string{"running"}, Coordinates: []float64{14.5058, 46.0569}},
	}
	for _, d := range docs {
		if err := s.Insert(ctx, d); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	return s
}

func TestQueryOrdersByDistanceWithinRadius(t *testing.T) {
	s := seedLocations(t)
	p := geo.Point{Lng: 15.649, Lat: 46.5568}

	got, err := s.Query(context.Background(), proximity.Query{Point: &p, MaxDistance: 15000, Limit: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	prev := -1.0
	for _, loc := range got {
		if loc.Distance == nil {
			t.Fatalf("%s has no distance", loc.Name)
		}
		if *loc.Distance > 15000 {
			t.Errorf("%s at %.0f m is outside the radius", loc.Name, *loc.Distance)
		}
		if *loc.Distance < prev {
			t.Errorf("results not ordered by distance")
		}
		prev = *loc.Distance
		if loc.Comments != nil || loc.SeqID != 0 {
			t.Errorf("%s should carry the list projection", loc.Name)
		}
	}
	if got[0].Name != "near" {
		t.Errorf("nearest = %s, want near", got[0].Name)
	}
}

func TestQueryFiltersSkipAndLimit(t *testing.T) {
	s := seedLocations(t)
	ctx := context.Background()

	got, _ := s.Query(ctx, proximity.Query{Filters: proximity.Filters{proximity.Equals("sports", "running")}})
	if len(got) != 3 {
		t.Errorf("running filter: got %d, want 3", len(got))
	}
	got, _ = s.Query(ctx, proximity.Query{Skip: 1, Limit: 2})
	if len(got) != 2 || got[0].Name != "near" {
		t.Errorf("skip/limit: got %v", got)
	}
	got, _ = s.Query(ctx, proximity.Query{Skip: 10, Limit: 2})
	if len(got) != 0 {
		t.Errorf("skip past end: got %d", len(got))
	}
}

func TestQueryReturnsCopies(t *testing.T) {
	s := seedLocations(t)
	ctx := context.Background()
	got, _ := s.Query(ctx, proximity.Query{Limit: 1})
	got[0].Name = "mutated"

	again, _ := s.Query(ctx, proximity.Query{Limit: 1})
	if again[0].Name == "mutated" {
		t.Error("Query() leaked a reference to the stored document")
	}
}

func TestCommentMutations(t *testing.T) {
	s := seedLocations(t)
	ctx := context.Background()
	all, _ := s.Query(ctx, proximity.Query{Filters: proximity.Filters{proximity.Equals("category", "lake")}})
	id := all[0].ID

	first := models.Comment{ID: primitive.NewObjectID(), Rating: 2}
	if err := s.PushComment(ctx, id, first); err != nil {
		t.Fatal(err)
	}
	th, _ := s.Thread(ctx, id)
	if len(th.Comments) != 2 || th.Comments[0].ID != first.ID {
		t.Fatalf("new comment should be first, got %+v", th.Comments)
	}

	first.Rating = 5
	if err := s.SetComment(ctx, id, first); err != nil {
		t.Fatal(err)
	}
	ratings, _ := s.CommentRatings(ctx, id)
	if ratings[0] != 5 {
		t.Errorf("ratings = %v", ratings)
	}

	if err := s.PullComment(ctx, id, first.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.PullComment(ctx, id, first.ID); err != errs.ErrNoDocument {
		t.Errorf("second pull error = %v, want ErrNoDocument", err)
	}
	if err := s.SetRating(ctx, primitive.NewObjectID(), 3); err != errs.ErrNoDocument {
		t.Errorf("SetRating on missing doc = %v", err)
	}
}

func TestDistinct(t *testing.T) {
	s := seedLocations(t)
	got, _ := s.Distinct(context.Background(), "sports")
	if len(got) != 2 || got[0] != "cycling" || got[1] != "running" {
		t.Errorf("Distinct(sports) = %v", got)
	}
}

func TestEventsUsersAndSeqIDs(t *testing.T) {
	ctx := context.Background()
	s := NewEvents()
	ev := &models.Event{SeqID: 1, Name: "run"}
	if err := s.Insert(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, &models.Event{SeqID: 1}); !errs.Is(err, errs.KindConflict) {
		t.Errorf("duplicate seq id error = %v", err)
	}

	added, _ := s.AddUser(ctx, ev.ID, "ana")
	again, _ := s.AddUser(ctx, ev.ID, "ana")
	if !added || again {
		t.Errorf("AddUser() = %v then %v", added, again)
	}
	if err := s.RemoveUser(ctx, ev.ID, "ana"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(ctx, ev.ID)
	if len(got.Users) != 0 {
		t.Errorf("users = %v", got.Users)
	}

	ids, _ := s.SeqIDs(ctx)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("SeqIDs() = %v", ids)
	}
}

func TestUsersUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()
	if err := s.Create(ctx, &models.User{Email: "a@b.si", Nickname: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &models.User{Email: "x@b.si", Nickname: "a"}); !errs.Is(err, errs.KindConflict) {
		t.Errorf("duplicate nickname error = %v", err)
	}
	if _, err := s.FindByEmail(ctx, "nobody@b.si"); err != errs.ErrNoDocument {
		t.Errorf("FindByEmail() error = %v", err)
	}
}
