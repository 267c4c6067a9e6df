package proximity_test

import (
	"context"
	"errors"
	"testing"

	"recreo/errs"
	"recreo/geo"
	"recreo/memstore"
	"recreo/models"
	"recreo/proximity"
)

var locationMsgs = proximity.Messages{Empty: "No locations found.", EmptySearch: "No recreation locations found."}

func newEngine(t *testing.T) *proximity.Engine[*models.Location] {
	t.Helper()
	s := memstore.NewLocations()
	for _, l := range []*models.Location{
		{Name: "a", Category: "park", Type: "outdoor", Sports: []string{"running"}, Coordinates: []float64{15.650, 46.557}},
		{Name: "b", Category: "hall", Type: "indoor", Sports: []string{"basketball"}, Coordinates: []float64{15.660, 46.560}},
	} {
		if err := s.Insert(context.Background(), l); err != nil {
			t.Fatal(err)
		}
	}
	return proximity.NewEngine[*models.Location](s, locationMsgs)
}

func TestFindNearEmptyIsNotFound(t *testing.T) {
	e := newEngine(t)
	ljubljana := geo.Point{Lng: 14.5058, Lat: 46.0569}

	_, err := e.FindNear(context.Background(), proximity.Query{Point: &ljubljana, MaxDistance: 15000, Limit: 10})
	if !errs.Is(err, errs.KindNotFound) || errs.Message(err) != "No locations found." {
		t.Errorf("FindNear() error = %v", err)
	}
}

func TestFindNearRequiresPoint(t *testing.T) {
	_, err := newEngine(t).FindNear(context.Background(), proximity.Query{MaxDistance: 1000})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("FindNear() error = %v, want validation", err)
	}
}

func TestFindNearLimitIsOrderedPrefix(t *testing.T) {
	p := geo.Point{Lng: 15.649, Lat: 46.5568}
	got, err := newEngine(t).FindNear(context.Background(), proximity.Query{Point: &p, MaxDistance: 5000, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("FindNear() = %v, want nearest only", got)
	}
}

func TestSearch(t *testing.T) {
	e := newEngine(t)
	got, err := e.Search(context.Background(), proximity.Filters{proximity.Equals("type", "indoor")}, 10)
	if err != nil || len(got) != 1 || got[0].Name != "b" {
		t.Errorf("Search() = %v, %v", got, err)
	}

	_, err = e.Search(context.Background(), proximity.Filters{proximity.Equals("category", "beach")}, 10)
	if errs.Message(err) != "No recreation locations found." {
		t.Errorf("empty search error = %v", err)
	}
}

func TestListAll(t *testing.T) {
	got, err := newEngine(t).ListAll(context.Background(), 1)
	if err != nil || len(got) != 1 {
		t.Errorf("ListAll() = %v, %v", got, err)
	}
}

type brokenSource struct{}

func (brokenSource) Query(context.Context, proximity.Query) ([]*models.Location, error) {
	return nil, errors.New("connection refused")
}
func (brokenSource) Count(context.Context) (int64, error) { return 0, nil }

func TestStoreFailureIsDistinctFromEmpty(t *testing.T) {
	e := proximity.NewEngine[*models.Location](brokenSource{}, locationMsgs)
	_, err := e.ListAll(context.Background(), 10)
	if !errs.Is(err, errs.KindStore) || errs.Message(err) != "connection refused" {
		t.Errorf("ListAll() error = %v", err)
	}
}
