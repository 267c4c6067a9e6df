package events_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"recreo/codelist"
	"recreo/events"
	"recreo/globals"
	"recreo/memstore"
	"recreo/models"
	"recreo/mq"
	"recreo/utils"
)

var ana = globals.Identity{Email: "ana@example.com", Nickname: "ana"}

func as(who globals.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), who)))
		})
	}
}

func setup(t *testing.T) (http.Handler, string) {
	t.Helper()
	ctx := context.Background()
	locs := memstore.NewLocations()
	loc := &models.Location{SeqID: 1, Name: "Park", Coordinates: []float64{15.65, 46.56}}
	if err := locs.Insert(ctx, loc); err != nil {
		t.Fatal(err)
	}
	store := memstore.NewEvents()
	svc := events.NewService(store, locs, mq.LogEmitter{})
	h := events.NewHandler(svc, store, codelist.NewCache(time.Minute))

	r := chi.NewRouter()
	r.Get("/events", h.GetEvents)
	r.Get("/events/paginated", h.GetEventsPage)
	r.Get("/events/distance", h.GetEventsNear)
	r.Get("/events/search", h.SearchEvents)
	r.Get("/events/codelist/{codelist}", h.GetCodelist)
	r.Get("/events/{eventId}", h.GetEvent)
	r.Group(func(r chi.Router) {
		r.Use(as(ana))
		r.Post("/events", h.CreateEvent)
		r.Delete("/events/{eventId}", h.DeleteEvent)
		r.Post("/events/{eventId}/users", h.JoinEvent)
		r.Delete("/events/{eventId}/users/{user}", h.LeaveEvent)
	})
	return r, loc.ID.Hex()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func create(t *testing.T, h http.Handler, locID, sports string) models.Event {
	t.Helper()
	body := `{"name":"Tek","description":"d","type":"race","locationId":"` + locID +
		`","sports":"` + sports + `","category":["outdoor"],"startDate":"2024-05-01","endDate":"2024-05-02"}`
	rec := do(h, http.MethodPost, "/events", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var ev models.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &ev); err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestEmptyCollection(t *testing.T) {
	h, _ := setup(t)

	rec := do(h, http.MethodGet, "/events", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "No events found.") {
		t.Errorf("list = %d %s", rec.Code, rec.Body)
	}
	rec = do(h, http.MethodGet, "/events/search?type=race", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "No recreation events found.") {
		t.Errorf("search = %d %s", rec.Code, rec.Body)
	}
	rec = do(h, http.MethodGet, "/events/paginated", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"events":[]`) {
		t.Errorf("page = %d %s", rec.Code, rec.Body)
	}
}

func TestCreateThenRead(t *testing.T) {
	h, locID := setup(t)
	ev := create(t, h, locID, "running,cycling")
	if ev.SeqID != 1 || len(ev.Sports) != 2 {
		t.Errorf("created = %+v", ev)
	}

	rec := do(h, http.MethodGet, "/events/"+ev.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read one = %d %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), `"id":`) {
		t.Errorf("detail view leaks sequential id: %s", rec.Body)
	}

	rec = do(h, http.MethodGet, "/events/distance?lng=15.65&lat=46.56", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"distance"`) {
		t.Errorf("near = %d %s", rec.Code, rec.Body)
	}
	rec = do(h, http.MethodGet, "/events/distance?lng=15.65", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("near without lat = %d", rec.Code)
	}
	rec = do(h, http.MethodGet, "/events/search?sports=cycling&startDate=2024-04-30&endDate=2024-05-03", "")
	if rec.Code != http.StatusOK {
		t.Errorf("search = %d %s", rec.Code, rec.Body)
	}

	rec = do(h, http.MethodGet, "/events/paginated?page=1&limit=1", "")
	var page struct {
		Events     []models.Event `json:"events"`
		TotalPages int            `json:"totalPages"`
		TotalCount int64          `json:"totalCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Events) != 1 || page.TotalPages != 1 || page.TotalCount != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestCodelistInvalidatedByWrites(t *testing.T) {
	h, locID := setup(t)
	create(t, h, locID, "running")

	rec := do(h, http.MethodGet, "/events/codelist/sports", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[\"running\"]\n" {
		t.Fatalf("codelist = %d %q", rec.Code, rec.Body)
	}
	create(t, h, locID, "cycling")
	rec = do(h, http.MethodGet, "/events/codelist/sports", "")
	if rec.Body.String() != "[\"cycling\",\"running\"]\n" {
		t.Errorf("codelist after write = %q", rec.Body)
	}
	rec = do(h, http.MethodGet, "/events/codelist/author", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown codelist = %d", rec.Code)
	}
}

func TestJoinLeaveHandlers(t *testing.T) {
	h, locID := setup(t)
	ev := create(t, h, locID, "running")
	base := "/events/" + ev.ID.Hex() + "/users"

	rec := do(h, http.MethodPost, base, "")
	if rec.Code != http.StatusCreated || rec.Body.String() != "\"ana\"\n" {
		t.Fatalf("join = %d %q", rec.Code, rec.Body)
	}
	if rec := do(h, http.MethodPost, base, ""); rec.Code != http.StatusConflict {
		t.Errorf("second join = %d", rec.Code)
	}
	if rec := do(h, http.MethodDelete, base+"/ana", ""); rec.Code != http.StatusNoContent {
		t.Errorf("leave = %d %s", rec.Code, rec.Body)
	}
	if rec := do(h, http.MethodDelete, "/events/"+ev.ID.Hex(), ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/events/"+ev.ID.Hex(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("read after delete = %d", rec.Code)
	}
}
