package comments_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/comments"
	"recreo/globals"
	"recreo/memstore"
	"recreo/models"
	"recreo/mq"
	"recreo/rating"
	"recreo/utils"
)

func as(who globals.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), who)))
		})
	}
}

func router(t *testing.T, who globals.Identity, existing ...models.Comment) (http.Handler, string) {
	t.Helper()
	store := memstore.NewEvents()
	ev := &models.Event{SeqID: 1, Name: "Tek", Comments: existing}
	if err := store.Insert(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	m := comments.NewManager(store, rating.NewAggregator(store, "Events"), mq.LogEmitter{}, "Event", "Events")
	h := comments.NewHandler(m, "eventId")

	r := chi.NewRouter()
	r.Get("/events/{eventId}/comments/{commentId}", h.GetComment)
	r.Group(func(r chi.Router) {
		r.Use(as(who))
		r.Post("/events/{eventId}/comments", h.CreateComment)
		r.Put("/events/{eventId}/comments/{commentId}", h.UpdateComment)
		r.Delete("/events/{eventId}/comments/{commentId}", h.DeleteComment)
	})
	return r, ev.ID.Hex()
}

func TestCreateCommentHandler(t *testing.T) {
	h, id := router(t, ana)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/"+id+"/comments",
		strings.NewReader(`{"rating":4,"comment":"Lepo"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var c models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatal(err)
	}
	if c.Author != ana.Email || c.Rating != 4 {
		t.Errorf("comment = %+v", c)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/"+id+"/comments", strings.NewReader(`{"rating":4}`)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"message"`) {
		t.Errorf("missing comment: status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestCreateCommentHandlerFormBody(t *testing.T) {
	h, id := router(t, ana)

	req := httptest.NewRequest(http.MethodPost, "/events/"+id+"/comments",
		strings.NewReader("author=Ana&rating=4&comment=Lepo"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var c models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatal(err)
	}
	if c.Rating != 4 || c.Comment != "Lepo" {
		t.Errorf("comment = %+v", c)
	}

	req = httptest.NewRequest(http.MethodPost, "/events/"+id+"/comments", strings.NewReader("rating=four&comment=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric rating: status = %d", rec.Code)
	}
}

func TestGetCommentHandlerKeysParentAsEvent(t *testing.T) {
	cid := primitive.NewObjectID()
	h, id := router(t, ana, models.Comment{ID: cid, Author: ana.Email, Rating: 3, Comment: "x"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/"+id+"/comments/"+cid.Hex(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["event"]; !ok {
		t.Errorf("response lacks event key: %s", rec.Body)
	}
	if _, ok := body["comment"]; !ok {
		t.Errorf("response lacks comment key: %s", rec.Body)
	}
}

func TestUpdateAndDeleteHandlers(t *testing.T) {
	cid := primitive.NewObjectID()
	h, id := router(t, bor, models.Comment{ID: cid, Author: ana.Email, Rating: 3, Comment: "x"})
	path := "/events/" + id + "/comments/" + cid.Hex()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"comment":"hijack"}`)))
	if rec.Code != http.StatusForbidden {
		t.Errorf("update by non-author: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("delete by non-author: status = %d", rec.Code)
	}

	owner, id2 := router(t, ana, models.Comment{ID: cid, Author: ana.Email, Rating: 3, Comment: "x"})
	path = "/events/" + id2 + "/comments/" + cid.Hex()
	rec = httptest.NewRecorder()
	owner.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete by author: status = %d", rec.Code)
	}
}
