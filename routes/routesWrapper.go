package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"recreo/auth"
	"recreo/codelist"
	"recreo/comments"
	"recreo/events"
	"recreo/locations"
	"recreo/metrics"
	"recreo/middleware"
	"recreo/mq"
	"recreo/ratelim"
	"recreo/rating"
	"recreo/sports"
	"recreo/utils"
)

// LocationStore is everything the location routes need from storage.
type LocationStore interface {
	locations.Store
	comments.Store
	rating.Store
}

type EventStore interface {
	events.Store
	events.Reader
	comments.Store
	rating.Store
}

// Deps are the stores and services the route table is built from.
type Deps struct {
	Locations LocationStore
	Events    EventStore
	Users     auth.Users
	Sports    sports.Store
	Tokens    *auth.TokenService
	Emitter   mq.Emitter
	Codelists *codelist.Cache
	Limiter   *ratelim.RateLimiter
}

// handlers is the wired handler set.
type handlers struct {
	locations        *locations.Handler
	locationComments *comments.Handler
	events           *events.Handler
	eventComments    *comments.Handler
	sports           *sports.Handler
	auth             *auth.Handler

	authenticate func(http.Handler) http.Handler
	limit        func(http.Handler) http.Handler
}

func wire(d Deps) *handlers {
	locRatings := rating.NewAggregator(d.Locations, locations.Collection)
	evRatings := rating.NewAggregator(d.Events, events.Collection)
	evSvc := events.NewService(d.Events, d.Locations, d.Emitter)

	return &handlers{
		locations: locations.NewHandler(d.Locations, d.Codelists),
		locationComments: comments.NewHandler(
			comments.NewManager(d.Locations, locRatings, d.Emitter, "Location", locations.Collection), "locationId"),
		events: events.NewHandler(evSvc, d.Events, d.Codelists),
		eventComments: comments.NewHandler(
			comments.NewManager(d.Events, evRatings, d.Emitter, "Event", events.Collection), "eventId"),
		sports:       sports.NewHandler(d.Sports, d.Emitter),
		auth:         auth.NewHandler(d.Users, d.Tokens),
		authenticate: middleware.Authenticate(d.Tokens, d.Users),
		limit:        d.Limiter.Limit,
	}
}

// NewRouter builds the full route table: the API under /api plus /health
// and /metrics.
func NewRouter(d Deps) http.Handler {
	h := wire(d)

	router := chi.NewRouter()
	router.Use(middleware.RequestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/health", Index)
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		AddAuthRoutes(r, h)
		AddLocationRoutes(r, h)
		AddEventsRoutes(r, h)
		AddSportsRoutes(r, h)
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Not found.")
	})
	return router
}

// Index is the health check.
func Index(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
