package routes

import (
	"github.com/go-chi/chi/v5"
)

func AddAuthRoutes(r chi.Router, h *handlers) {
	r.With(h.limit).Post("/register", h.auth.RegisterUser)
	r.With(h.limit).Post("/login", h.auth.LoginUser)
}

func AddLocationRoutes(r chi.Router, h *handlers) {
	r.Route("/locations", func(r chi.Router) {
		r.Get("/all", h.locations.GetLocations)
		r.Get("/distance", h.locations.GetLocationsNear)
		r.Get("/search", h.locations.SearchLocations)
		r.Get("/codelist/{codelist}", h.locations.GetCodelist)
		r.Get("/{locationId}", h.locations.GetLocation)

		r.Get("/{locationId}/comments/{commentId}", h.locationComments.GetComment)
		r.Group(func(r chi.Router) {
			r.Use(h.limit, h.authenticate)
			r.Post("/{locationId}/comments", h.locationComments.CreateComment)
			r.Put("/{locationId}/comments/{commentId}", h.locationComments.UpdateComment)
			r.Delete("/{locationId}/comments/{commentId}", h.locationComments.DeleteComment)
		})
	})
}

func AddEventsRoutes(r chi.Router, h *handlers) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/all", h.events.GetEvents)
		r.Get("/paginated", h.events.GetEventsPage)
		r.Get("/distance", h.events.GetEventsNear)
		r.Get("/search", h.events.SearchEvents)
		r.Get("/codelist/{codelist}", h.events.GetCodelist)
		r.Get("/{eventId}", h.events.GetEvent)
		r.Get("/{eventId}/comments/{commentId}", h.eventComments.GetComment)

		r.Group(func(r chi.Router) {
			r.Use(h.limit, h.authenticate)
			r.Post("/", h.events.CreateEvent)
			r.Put("/{eventId}", h.events.UpdateEvent)
			r.Delete("/{eventId}", h.events.DeleteEvent)

			r.Post("/{eventId}/users", h.events.JoinEvent)
			r.Delete("/{eventId}/users/{user}", h.events.LeaveEvent)

			r.Post("/{eventId}/comments", h.eventComments.CreateComment)
			r.Put("/{eventId}/comments/{commentId}", h.eventComments.UpdateComment)
			r.Delete("/{eventId}/comments/{commentId}", h.eventComments.DeleteComment)
		})
	})
}

func AddSportsRoutes(r chi.Router, h *handlers) {
	r.Route("/sports", func(r chi.Router) {
		r.Get("/all", h.sports.GetSports)
		r.Get("/search", h.sports.SearchSports)
		r.With(h.limit, h.authenticate).Post("/", h.sports.CreateSport)
	})
}
