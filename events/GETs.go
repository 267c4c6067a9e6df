package events

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recreo/globals"
	"recreo/models"
	"recreo/pagination"
	"recreo/proximity"
	"recreo/utils"
)

var Messages = proximity.Messages{
	Empty:       "No events found.",
	EmptySearch: "No recreation events found.",
}

// CodelistFields are the fields whose distinct values are served.
var CodelistFields = []string{"category", "type", "sports", "interval"}

// pageView is the paginated list body.
type pageView struct {
	Events      []*models.Event `json:"events"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	TotalCount  int64           `json:"totalCount"`
}

// GetEvents handles GET /events.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	items, err := h.engine.ListAll(ctx, proximity.ParseLimit(r.URL.Query().Get("nResults")))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetEventsPage handles GET /events/paginated.
func (h *Handler) GetEventsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	req, err := pagination.ParseRequest(r.URL.Query())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	page, err := h.pager.Page(ctx, req)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pageView{
		Events:      page.Items,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		TotalCount:  page.TotalCount,
	})
}

// GetEventsNear handles GET /events/distance.
func (h *Handler) GetEventsNear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	q, err := proximity.ParseNear(r.URL.Query(), proximity.EventFields)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	items, err := h.engine.FindNear(ctx, q)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// SearchEvents handles GET /events/search.
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	f, err := proximity.BuildFilters(r.URL.Query(), proximity.EventFields)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	items, err := h.engine.Search(ctx, f, proximity.ParseLimit(r.URL.Query().Get("nResults")))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetCodelist handles GET /events/codelist/{codelist}.
func (h *Handler) GetCodelist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	vals, err := h.codes.Values(ctx, h.codelist, chi.URLParam(r, "codelist"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vals)
}

// GetEvent handles GET /events/{eventId}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	ev, err := h.svc.Get(ctx, chi.URLParam(r, "eventId"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	ev.DetailView()
	utils.RespondWithJSON(w, http.StatusOK, ev)
}
