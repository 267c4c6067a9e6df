package events

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recreo/codelist"
	"recreo/globals"
	"recreo/models"
	"recreo/pagination"
	"recreo/proximity"
	"recreo/utils"
)

// Reader is what the list endpoints need from the store.
type Reader interface {
	proximity.Source[*models.Event]
	codelist.Source
}

type Handler struct {
	svc      *Service
	engine   *proximity.Engine[*models.Event]
	pager    *pagination.Controller[*models.Event]
	codes    *codelist.Cache
	codelist codelist.List
}

// NewHandler wires the service and read side together. Writes through the
// service drop the cached codelists.
func NewHandler(svc *Service, reader Reader, codes *codelist.Cache) *Handler {
	h := &Handler{
		svc:      svc,
		engine:   proximity.NewEngine[*models.Event](reader, Messages),
		pager:    pagination.NewController[*models.Event](reader),
		codes:    codes,
		codelist: codelist.List{Collection: Collection, Allowed: CodelistFields, Source: reader},
	}
	svc.OnChange(func(ctx context.Context) { codes.Invalidate(ctx, h.codelist) })
	return h
}

func identity(w http.ResponseWriter, r *http.Request) (globals.Identity, bool) {
	who, ok := utils.IdentityFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found.")
	}
	return who, ok
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := identity(w, r)
	if !ok {
		return
	}
	var in Input
	if err := utils.DecodeBody(r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	ev, err := h.svc.Create(ctx, who, in)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, ev)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := identity(w, r)
	if !ok {
		return
	}
	var in Input
	if err := utils.DecodeBody(r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	ev, err := h.svc.Update(ctx, chi.URLParam(r, "eventId"), who, in)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ev)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, chi.URLParam(r, "eventId"), who); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.NoContent(w)
}

// JoinEvent handles POST /events/{eventId}/users and answers with the
// nickname that joined.
func (h *Handler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Join(ctx, chi.URLParam(r, "eventId"), who); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, who.Nickname)
}

// LeaveEvent handles DELETE /events/{eventId}/users/{user}.
func (h *Handler) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := identity(w, r)
	if !ok {
		return
	}
	left, err := h.svc.Leave(ctx, chi.URLParam(r, "eventId"), chi.URLParam(r, "user"), who)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	if !left {
		utils.RespondWithError(w, http.StatusOK, NotInEventMsg)
		return
	}
	utils.NoContent(w)
}
