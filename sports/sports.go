// Package sports serves the sport codelist collection.
package sports

import (
	"context"
	"net/http"
	"strings"

	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/mq"
	"recreo/proximity"
	"recreo/utils"
	"recreo/validation"
)

const (
	Collection = "Sports"

	NoSportsMsg      = "No sports found."
	NoSportsFoundMsg = "No sports found by multifilter..."
	MissingFieldsMsg = "Body parameters 'name' and 'category' are required."
)

type Store interface {
	Insert(ctx context.Context, sp *models.Sport) error
	Find(ctx context.Context, f proximity.Filters, limit int) ([]models.Sport, error)
}

type Input struct {
	Name     string           `json:"name" validate:"required"`
	Category utils.StringList `json:"category" validate:"min=1,dive,required"`
}

type Handler struct {
	store   Store
	emitter mq.Emitter
}

func NewHandler(store Store, emitter mq.Emitter) *Handler {
	return &Handler{store: store, emitter: emitter}
}

func (h *Handler) list(ctx context.Context, f proximity.Filters, limit int, empty string) ([]models.Sport, error) {
	items, err := h.store.Find(ctx, f, limit)
	if err != nil {
		return nil, errs.Wrap("sports.find", err)
	}
	if len(items) == 0 {
		return nil, errs.NotFound(empty)
	}
	return items, nil
}

// GetSports handles GET /sports/all.
func (h *Handler) GetSports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	items, err := h.list(ctx, nil, proximity.ParseLimit(r.URL.Query().Get("nResults")), NoSportsMsg)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// SearchSports handles GET /sports/search.
func (h *Handler) SearchSports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	f, err := proximity.BuildFilters(r.URL.Query(), proximity.SportFields)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	items, err := h.list(ctx, f, proximity.ParseLimit(r.URL.Query().Get("nResults")), NoSportsFoundMsg)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// CreateSport handles POST /sports.
func (h *Handler) CreateSport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := utils.IdentityFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found.")
		return
	}
	var in Input
	if err := utils.DecodeBody(r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Check(&in, MissingFieldsMsg); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	sp := &models.Sport{Name: in.Name, Category: in.Category}
	if err := h.store.Insert(ctx, sp); err != nil {
		utils.RespondWithErr(w, errs.Wrap("sports.create", err))
		return
	}
	h.emitter.Emit(ctx, mq.Index{
		Name:       mq.SportCreated,
		EntityType: Collection,
		EntityID:   sp.ID.Hex(),
		Actor:      who.Email,
	})
	utils.RespondWithJSON(w, http.StatusCreated, sp)
}
