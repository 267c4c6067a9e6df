// Package locations serves the read side of recreation locations:
// listing, proximity, attribute search, codelists and the detail view.
package locations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/codelist"
	"recreo/errs"
	"recreo/globals"
	"recreo/models"
	"recreo/proximity"
	"recreo/utils"
)

const Collection = "Locations"

var Messages = proximity.Messages{
	Empty:       "No locations found.",
	EmptySearch: "No recreation locations found.",
}

var CodelistFields = []string{"category", "type", "sports"}

type Store interface {
	proximity.Source[*models.Location]
	codelist.Source
	Get(ctx context.Context, id primitive.ObjectID) (*models.Location, error)
}

type Handler struct {
	store    Store
	engine   *proximity.Engine[*models.Location]
	codes    *codelist.Cache
	codelist codelist.List
}

func NewHandler(store Store, codes *codelist.Cache) *Handler {
	return &Handler{
		store:    store,
		engine:   proximity.NewEngine[*models.Location](store, Messages),
		codes:    codes,
		codelist: codelist.List{Collection: Collection, Allowed: CodelistFields, Source: store},
	}
}

// Get loads one location with its comments. Malformed ids read as not
// found.
func (h *Handler) Get(ctx context.Context, id string) (*models.Location, error) {
	notFound := errs.NotFound(fmt.Sprintf("Location with id '%s' not found.", id))
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound
	}
	loc, err := h.store.Get(ctx, oid)
	if errors.Is(err, errs.ErrNoDocument) {
		return nil, notFound
	}
	if err != nil {
		return nil, errs.Wrap("locations.get", err)
	}
	loc.DetailView()
	return loc, nil
}

// GetLocations handles GET /locations.
func (h *Handler) GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	items, err := h.engine.ListAll(ctx, proximity.ParseLimit(r.URL.Query().Get("nResults")))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetLocationsNear handles GET /locations/distance.
func (h *Handler) GetLocationsNear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	q, err := proximity.ParseNear(r.URL.Query(), proximity.LocationFields)
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

// SearchLocations handles GET /locations/search.
func (h *Handler) SearchLocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	f, err := proximity.BuildFilters(r.URL.Query(), proximity.LocationFields)
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

// GetLocation handles GET /locations/{locationId}.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	loc, err := h.Get(ctx, chi.URLParam(r, "locationId"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loc)
}
