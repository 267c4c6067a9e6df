package comments

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recreo/globals"
	"recreo/utils"
)

// Handler serves the comment routes of one parent collection. param is
// the chi URL parameter naming the parent id.
type Handler struct {
	m     *Manager
	param string
}

func NewHandler(m *Manager, param string) *Handler {
	return &Handler{m: m, param: param}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (globals.Identity, bool) {
	who, ok := utils.IdentityFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found.")
	}
	return who, ok
}

// CreateComment handles POST /{parent}/{id}/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := h.identity(w, r)
	if !ok {
		return
	}
	var in Input
	if err := utils.DecodeBody(r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	c, err := h.m.Create(ctx, chi.URLParam(r, h.param), who, in)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// GetComment is public.
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	v, err := h.m.Get(ctx, chi.URLParam(r, h.param), chi.URLParam(r, "commentId"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := h.identity(w, r)
	if !ok {
		return
	}
	var in Input
	if err := utils.DecodeBody(r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	c, err := h.m.Update(ctx, chi.URLParam(r, h.param), chi.URLParam(r, "commentId"), who, in)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
	defer cancel()

	who, ok := h.identity(w, r)
	if !ok {
		return
	}
	if err := h.m.Delete(ctx, chi.URLParam(r, h.param), chi.URLParam(r, "commentId"), who); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.NoContent(w)
}
