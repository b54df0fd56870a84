package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/services"
)

// PublicHandler serves the unauthenticated embed API. CORS is applied at
// the router so any club website can fetch its own board.
type PublicHandler struct {
	publicService services.PublicService
}

func NewPublicHandler(publicService services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

func (h *PublicHandler) ClubPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.publicService.ClubPage(r.Context(), chi.URLParam(r, "clubSlug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) ClubRecords(w http.ResponseWriter, r *http.Request) {
	listSlug := r.URL.Query().Get("list")

	records, err := h.publicService.ClubRecords(r.Context(), chi.URLParam(r, "clubSlug"), listSlug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, records, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
