package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/middleware"
	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/services"
)

type MemberHandler struct {
	membershipService services.MembershipService
}

func NewMemberHandler(membershipService services.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	members, err := h.membershipService.ListMembers(r.Context(), chi.URLParam(r, "clubID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"members": members}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Email string          `json:"email"`
		Role  models.ClubRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	membership, err := h.membershipService.AddMember(r.Context(), chi.URLParam(r, "clubID"), input.Email, input.Role, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"membership": membership}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Role models.ClubRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.membershipService.UpdateRole(r.Context(), chi.URLParam(r, "clubID"), chi.URLParam(r, "userID"), input.Role, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	err = h.membershipService.RemoveMember(r.Context(), chi.URLParam(r, "clubID"), chi.URLParam(r, "userID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		NewOwnerID string `json:"new_owner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.NewOwnerID == "" {
		badRequestResponse(w, r, errors.New("new_owner_id is required"))
		return
	}

	err = h.membershipService.TransferOwnership(r.Context(), chi.URLParam(r, "clubID"), input.NewOwnerID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
