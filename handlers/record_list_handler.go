package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/csvparse"
	"github.com/swimboards/recordboard/middleware"
	"github.com/swimboards/recordboard/services"
)

type RecordListHandler struct {
	listService   services.RecordListService
	recordService services.RecordService
}

func NewRecordListHandler(listService services.RecordListService, recordService services.RecordService) *RecordListHandler {
	return &RecordListHandler{listService: listService, recordService: recordService}
}

func (h *RecordListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateRecordListInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	list, err := h.listService.CreateList(r.Context(), chi.URLParam(r, "clubID"), input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"list": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListForClub returns the club's lists grouped for navigation.
func (h *RecordListHandler) ListForClub(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	groups, err := h.listService.ListForClub(r.Context(), chi.URLParam(r, "clubID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecordListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	list, err := h.listService.GetList(r.Context(), chi.URLParam(r, "listID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"list": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecordListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.UpdateRecordListInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	list, err := h.listService.UpdateList(r.Context(), chi.URLParam(r, "listID"), input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"list": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecordListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.listService.DeleteList(r.Context(), chi.URLParam(r, "listID"), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordListHandler) ExportList(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	data, err := h.recordService.ExportListCSV(r.Context(), chi.URLParam(r, "listID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeCSV(w, "records.csv", data)
}

func (h *RecordListHandler) ExportClub(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	data, err := h.recordService.ExportClubCSV(r.Context(), chi.URLParam(r, "clubID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeCSV(w, "club-records.csv", data)
}

// Template serves the import template with one example row.
func (h *RecordListHandler) Template(w http.ResponseWriter, r *http.Request) {
	writeCSV(w, "records-template.csv", []byte(csvparse.Template()))
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
