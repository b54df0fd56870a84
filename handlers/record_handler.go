package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/middleware"
	"github.com/swimboards/recordboard/services"
)

type RecordHandler struct {
	recordService services.RecordService
}

func NewRecordHandler(recordService services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// ListWithHistory returns the list's current records, each with its
// superseded history.
func (h *RecordHandler) ListWithHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	records, err := h.recordService.ListWithHistory(r.Context(), chi.URLParam(r, "listID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Save persists a batch of inserts and updates and returns the new
// history view.
func (h *RecordHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Records []services.RecordInput `json:"records"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	records, err := h.recordService.SaveRecords(r.Context(), chi.URLParam(r, "listID"), input.Records, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Break returns the replacement placeholder for a current record. The
// caller persists it through Save, which demotes the broken record.
func (h *RecordHandler) Break(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	placeholder, err := h.recordService.BreakRecord(r.Context(), chi.URLParam(r, "listID"), chi.URLParam(r, "recordID"), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"record": placeholder}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.recordService.DeleteRecord(r.Context(), chi.URLParam(r, "recordID"), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
