package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/middleware"
	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

type importFileRequest struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	Title      string `json:"title,omitempty"`
	Slug       string `json:"slug,omitempty"`
	CourseType string `json:"course_type,omitempty"`
}

// Run imports a batch of CSV files into the club. List title, slug and
// course type are derived from each filename unless overridden per file.
func (h *ImportHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input []importFileRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input) == 0 {
		badRequestResponse(w, r, errors.New("at least one CSV file is required"))
		return
	}

	files := make([]services.ImportFile, 0, len(input))
	for _, in := range input {
		if in.Filename == "" {
			badRequestResponse(w, r, errors.New("every file needs a filename"))
			return
		}
		files = append(files, services.ImportFile{
			Filename:   in.Filename,
			Title:      in.Title,
			Slug:       in.Slug,
			CourseType: models.CourseType(strings.ToUpper(in.CourseType)),
			Data:       []byte(in.Content),
		})
	}

	clubID := chi.URLParam(r, "clubID")
	progress := func(current, total int) {
		slog.Info("bulk import progress", slog.String("club_id", clubID), slog.Int("current", current), slog.Int("total", total))
	}

	result, err := h.importService.Run(r.Context(), clubID, files, userID, progress)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
