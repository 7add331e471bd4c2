package server

import (
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/extraction"
	"github.com/jonathan/resume-matcher/internal/server/middleware"
)

// maxUploadBytes caps resume uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// handleUploadResume accepts a multipart resume upload, extracts its
// text, and stores it as the user's latest resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = extraction.TypeForFilename(header.Filename)
	}

	text, err := extraction.Text(contentType, data)
	if err != nil {
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		errorResponse(w, http.StatusUnprocessableEntity, "No text could be extracted from the file")
		return
	}

	if _, err := s.store.InsertResume(r.Context(), userID, text); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save resume")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":    "Resume saved",
		"characters": utf8.RuneCountInString(text),
	})
}
