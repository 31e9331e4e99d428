package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/arko/letter-drive/internal/api/middleware"
	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LetterHandler struct {
	letterService *service.LetterService
	syncService   *service.SyncService
}

func NewLetterHandler(letterService *service.LetterService, syncService *service.SyncService) *LetterHandler {
	return &LetterHandler{letterService: letterService, syncService: syncService}
}

type LetterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *LetterHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req LetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	letter, err := h.letterService.Create(r.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		log.Printf("ERROR [letter.Create] failed to create letter: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, letter)
}

func (h *LetterHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	letters, err := h.letterService.List(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR [letter.List] failed to list letters: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, letters)
}

func (h *LetterHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	letterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Letter not found")
		return
	}

	letter, err := h.letterService.Get(r.Context(), user.ID, letterID)
	if err != nil {
		if errors.Is(err, domain.ErrLetterNotFound) {
			respondError(w, http.StatusNotFound, "Letter not found")
			return
		}
		log.Printf("ERROR [letter.Get] failed to get letter: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, letter)
}

func (h *LetterHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	letterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Letter not found")
		return
	}

	var req LetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	letter, err := h.letterService.Update(r.Context(), user.ID, letterID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrLetterNotFound) {
			respondError(w, http.StatusNotFound, "Letter not found")
			return
		}
		log.Printf("ERROR [letter.Update] failed to update letter: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, letter)
}

// SaveToDrive runs the remote sync engine for one letter and returns the
// Drive file id the letter is mapped to.
func (h *LetterHandler) SaveToDrive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	letterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Letter not found")
		return
	}

	fileID, err := h.syncService.Sync(r.Context(), user, letterID)
	if err != nil {
		if errors.Is(err, domain.ErrLetterNotFound) {
			respondError(w, http.StatusNotFound, "Letter not found")
			return
		}
		log.Printf("ERROR [letter.SaveToDrive] sync failed: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":     "Letter saved to Google Drive successfully",
		"driveFileId": fileID,
	})
}

func (h *LetterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	letterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Letter not found")
		return
	}

	if err := h.syncService.Delete(r.Context(), user, letterID); err != nil {
		if errors.Is(err, domain.ErrLetterNotFound) {
			respondError(w, http.StatusNotFound, "Letter not found")
			return
		}
		log.Printf("ERROR [letter.Delete] failed to delete letter: %v", err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Letter deleted successfully"})
}
