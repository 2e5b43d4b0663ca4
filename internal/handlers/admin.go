package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
)

type statsRepository interface {
	Stats(ctx context.Context) (*models.ChatStats, error)
}

type AdminHandler struct {
	statsRepo statsRepository
}

func NewAdminHandler(statsRepo statsRepository) *AdminHandler {
	return &AdminHandler{statsRepo: statsRepo}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsRepo.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load chat stats", r))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}
