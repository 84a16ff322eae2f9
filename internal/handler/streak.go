package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/constanfit/constanfit/internal/service"
)

// StreakSource reads a user's engagement streak.
type StreakSource interface {
	Streak(ctx context.Context, userID string) (*service.StreakView, error)
}

// StreakHandler serves the engagement streak.
type StreakHandler struct {
	svc    StreakSource
	logger *slog.Logger
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(svc StreakSource, logger *slog.Logger) *StreakHandler {
	return &StreakHandler{svc: svc, logger: logger}
}

// Get handles GET /api/v1/streak.
func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Streak(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
