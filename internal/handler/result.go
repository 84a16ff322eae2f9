package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/constanfit/constanfit/internal/result"
)

// ResultSource renders the user's latest result.
type ResultSource interface {
	Latest(ctx context.Context, userID string) (*result.Page, error)
}

// ResultHandler serves the result and upsell screen.
type ResultHandler struct {
	svc    ResultSource
	logger *slog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(svc ResultSource, logger *slog.Logger) *ResultHandler {
	return &ResultHandler{svc: svc, logger: logger}
}

// Get handles GET /api/v1/result.
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := h.svc.Latest(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
