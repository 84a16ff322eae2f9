package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/constanfit/constanfit/internal/handler/dto"
	"github.com/constanfit/constanfit/internal/medication"
	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/model"
)

// MedicationTracker manages a user's daily medication reminders.
type MedicationTracker interface {
	Add(ctx context.Context, ownerID, name, at string) (*model.MedicationEntry, error)
	ToggleTaken(ctx context.Context, ownerID, id string) (bool, error)
	Delete(ctx context.Context, ownerID, id string) error
	Today(ctx context.Context, ownerID string) ([]*model.MedicationEntry, error)
}

// MedicationHandler handles the medication tracker endpoints.
type MedicationHandler struct {
	tracker MedicationTracker
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(tracker MedicationTracker, recorder metrics.Recorder, logger *slog.Logger) *MedicationHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MedicationHandler{tracker: tracker, metrics: recorder, logger: logger}
}

// List handles GET /api/v1/medications.
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.tracker.Today(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MedicationListResponse{
		Data:    entries,
		Summary: medication.Summarize(entries),
	})
}

// Create handles POST /api/v1/medications.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateMedicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.tracker.Add(r.Context(), userID, req.Name, req.Time)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.metrics.IncMedicationAction("add")
	writeJSON(w, http.StatusCreated, entry)
}

// Toggle handles POST /api/v1/medications/{id}/toggle.
func (h *MedicationHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	taken, err := h.tracker.ToggleTaken(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if taken {
		h.metrics.IncMedicationAction("taken")
	} else {
		h.metrics.IncMedicationAction("untaken")
	}
	writeJSON(w, http.StatusOK, dto.ToggleResponse{ID: id, Taken: taken})
}

// Delete handles DELETE /api/v1/medications/{id}.
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.tracker.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.metrics.IncMedicationAction("delete")
	w.WriteHeader(http.StatusNoContent)
}
