package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/constanfit/constanfit/internal/handler/dto"
	"github.com/constanfit/constanfit/internal/service"
)

// QuizFlow drives a user's questionnaire.
type QuizFlow interface {
	State(ctx context.Context, userID string) (*service.QuizView, error)
	SetField(ctx context.Context, userID, value string) (*service.QuizView, error)
	Advance(ctx context.Context, userID string) (*service.AdvanceResult, error)
	Retreat(ctx context.Context, userID string) (*service.QuizView, error)
	Reset(ctx context.Context, userID string) (*service.QuizView, error)
}

// QuizHandler handles the quiz wizard endpoints.
type QuizHandler struct {
	svc    QuizFlow
	logger *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(svc QuizFlow, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{svc: svc, logger: logger}
}

// Get handles GET /api/v1/quiz.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.svc.State(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetField handles PUT /api/v1/quiz/field.
func (h *QuizHandler) SetField(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.QuizFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.svc.SetField(r.Context(), userID, req.Value)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /api/v1/quiz/advance.
// On the final question a successful advance submits the questionnaire.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Advance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if res.Submitted != nil {
		writeJSON(w, http.StatusCreated, dto.QuizSubmitResponse{
			ResponseID: res.Submitted.ID,
			Next:       res.Next,
		})
		return
	}
	writeJSON(w, http.StatusOK, res.View)
}

// Retreat handles POST /api/v1/quiz/retreat.
func (h *QuizHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Retreat(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Reset handles DELETE /api/v1/quiz.
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Reset(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
