// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/constanfit/constanfit/internal/auth"
	"github.com/constanfit/constanfit/internal/handler/dto"
	"github.com/constanfit/constanfit/internal/medication"
	"github.com/constanfit/constanfit/internal/middleware"
	"github.com/constanfit/constanfit/internal/quiz"
	"github.com/constanfit/constanfit/internal/service"
)

// Handler serves the public, unauthenticated pages.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Recurso não encontrado.")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Método não permitido.")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message, Code: code})
}

// writeRedirectError writes an error response that names the screen to go to.
func writeRedirectError(w http.ResponseWriter, status int, code, message, next string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message, Code: code, Next: next})
}

// decodeJSON decodes the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Corpo da requisição muito grande.")
			return false
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Corpo da requisição inválido.")
		return false
	}
	return true
}

// requireUser returns the signed-in user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeRedirectError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Faça login para continuar.", service.NextAuth)
		return "", false
	}
	return userID, true
}

// clientError is what the web client shows for a known failure. Sentinel
// errors stay English for logs; the client only ever sees these messages.
type clientError struct {
	target  error
	status  int
	code    string
	message string
	next    string
}

var clientErrors = []clientError{
	{service.ErrCredentialsRequired, http.StatusBadRequest, "CREDENTIALS_REQUIRED", "Informe e-mail e senha.", ""},
	{service.ErrFullNameRequired, http.StatusBadRequest, "FULL_NAME_REQUIRED", "Informe seu nome completo.", ""},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "E-mail ou senha inválidos.", ""},
	{service.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN", "Este e-mail já está cadastrado.", ""},
	{service.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Conta não encontrada. Faça login novamente.", service.NextAuth},

	{quiz.ErrStepIncomplete, http.StatusUnprocessableEntity, "STEP_INCOMPLETE", "Responda a pergunta para continuar.", ""},
	{quiz.ErrInvalidOption, http.StatusBadRequest, "INVALID_OPTION", "Escolha uma das opções disponíveis.", ""},
	{quiz.ErrInvalidNumber, http.StatusUnprocessableEntity, "INVALID_NUMBER", "Informe um número válido.", ""},
	{quiz.ErrNotComplete, http.StatusUnprocessableEntity, "QUIZ_INCOMPLETE", "Responda todas as perguntas antes de enviar.", ""},
	{service.ErrSubmitInProgress, http.StatusConflict, "SUBMIT_IN_PROGRESS", "Suas respostas já estão sendo enviadas.", ""},
	{service.ErrAlreadySubmitted, http.StatusConflict, "ALREADY_SUBMITTED", "Suas respostas já foram enviadas.", service.NextResult},
	{service.ErrSubmitFailed, http.StatusInternalServerError, "SUBMIT_FAILED", "Não foi possível salvar suas respostas. Tente novamente.", ""},
	{service.ErrNoQuizResponse, http.StatusNotFound, "QUIZ_NOT_COMPLETED", "Você ainda não respondeu o questionário.", service.NextQuiz},

	{medication.ErrNameRequired, http.StatusBadRequest, "INVALID_MEDICATION", "Informe o nome do medicamento.", ""},
	{medication.ErrTimeRequired, http.StatusBadRequest, "INVALID_MEDICATION", "Informe o horário do medicamento.", ""},
	{medication.ErrInvalidTime, http.StatusBadRequest, "INVALID_MEDICATION", "O horário deve estar no formato HH:MM.", ""},
	{medication.ErrEntryNotFound, http.StatusNotFound, "MEDICATION_NOT_FOUND", "Medicamento não encontrado.", ""},
}

// handleServiceError maps service errors to HTTP responses. Store and
// network failures get a generic message; their detail goes to the log only.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	for _, ce := range clientErrors {
		if !errors.Is(err, ce.target) {
			continue
		}
		if ce.status >= http.StatusInternalServerError {
			logger.Error("request_failed", "code", ce.code, "error", err)
		}
		writeJSON(w, ce.status, dto.ErrorResponse{Error: ce.message, Code: ce.code, Next: ce.next})
		return
	}

	logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno. Tente novamente.")
}
