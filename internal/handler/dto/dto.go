// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/constanfit/constanfit/internal/model"
)

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	HasPaid   bool      `json:"has_paid"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
	Next      string          `json:"next"`
}

// QuizFieldRequest sets the answer of the active question.
type QuizFieldRequest struct {
	Value string `json:"value"`
}

// QuizSubmitResponse is returned when the final answer stored the questionnaire.
type QuizSubmitResponse struct {
	ResponseID string `json:"response_id"`
	Next       string `json:"next"`
}

// CreateMedicationRequest represents the request body for adding a medication.
type CreateMedicationRequest struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// MedicationListResponse is today's medications with the taken summary.
type MedicationListResponse struct {
	Data    []*model.MedicationEntry `json:"data"`
	Summary model.MedicationSummary  `json:"summary"`
}

// ToggleResponse reports the new taken state of a medication.
type ToggleResponse struct {
	ID    string `json:"id"`
	Taken bool   `json:"taken"`
}

// ErrorResponse represents an API error.
// Next, when set, names the screen the client should go to.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Next  string `json:"next,omitempty"`
}

// ToAccountResponse converts an Account model to AccountResponse DTO.
func ToAccountResponse(a *model.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		HasPaid:   a.HasPaid,
		CreatedAt: a.CreatedAt,
	}
}
