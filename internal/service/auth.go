package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/constanfit/constanfit/internal/auth"
	"github.com/constanfit/constanfit/internal/events"
	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/repository"
)

// Auth errors. Their messages are shown to the user as-is.
var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrFullNameRequired    = errors.New("full name is required")
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrEmailTaken          = errors.New("user already registered")
	ErrAccountNotFound     = errors.New("account not found")
)

// SignupInput is the signup form.
type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// AuthResult is returned by a successful login or signup.
type AuthResult struct {
	Account   *model.Account
	Token     string
	ExpiresAt time.Time
	Next      string
}

// AuthService handles login and signup.
type AuthService struct {
	accounts AccountStore
	tokens   *auth.TokenIssuer
	events   Emitter
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountStore, tokens *auth.TokenIssuer, emitter Emitter, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		events:   emitter,
		metrics:  recorder,
		logger:   logger.With("component", "auth"),
		now:      time.Now,
	}
}

// Signup creates an unpaid account and signs the user in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || input.Password == "" {
		s.metrics.IncSignup("failed")
		return nil, ErrCredentialsRequired
	}
	if fullName == "" {
		s.metrics.IncSignup("failed")
		return nil, ErrFullNameRequired
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.metrics.IncSignup("failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(email),
		FullName:  fullName,
		HasPaid:   false,
		CreatedAt: s.now().UTC(),
	}

	if err := s.accounts.CreateAccount(ctx, account, hash); err != nil {
		s.metrics.IncSignup("failed")
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.metrics.IncSignup("success")
	s.events.Emit(events.TypeAccountCreated, account.ID, nil)
	s.logger.Info("account_created", "user_id", account.ID)

	return s.issue(account)
}

// Login verifies the credential and signs the user in.
// has_paid is returned to the client but does not change where the user goes next.
func (s *AuthService) Login(ctx context.Context, cred model.Credential) (*AuthResult, error) {
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		s.metrics.IncLogin("failed")
		return nil, ErrCredentialsRequired
	}

	account, hash, err := s.accounts.GetCredentialByEmail(ctx, cred.Email)
	if err != nil {
		s.metrics.IncLogin("failed")
		if errors.Is(err, repository.ErrAccountNotFound) {
			auth.BurnVerify(cred.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	ok, err := auth.VerifyPassword(cred.Password, hash)
	if err != nil || !ok {
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin("success")
	s.logger.Info("login", "user_id", account.ID, "has_paid", account.HasPaid)

	return s.issue(account)
}

// CurrentAccount returns the signed-in account.
func (s *AuthService) CurrentAccount(ctx context.Context, userID string) (*model.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

func (s *AuthService) issue(account *model.Account) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Account:   account,
		Token:     token,
		ExpiresAt: expiresAt,
		Next:      NextQuiz,
	}, nil
}
