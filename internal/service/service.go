// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/quiz"
)

// Screens a client should navigate to after an operation.
const (
	NextLanding = "/"
	NextAuth    = "/auth"
	NextQuiz    = "/quiz"
	NextResult  = "/result"
)

// AccountStore persists accounts and their credentials.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account, passwordHash string) error
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetCredentialByEmail(ctx context.Context, email string) (*model.Account, string, error)
}

// QuizStore persists completed questionnaires.
type QuizStore interface {
	InsertQuizResponse(ctx context.Context, resp *model.QuizResponse) error
	GetLatestQuizResponse(ctx context.Context, userID string) (*model.QuizResponse, error)
}

// StreakStore persists engagement counters and achievements.
type StreakStore interface {
	GetStreak(ctx context.Context, userID string) (*model.Streak, error)
	UpsertStreak(ctx context.Context, s *model.Streak) error
	UnlockAchievements(ctx context.Context, userID string, types []string) (int64, error)
	ListAchievements(ctx context.Context, userID string) ([]*model.Achievement, error)
}

// QuizCache holds drafts, the latest-result cache and the submit lock.
type QuizCache interface {
	GetQuizDraft(ctx context.Context, userID string) (*quiz.State, error)
	SetQuizDraft(ctx context.Context, userID string, st quiz.State) error
	DeleteQuizDraft(ctx context.Context, userID string) error
	GetLatestQuizResponse(ctx context.Context, userID string) (*model.QuizResponse, error)
	SetLatestQuizResponse(ctx context.Context, resp *model.QuizResponse) error
	InvalidateLatestQuizResponse(ctx context.Context, userID string) error
	AcquireSubmitLock(ctx context.Context, userID string) (string, error)
	ReleaseSubmitLock(ctx context.Context, userID, token string) error
}

// Emitter publishes domain events without blocking.
type Emitter interface {
	Emit(eventType, userID string, data map[string]any)
}

type noopEmitter struct{}

func (noopEmitter) Emit(string, string, map[string]any) {}
