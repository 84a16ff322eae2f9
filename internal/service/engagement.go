package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/constanfit/constanfit/internal/events"
	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/repository"
)

// StreakView is the streak counter with the achievements it unlocked.
type StreakView struct {
	Streak       *model.Streak        `json:"streak"`
	Achievements []*model.Achievement `json:"achievements"`
}

// EngagementService keeps the day streak driven by tracker activity.
type EngagementService struct {
	streaks  StreakStore
	events   Emitter
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngagementService creates a new EngagementService. Days are counted in loc.
func NewEngagementService(streaks StreakStore, emitter Emitter, loc *time.Location, logger *slog.Logger) *EngagementService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EngagementService{
		streaks:  streaks,
		events:   emitter,
		location: loc,
		logger:   logger.With("component", "engagement"),
		now:      time.Now,
	}
}

// RecordActivity counts activity at the given instant towards the user's streak
// and unlocks any milestone reached.
func (s *EngagementService) RecordActivity(ctx context.Context, userID string, at time.Time) (*model.Streak, error) {
	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrStreakNotFound) {
			return nil, fmt.Errorf("failed to load streak: %w", err)
		}
		streak = &model.Streak{UserID: userID, CreatedAt: s.now().UTC()}
	}

	if !streak.Record(at.In(s.location)) {
		return streak, nil
	}

	if err := s.streaks.UpsertStreak(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	unlocked, err := s.streaks.UnlockAchievements(ctx, userID, model.EarnedAchievements(streak.CurrentStreak))
	if err != nil {
		return nil, fmt.Errorf("failed to unlock achievements: %w", err)
	}
	if unlocked > 0 {
		s.logger.Info("achievements_unlocked", "user_id", userID, "count", unlocked, "streak", streak.CurrentStreak)
	}

	return streak, nil
}

// Streak returns the user's streak and achievements. Users without activity get a zero streak.
func (s *EngagementService) Streak(ctx context.Context, userID string) (*StreakView, error) {
	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrStreakNotFound) {
			return nil, fmt.Errorf("failed to load streak: %w", err)
		}
		streak = &model.Streak{UserID: userID}
	}

	achievements, err := s.streaks.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	if achievements == nil {
		achievements = []*model.Achievement{}
	}

	return &StreakView{Streak: streak, Achievements: achievements}, nil
}

// OnDoseTaken is the medication tracker's activity callback. It records the
// activity and publishes the event; failures are logged and never reach the tracker.
func (s *EngagementService) OnDoseTaken(ctx context.Context, userID string, at time.Time) {
	s.events.Emit(events.TypeMedicationTaken, userID, map[string]any{
		"day": at.In(s.location).Format(model.DayLayout),
	})

	if _, err := s.RecordActivity(ctx, userID, at); err != nil {
		s.logger.Error("failed to record activity", "user_id", userID, "error", err)
	}
}
