package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ErrStreakNotFound is returned when a user has no recorded activity.
var ErrStreakNotFound = errors.New("streak not found")

// GetStreak returns the user's streak counters.
func (r *Repository) GetStreak(ctx context.Context, userID string) (*model.Streak, error) {
	query := `
		SELECT user_id, current_streak, longest_streak, last_activity_date, created_at
		FROM streaks
		WHERE user_id = $1
	`

	var s model.Streak
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.CurrentStreak,
		&s.LongestStreak,
		&s.LastActivityDate,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStreakNotFound
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return &s, nil
}

// UpsertStreak writes the streak counters for a user.
func (r *Repository) UpsertStreak(ctx context.Context, s *model.Streak) error {
	query := `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_activity_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    last_activity_date = EXCLUDED.last_activity_date
	`

	_, err := r.pool.Exec(ctx, query,
		s.UserID,
		s.CurrentStreak,
		s.LongestStreak,
		s.LastActivityDate,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert streak: %w", err)
	}

	return nil
}

// UnlockAchievements records every achievement type not yet held by the user.
// It returns the number of newly unlocked achievements.
func (r *Repository) UnlockAchievements(ctx context.Context, userID string, types []string) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO achievements (user_id, achievement_type)
		SELECT $1, t FROM unnest($2::text[]) AS t
		ON CONFLICT (user_id, achievement_type) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, userID, pq.Array(types))
	if err != nil {
		return 0, fmt.Errorf("failed to unlock achievements: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListAchievements returns the user's achievements, oldest first.
func (r *Repository) ListAchievements(ctx context.Context, userID string) ([]*model.Achievement, error) {
	query := `
		SELECT id::text, user_id, achievement_type, unlocked_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.AchievementType, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return achievements, nil
}
