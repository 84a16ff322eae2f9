package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrQuizResponseNotFound is returned when a user has not submitted the quiz.
var ErrQuizResponseNotFound = errors.New("quiz response not found")

// InsertQuizResponse stores one completed questionnaire.
func (r *Repository) InsertQuizResponse(ctx context.Context, resp *model.QuizResponse) error {
	query := `
		INSERT INTO quiz_responses (id, user_id, name, birth_date, height, weight, age, gender, goal, activity_level, insecurities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var gender *string
	if resp.Gender != "" {
		g := string(resp.Gender)
		gender = &g
	}

	_, err := r.pool.Exec(ctx, query,
		resp.ID,
		resp.UserID,
		resp.Name,
		resp.BirthDate,
		resp.Height,
		resp.Weight,
		resp.Age,
		gender,
		string(resp.Goal),
		string(resp.ActivityLevel),
		resp.Insecurities,
		resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz response: %w", err)
	}

	return nil
}

// GetLatestQuizResponse returns the user's most recent submission.
func (r *Repository) GetLatestQuizResponse(ctx context.Context, userID string) (*model.QuizResponse, error) {
	query := `
		SELECT id, user_id, name, birth_date, height, weight, age, COALESCE(gender, ''), goal, activity_level, insecurities, created_at
		FROM quiz_responses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var (
		resp                  model.QuizResponse
		gender, goal, activity string
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&resp.ID,
		&resp.UserID,
		&resp.Name,
		&resp.BirthDate,
		&resp.Height,
		&resp.Weight,
		&resp.Age,
		&gender,
		&goal,
		&activity,
		&resp.Insecurities,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizResponseNotFound
		}
		return nil, fmt.Errorf("failed to get latest quiz response: %w", err)
	}

	resp.Gender = model.Gender(gender)
	resp.Goal = model.Goal(goal)
	resp.ActivityLevel = model.ActivityLevel(activity)

	return &resp, nil
}
