package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/constanfit/constanfit/internal/cache"
	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/repository"
	"github.com/constanfit/constanfit/internal/result"
)

// ErrNoQuizResponse is returned when the user has not finished the quiz yet.
var ErrNoQuizResponse = errors.New("quiz not completed yet")

// ResultService builds the result screen from the latest questionnaire.
type ResultService struct {
	responses QuizStore
	cache     QuizCache
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(responses QuizStore, c QuizCache, recorder metrics.Recorder, logger *slog.Logger) *ResultService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ResultService{
		responses: responses,
		cache:     c,
		metrics:   recorder,
		logger:    logger.With("component", "result"),
	}
}

// Latest renders the user's most recent questionnaire.
func (s *ResultService) Latest(ctx context.Context, userID string) (*result.Page, error) {
	resp, err := s.cache.GetLatestQuizResponse(ctx, userID)
	if err == nil {
		s.metrics.IncResultCacheHit()
		return result.Render(resp), nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("result cache unavailable", "user_id", userID, "error", err)
	}
	s.metrics.IncResultCacheMiss()

	resp, err = s.responses.GetLatestQuizResponse(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrQuizResponseNotFound) {
			return nil, ErrNoQuizResponse
		}
		return nil, fmt.Errorf("failed to load quiz response: %w", err)
	}

	if err := s.cache.SetLatestQuizResponse(ctx, resp); err != nil {
		s.logger.Warn("failed to cache result", "user_id", userID, "error", err)
	}

	return result.Render(resp), nil
}
