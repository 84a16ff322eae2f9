package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/quiz"
)

// Cache key prefixes and TTLs.
const (
	quizDraftPrefix  = "quiz:draft:"
	quizLatestPrefix = "quiz:latest:"
	quizSubmitPrefix = "quiz:submit:"

	// DraftTTL is how long an unfinished questionnaire is kept.
	DraftTTL = 24 * time.Hour

	// LatestResultTTL is the TTL for the cached most recent response.
	LatestResultTTL = time.Hour

	// SubmitLockTTL bounds how long a submission can hold the lock.
	SubmitLockTTL = 15 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss   = errors.New("cache miss")
	ErrLocked      = errors.New("already locked")
	ErrLockNotHeld = errors.New("lock not held")
)

// GetQuizDraft returns the saved wizard state for userID.
// Returns ErrCacheMiss if the user has no draft.
func (c *Cache) GetQuizDraft(ctx context.Context, userID string) (*quiz.State, error) {
	data, err := c.client.Get(ctx, quizDraftPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get draft failed: %w", err)
	}

	var st quiz.State
	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupted entry - start over
		return nil, ErrCacheMiss
	}
	return &st, nil
}

// SetQuizDraft saves the wizard state for userID and refreshes its TTL.
func (c *Cache) SetQuizDraft(ctx context.Context, userID string, st quiz.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := c.client.Set(ctx, quizDraftPrefix+userID, data, DraftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// DeleteQuizDraft discards the user's draft.
func (c *Cache) DeleteQuizDraft(ctx context.Context, userID string) error {
	return c.client.Del(ctx, quizDraftPrefix+userID).Err()
}

// GetLatestQuizResponse returns the cached most recent response.
// Returns ErrCacheMiss if not cached.
func (c *Cache) GetLatestQuizResponse(ctx context.Context, userID string) (*model.QuizResponse, error) {
	data, err := c.client.Get(ctx, quizLatestPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get latest failed: %w", err)
	}

	var resp model.QuizResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, ErrCacheMiss
	}
	return &resp, nil
}

// SetLatestQuizResponse caches the most recent response.
func (c *Cache) SetLatestQuizResponse(ctx context.Context, resp *model.QuizResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal quiz response: %w", err)
	}
	return c.client.Set(ctx, quizLatestPrefix+resp.UserID, data, LatestResultTTL).Err()
}

// InvalidateLatestQuizResponse drops the cached response after a new submission.
func (c *Cache) InvalidateLatestQuizResponse(ctx context.Context, userID string) error {
	return c.client.Del(ctx, quizLatestPrefix+userID).Err()
}

// AcquireSubmitLock marks a submission for userID as in progress and returns
// the token that owns the lock.
// Returns ErrLocked when another submission holds the lock.
func (c *Cache) AcquireSubmitLock(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, quizSubmitPrefix+userID, token, SubmitLockTTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !ok {
		return "", ErrLocked
	}
	return token, nil
}

// releaseLockScript deletes the key only while it still holds the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// ReleaseSubmitLock clears the submission lock if token still owns it.
// Returns ErrLockNotHeld when the lock expired or was taken over.
func (c *Cache) ReleaseSubmitLock(ctx context.Context, userID, token string) error {
	n, err := releaseLockScript.Run(ctx, c.client, []string{quizSubmitPrefix + userID}, token).Int64()
	if err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
