package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/constanfit/constanfit/internal/cache"
	"github.com/constanfit/constanfit/internal/events"
	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/quiz"
)

// Quiz errors.
var (
	ErrSubmitInProgress = errors.New("quiz submission already in progress")
	ErrSubmitFailed     = errors.New("quiz submission failed")
	// ErrAlreadySubmitted means the draft was consumed by another submission
	// while this request was holding an older copy of it.
	ErrAlreadySubmitted = errors.New("quiz already submitted")
)

// QuizView is the wizard as the quiz screen renders it.
type QuizView struct {
	Step       int       `json:"step"`
	Total      int       `json:"total"`
	Question   quiz.Step `json:"question"`
	Value      string    `json:"value"`
	CanAdvance bool      `json:"can_advance"`
	CanRetreat bool      `json:"can_retreat"`
	IsLast     bool      `json:"is_last"`
}

// AdvanceResult is returned by Advance. Submitted is set when the final
// question was answered and the questionnaire was stored.
type AdvanceResult struct {
	View      *QuizView
	Submitted *model.QuizResponse
	Next      string
}

// QuizService drives a user's questionnaire between requests.
type QuizService struct {
	responses QuizStore
	drafts    QuizCache
	events    Emitter
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// NewQuizService creates a new QuizService.
func NewQuizService(responses QuizStore, drafts QuizCache, emitter Emitter, recorder metrics.Recorder, logger *slog.Logger) *QuizService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QuizService{
		responses: responses,
		drafts:    drafts,
		events:    emitter,
		metrics:   recorder,
		logger:    logger.With("component", "quiz"),
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// State returns the user's current question.
func (s *QuizService) State(ctx context.Context, userID string) (*QuizView, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newQuizView(w), nil
}

// SetField answers the current question. It never moves the wizard.
func (s *QuizService) SetField(ctx context.Context, userID, value string) (*QuizView, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := w.SetField(value); err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, w); err != nil {
		return nil, err
	}
	return newQuizView(w), nil
}

// Retreat goes back one question.
func (s *QuizService) Retreat(ctx context.Context, userID string) (*QuizView, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.Retreat() {
		s.metrics.IncQuizStep("retreat")
		if err := s.save(ctx, userID, w); err != nil {
			return nil, err
		}
	}
	return newQuizView(w), nil
}

// Reset discards the draft and starts over.
func (s *QuizService) Reset(ctx context.Context, userID string) (*QuizView, error) {
	if err := s.drafts.DeleteQuizDraft(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to reset quiz: %w", err)
	}
	return newQuizView(quiz.New()), nil
}

// Advance moves to the next question, or submits the questionnaire when the
// final question is answered. A failed submission leaves the user on the
// final question with their answers intact.
func (s *QuizService) Advance(ctx context.Context, userID string) (*AdvanceResult, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome, err := w.Advance()
	if err != nil {
		s.metrics.IncQuizStep("blocked")
		return nil, err
	}

	if outcome == quiz.Moved {
		s.metrics.IncQuizStep("advance")
		if err := s.save(ctx, userID, w); err != nil {
			return nil, err
		}
		return &AdvanceResult{View: newQuizView(w), Next: NextQuiz}, nil
	}

	resp, err := s.submit(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	return &AdvanceResult{View: newQuizView(w), Submitted: resp, Next: NextResult}, nil
}

func (s *QuizService) submit(ctx context.Context, userID string, w *quiz.Wizard) (*model.QuizResponse, error) {
	if _, err := w.Answers(userID); err != nil {
		s.metrics.IncQuizSubmitted("invalid")
		return nil, err
	}

	token, err := s.drafts.AcquireSubmitLock(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrLocked) {
			return nil, ErrSubmitInProgress
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer func() {
		if err := s.drafts.ReleaseSubmitLock(context.WithoutCancel(ctx), userID, token); err != nil {
			s.logger.Warn("failed to release submit lock", "user_id", userID, "error", err)
		}
	}()

	// Under the lock, answer from the stored draft. A submission that
	// finished meanwhile has deleted it.
	st, err := s.drafts.GetQuizDraft(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.IncQuizSubmitted("duplicate")
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	resp, err := quiz.Restore(*st).Answers(userID)
	if err != nil {
		s.metrics.IncQuizSubmitted("invalid")
		return nil, err
	}

	now := s.now().UTC()
	resp.ID = s.newID(now)
	resp.CreatedAt = now

	start := time.Now()
	err = s.responses.InsertQuizResponse(ctx, resp)
	s.metrics.ObserveStoreDuration("insert_quiz_response", time.Since(start))
	if err != nil {
		s.metrics.IncQuizSubmitted("failed")
		s.logger.Error("quiz submission failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	if err := s.drafts.DeleteQuizDraft(ctx, userID); err != nil {
		s.logger.Warn("failed to clear quiz draft", "user_id", userID, "error", err)
	}
	if err := s.drafts.InvalidateLatestQuizResponse(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate result cache", "user_id", userID, "error", err)
	}

	s.metrics.IncQuizSubmitted("success")
	s.events.Emit(events.TypeQuizSubmitted, userID, map[string]any{
		"response_id":    resp.ID,
		"goal":           string(resp.Goal),
		"activity_level": string(resp.ActivityLevel),
	})
	s.logger.Info("quiz_submitted", "user_id", userID, "response_id", resp.ID)

	return resp, nil
}

func (s *QuizService) load(ctx context.Context, userID string) (*quiz.Wizard, error) {
	st, err := s.drafts.GetQuizDraft(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return quiz.New(), nil
		}
		return nil, fmt.Errorf("failed to load quiz draft: %w", err)
	}
	return quiz.Restore(*st), nil
}

func (s *QuizService) save(ctx context.Context, userID string, w *quiz.Wizard) error {
	if err := s.drafts.SetQuizDraft(ctx, userID, w.State()); err != nil {
		return fmt.Errorf("failed to save quiz draft: %w", err)
	}
	return nil
}

func (s *QuizService) newID(at time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

func newQuizView(w *quiz.Wizard) *QuizView {
	return &QuizView{
		Step:       w.StepIndex(),
		Total:      len(quiz.Steps),
		Question:   w.Current(),
		Value:      w.Value(),
		CanAdvance: w.CanAdvance(),
		CanRetreat: w.StepIndex() > 0,
		IsLast:     w.IsLast(),
	}
}
