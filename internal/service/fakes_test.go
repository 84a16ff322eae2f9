package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/constanfit/constanfit/internal/cache"
	"github.com/constanfit/constanfit/internal/model"
	"github.com/constanfit/constanfit/internal/quiz"
	"github.com/constanfit/constanfit/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAccounts struct {
	mu       sync.Mutex
	byID     map[string]*model.Account
	hashes   map[string]string
	failWith error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[string]*model.Account{}, hashes: map[string]string{}}
}

func (f *fakeAccounts) CreateAccount(_ context.Context, account *model.Account, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, a := range f.byID {
		if a.Email == account.Email {
			return repository.ErrEmailExists
		}
	}
	f.byID[account.ID] = account
	f.hashes[account.ID] = passwordHash
	return nil
}

func (f *fakeAccounts) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) GetCredentialByEmail(_ context.Context, email string) (*model.Account, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return a, f.hashes[a.ID], nil
		}
	}
	return nil, "", repository.ErrAccountNotFound
}

type fakeQuizStore struct {
	mu        sync.Mutex
	responses []*model.QuizResponse
	failWith  error
	reads     int
}

func (f *fakeQuizStore) InsertQuizResponse(_ context.Context, resp *model.QuizResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeQuizStore) GetLatestQuizResponse(_ context.Context, userID string) (*model.QuizResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	for i := len(f.responses) - 1; i >= 0; i-- {
		if f.responses[i].UserID == userID {
			return f.responses[i], nil
		}
	}
	return nil, repository.ErrQuizResponseNotFound
}

type fakeCache struct {
	mu     sync.Mutex
	drafts map[string]quiz.State
	latest map[string]*model.QuizResponse
	locks  map[string]string
	tokens int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		drafts: map[string]quiz.State{},
		latest: map[string]*model.QuizResponse{},
		locks:  map[string]string{},
	}
}

func (f *fakeCache) GetQuizDraft(_ context.Context, userID string) (*quiz.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.drafts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &st, nil
}

func (f *fakeCache) SetQuizDraft(_ context.Context, userID string, st quiz.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[userID] = st
	return nil
}

func (f *fakeCache) DeleteQuizDraft(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, userID)
	return nil
}

func (f *fakeCache) GetLatestQuizResponse(_ context.Context, userID string) (*model.QuizResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.latest[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return resp, nil
}

func (f *fakeCache) SetLatestQuizResponse(_ context.Context, resp *model.QuizResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest[resp.UserID] = resp
	return nil
}

func (f *fakeCache) InvalidateLatestQuizResponse(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.latest, userID)
	return nil
}

func (f *fakeCache) AcquireSubmitLock(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[userID] != "" {
		return "", cache.ErrLocked
	}
	f.tokens++
	token := fmt.Sprintf("token-%d", f.tokens)
	f.locks[userID] = token
	return token, nil
}

func (f *fakeCache) ReleaseSubmitLock(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[userID] != token {
		return cache.ErrLockNotHeld
	}
	delete(f.locks, userID)
	return nil
}

type fakeStreaks struct {
	mu           sync.Mutex
	streaks      map[string]*model.Streak
	achievements map[string]map[string]time.Time
	getErr       error
}

func newFakeStreaks() *fakeStreaks {
	return &fakeStreaks{
		streaks:      map[string]*model.Streak{},
		achievements: map[string]map[string]time.Time{},
	}
}

func (f *fakeStreaks) GetStreak(_ context.Context, userID string) (*model.Streak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.streaks[userID]
	if !ok {
		return nil, repository.ErrStreakNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStreaks) UpsertStreak(_ context.Context, s *model.Streak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.streaks[s.UserID] = &cp
	return nil
}

func (f *fakeStreaks) UnlockAchievements(_ context.Context, userID string, types []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.achievements[userID] == nil {
		f.achievements[userID] = map[string]time.Time{}
	}
	var n int64
	for _, t := range types {
		if _, ok := f.achievements[userID][t]; ok {
			continue
		}
		f.achievements[userID][t] = time.Now()
		n++
	}
	return n, nil
}

func (f *fakeStreaks) ListAchievements(_ context.Context, userID string) ([]*model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Achievement
	for t, at := range f.achievements[userID] {
		out = append(out, &model.Achievement{ID: t, UserID: userID, AchievementType: t, UnlockedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementType < out[j].AchievementType })
	return out, nil
}

type emitted struct {
	Type   string
	UserID string
	Data   map[string]any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEmitter) Emit(eventType, userID string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{Type: eventType, UserID: userID, Data: data})
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("store down")
