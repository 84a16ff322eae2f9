package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constanfit/constanfit/internal/events"
	"github.com/constanfit/constanfit/internal/model"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestEngagementService_ConsecutiveDays(t *testing.T) {
	streaks := newFakeStreaks()
	svc := NewEngagementService(streaks, nil, time.UTC, testLogger())
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s, err := svc.RecordActivity(ctx, "u1", day.AddDate(0, 0, i))
		require.NoError(t, err)
		assert.Equal(t, i+1, s.CurrentStreak)
	}

	// Twice on the same day counts once.
	s, err := svc.RecordActivity(ctx, "u1", day.AddDate(0, 0, 2).Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, s.CurrentStreak)

	view, err := svc.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Streak.LongestStreak)

	var types []string
	for _, a := range view.Achievements {
		types = append(types, a.AchievementType)
	}
	assert.ElementsMatch(t, []string{model.AchievementFirstActivity, model.AchievementStreak3}, types)
}

func TestEngagementService_GapResetsStreak(t *testing.T) {
	streaks := newFakeStreaks()
	svc := NewEngagementService(streaks, nil, time.UTC, testLogger())
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.RecordActivity(ctx, "u1", day)
	require.NoError(t, err)
	_, err = svc.RecordActivity(ctx, "u1", day.AddDate(0, 0, 1))
	require.NoError(t, err)

	s, err := svc.RecordActivity(ctx, "u1", day.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestEngagementService_DaysFollowLocation(t *testing.T) {
	streaks := newFakeStreaks()
	svc := NewEngagementService(streaks, nil, saoPaulo(t), testLogger())
	ctx := context.Background()

	// 23:30 on March 1st in São Paulo is already March 2nd in UTC.
	_, err := svc.RecordActivity(ctx, "u1", time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	s, err := svc.RecordActivity(ctx, "u1", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentStreak)
}

func TestEngagementService_StreakWithoutActivity(t *testing.T) {
	svc := NewEngagementService(newFakeStreaks(), nil, time.UTC, testLogger())

	view, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Streak.CurrentStreak)
	assert.NotNil(t, view.Achievements)
	assert.Empty(t, view.Achievements)
}

func TestEngagementService_OnDoseTaken(t *testing.T) {
	streaks := newFakeStreaks()
	emitter := &recordingEmitter{}
	svc := NewEngagementService(streaks, emitter, time.UTC, testLogger())

	svc.OnDoseTaken(context.Background(), "u1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, []string{events.TypeMedicationTaken}, emitter.types())
	assert.Equal(t, "2026-03-01", emitter.events[0].Data["day"])
	assert.Equal(t, 1, streaks.streaks["u1"].CurrentStreak)
}

func TestEngagementService_OnDoseTakenSwallowsStoreErrors(t *testing.T) {
	streaks := newFakeStreaks()
	streaks.getErr = errStoreDown
	emitter := &recordingEmitter{}
	svc := NewEngagementService(streaks, emitter, time.UTC, testLogger())

	assert.NotPanics(t, func() {
		svc.OnDoseTaken(context.Background(), "u1", time.Now())
	})
	assert.Len(t, emitter.types(), 1)
}
