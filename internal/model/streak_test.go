package model

import (
	"slices"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreak_Record(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		days        []string
		wantCurrent int
		wantLongest int
	}{
		{"first activity", []string{"2026-03-01"}, 1, 1},
		{"consecutive days", []string{"2026-03-01", "2026-03-02", "2026-03-03"}, 3, 3},
		{"same day twice", []string{"2026-03-01", "2026-03-01"}, 1, 1},
		{"gap resets", []string{"2026-03-01", "2026-03-02", "2026-03-05"}, 1, 2},
		{"month boundary", []string{"2026-02-28", "2026-03-01"}, 2, 2},
		{"older event ignored", []string{"2026-03-05", "2026-03-01"}, 1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var s Streak
			for _, d := range tt.days {
				s.Record(day(d))
			}
			if s.CurrentStreak != tt.wantCurrent {
				t.Errorf("current = %d, want %d", s.CurrentStreak, tt.wantCurrent)
			}
			if s.LongestStreak != tt.wantLongest {
				t.Errorf("longest = %d, want %d", s.LongestStreak, tt.wantLongest)
			}
		})
	}
}

func TestStreak_RecordReportsChange(t *testing.T) {
	t.Parallel()

	var s Streak
	if !s.Record(day("2026-03-01")) {
		t.Fatal("expected first record to change streak")
	}
	if s.Record(day("2026-03-01").Add(5 * time.Hour)) {
		t.Fatal("expected same-day record to be a no-op")
	}
}

func TestEarnedAchievements(t *testing.T) {
	t.Parallel()

	if got := EarnedAchievements(0); len(got) != 0 {
		t.Errorf("expected none for 0, got %v", got)
	}

	got := EarnedAchievements(7)
	want := []string{AchievementFirstActivity, AchievementStreak3, AchievementStreak7}
	if !slices.Equal(got, want) {
		t.Errorf("EarnedAchievements(7) = %v, want %v", got, want)
	}
}
