package model

import "time"

// DayLayout is the calendar-day format used for streaks and medication days.
const DayLayout = "2006-01-02"

// Streak tracks consecutive days of activity for a user.
type Streak struct {
	UserID           string     `json:"user_id"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Record registers activity on day and reports whether the streak changed.
// Only the calendar date of day is considered.
func (s *Streak) Record(day time.Time) bool {
	day = truncateDay(day)

	if s.LastActivityDate != nil {
		last := truncateDay(*s.LastActivityDate)
		switch {
		case !day.After(last):
			// Same day or an older event: nothing to count.
			return false
		case last.AddDate(0, 0, 1).Equal(day):
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = &day
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Achievement type constants.
const (
	AchievementFirstActivity = "first_activity"
	AchievementStreak3       = "streak_3"
	AchievementStreak7       = "streak_7"
	AchievementStreak30      = "streak_30"
)

// streakMilestones maps streak lengths to the achievement they unlock.
var streakMilestones = []struct {
	Days int
	Type string
}{
	{1, AchievementFirstActivity},
	{3, AchievementStreak3},
	{7, AchievementStreak7},
	{30, AchievementStreak30},
}

// EarnedAchievements returns every achievement type a streak of this length qualifies for.
func EarnedAchievements(current int) []string {
	var earned []string
	for _, m := range streakMilestones {
		if current >= m.Days {
			earned = append(earned, m.Type)
		}
	}
	return earned
}

// Achievement is an unlocked engagement badge.
type Achievement struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	AchievementType string    `json:"achievement_type"`
	UnlockedAt      time.Time `json:"unlocked_at"`
}
