package model

import (
	"errors"
	"strings"
	"time"
)

// ErrUnknownOption is returned when a value does not match any option of a closed set.
var ErrUnknownOption = errors.New("unknown option")

// Goal is the user's main fitness objective.
type Goal string

// Goal values.
const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalGainMuscle     Goal = "gain_muscle"
	GoalMaintainHealth Goal = "maintain_health"
)

// Goals lists every goal in display order.
var Goals = []Goal{GoalLoseWeight, GoalGainMuscle, GoalMaintainHealth}

var goalLabels = map[Goal]string{
	GoalLoseWeight:     "Emagrecer",
	GoalGainMuscle:     "Ganhar massa muscular",
	GoalMaintainHealth: "Manter saúde",
}

// Label returns the display text for the goal.
func (g Goal) Label() string { return goalLabels[g] }

// IsValid reports whether g is one of the known goals.
func (g Goal) IsValid() bool {
	_, ok := goalLabels[g]
	return ok
}

// ParseGoal accepts either a goal code or its display label.
func ParseGoal(s string) (Goal, error) {
	for _, g := range Goals {
		if matchOption(s, string(g), g.Label()) {
			return g, nil
		}
	}
	return "", ErrUnknownOption
}

// ActivityLevel describes how much the user already trains.
type ActivityLevel string

// ActivityLevel values.
const (
	ActivityBeginner     ActivityLevel = "beginner"
	ActivityIntermediate ActivityLevel = "intermediate"
	ActivityAdvanced     ActivityLevel = "advanced"
)

// ActivityLevels lists every level in display order.
var ActivityLevels = []ActivityLevel{ActivityBeginner, ActivityIntermediate, ActivityAdvanced}

var activityLabels = map[ActivityLevel]string{
	ActivityBeginner:     "Iniciante",
	ActivityIntermediate: "Intermediário",
	ActivityAdvanced:     "Avançado",
}

// Label returns the display text for the level.
func (a ActivityLevel) Label() string { return activityLabels[a] }

// IsValid reports whether a is one of the known levels.
func (a ActivityLevel) IsValid() bool {
	_, ok := activityLabels[a]
	return ok
}

// ParseActivityLevel accepts either a level code or its display label.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	for _, a := range ActivityLevels {
		if matchOption(s, string(a), a.Label()) {
			return a, nil
		}
	}
	return "", ErrUnknownOption
}

// Gender is optional; the zero value means the user skipped the question.
type Gender string

// Gender values.
const (
	GenderUndisclosed Gender = "undisclosed"
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
)

// Genders lists every gender option in display order.
var Genders = []Gender{GenderUndisclosed, GenderMale, GenderFemale, GenderOther}

var genderLabels = map[Gender]string{
	GenderUndisclosed: "Prefiro não informar",
	GenderMale:        "Masculino",
	GenderFemale:      "Feminino",
	GenderOther:       "Outro",
}

// Label returns the display text for the gender.
func (g Gender) Label() string { return genderLabels[g] }

// IsValid reports whether g is empty or one of the known options.
func (g Gender) IsValid() bool {
	if g == "" {
		return true
	}
	_, ok := genderLabels[g]
	return ok
}

// ParseGender accepts a gender code or label. Blank input yields the empty Gender.
func ParseGender(s string) (Gender, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	for _, g := range Genders {
		if matchOption(s, string(g), g.Label()) {
			return g, nil
		}
	}
	return "", ErrUnknownOption
}

func matchOption(input, code, label string) bool {
	input = strings.TrimSpace(input)
	return input == code || input == label
}

// QuizResponse is one completed intake questionnaire.
type QuizResponse struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	BirthDate     string        `json:"birth_date"`
	Height        float64       `json:"height"`
	Weight        float64       `json:"weight"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender,omitempty"`
	Goal          Goal          `json:"goal"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Insecurities  string        `json:"insecurities"`
	CreatedAt     time.Time     `json:"created_at"`
}
