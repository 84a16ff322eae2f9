package quiz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/constanfit/constanfit/internal/model"
)

// Wizard errors.
var (
	ErrStepIncomplete = errors.New("current question requires an answer")
	ErrInvalidOption  = errors.New("value is not one of the question's options")
	ErrInvalidNumber  = errors.New("value must be a number")
	ErrNotComplete    = errors.New("questionnaire is not complete")
)

// Outcome reports what Advance did.
type Outcome int

const (
	// Moved means the wizard stepped forward.
	Moved Outcome = iota
	// SubmitDue means the final question is answered and the answers should be submitted.
	SubmitDue
)

// State is the serializable form of a wizard, used to persist drafts.
type State struct {
	Step   int                 `json:"step"`
	Values map[FieldKey]string `json:"values"`
}

// Wizard walks the user through Steps one at a time.
// The zero value is not usable; call New or Restore.
type Wizard struct {
	step   int
	values map[FieldKey]string
}

// New returns a wizard on the first step with every field empty.
func New() *Wizard {
	values := make(map[FieldKey]string, len(Steps))
	for _, s := range Steps {
		values[s.Key] = ""
	}
	return &Wizard{values: values}
}

// Restore rebuilds a wizard from a saved state, clamping the step into range
// and dropping unknown keys.
func Restore(st State) *Wizard {
	w := New()
	w.step = min(max(st.Step, 0), LastStep)
	for _, s := range Steps {
		if v, ok := st.Values[s.Key]; ok {
			w.values[s.Key] = v
		}
	}
	return w
}

// State returns a copy of the wizard's state.
func (w *Wizard) State() State {
	values := make(map[FieldKey]string, len(w.values))
	for k, v := range w.values {
		values[k] = v
	}
	return State{Step: w.step, Values: values}
}

// StepIndex returns the zero-based current step.
func (w *Wizard) StepIndex() int { return w.step }

// Current returns the active question.
func (w *Wizard) Current() Step { return Steps[w.step] }

// Value returns the current answer for the active question.
func (w *Wizard) Value() string { return w.values[w.Current().Key] }

// IsLast reports whether the active question is the final one.
func (w *Wizard) IsLast() bool { return w.step == LastStep }

// SetField overwrites the answer of the active question only.
// Select questions accept an option value or label and store the value.
func (w *Wizard) SetField(value string) error {
	step := w.Current()
	if step.Kind == KindSelect {
		normalized, err := normalizeOption(step, value)
		if err != nil {
			return err
		}
		value = normalized
	}
	w.values[step.Key] = value
	return nil
}

// CanAdvance reports whether the active question passes validation.
func (w *Wizard) CanAdvance() bool {
	step := w.Current()
	if step.Optional {
		return true
	}
	return strings.TrimSpace(w.values[step.Key]) != ""
}

// Advance moves to the next question, or reports SubmitDue on the last one.
// A question without an answer blocks the move and leaves the step unchanged.
func (w *Wizard) Advance() (Outcome, error) {
	if !w.CanAdvance() {
		return Moved, ErrStepIncomplete
	}
	if w.IsLast() {
		return SubmitDue, nil
	}
	w.step++
	return Moved, nil
}

// Retreat moves to the previous question. It never validates.
func (w *Wizard) Retreat() bool {
	if w.step == 0 {
		return false
	}
	w.step--
	return true
}

// Answers converts the collected values into a QuizResponse for userID.
// Every required field must be present; height and weight become floats and age an integer.
func (w *Wizard) Answers(userID string) (*model.QuizResponse, error) {
	for _, s := range Steps {
		if !s.Optional && strings.TrimSpace(w.values[s.Key]) == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrNotComplete, s.Key)
		}
	}

	height, err := parseFloat(FieldHeight, w.values[FieldHeight])
	if err != nil {
		return nil, err
	}
	weight, err := parseFloat(FieldWeight, w.values[FieldWeight])
	if err != nil {
		return nil, err
	}
	age, err := strconv.Atoi(strings.TrimSpace(w.values[FieldAge]))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNumber, FieldAge)
	}

	gender, err := model.ParseGender(w.values[FieldGender])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOption, FieldGender)
	}
	goal, err := model.ParseGoal(w.values[FieldGoal])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOption, FieldGoal)
	}
	level, err := model.ParseActivityLevel(w.values[FieldActivityLevel])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOption, FieldActivityLevel)
	}

	return &model.QuizResponse{
		UserID:        userID,
		Name:          w.values[FieldName],
		BirthDate:     w.values[FieldBirthDate],
		Height:        height,
		Weight:        weight,
		Age:           age,
		Gender:        gender,
		Goal:          goal,
		ActivityLevel: level,
		Insecurities:  w.values[FieldInsecurities],
	}, nil
}

func parseFloat(key FieldKey, raw string) (float64, error) {
	// Accept the decimal comma most pt-BR keyboards produce.
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, key)
	}
	return v, nil
}

func normalizeOption(step Step, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" && step.Optional {
		return "", nil
	}
	for _, opt := range step.Options {
		if trimmed == opt.Value || trimmed == opt.Label {
			return opt.Value, nil
		}
	}
	return "", ErrInvalidOption
}
