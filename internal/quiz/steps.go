// Package quiz implements the nine-step intake questionnaire.
package quiz

import "github.com/constanfit/constanfit/internal/model"

// FieldKey names a questionnaire field.
type FieldKey string

// Field keys, in step order.
const (
	FieldName          FieldKey = "name"
	FieldBirthDate     FieldKey = "birthDate"
	FieldHeight        FieldKey = "height"
	FieldWeight        FieldKey = "weight"
	FieldAge           FieldKey = "age"
	FieldGender        FieldKey = "gender"
	FieldGoal          FieldKey = "goal"
	FieldActivityLevel FieldKey = "activityLevel"
	FieldInsecurities  FieldKey = "insecurities"
)

// Kind is the input widget a step renders.
type Kind string

// Step kinds.
const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
)

// Option is one choice of a select step.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Step describes one question.
type Step struct {
	Key         FieldKey `json:"key"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
}

// Steps is the fixed questionnaire.
var Steps = []Step{
	{Key: FieldName, Label: "Qual é o seu nome?", Kind: KindText, Placeholder: "Digite seu nome"},
	{Key: FieldBirthDate, Label: "Qual é a sua data de nascimento?", Kind: KindDate},
	{Key: FieldHeight, Label: "Qual é a sua altura? (em cm)", Kind: KindNumber, Placeholder: "Ex: 170"},
	{Key: FieldWeight, Label: "Qual é o seu peso? (em kg)", Kind: KindNumber, Placeholder: "Ex: 70"},
	{Key: FieldAge, Label: "Qual é a sua idade?", Kind: KindNumber, Placeholder: "Ex: 25"},
	{Key: FieldGender, Label: "Qual é o seu sexo? (opcional)", Kind: KindSelect, Options: genderOptions(), Optional: true},
	{Key: FieldGoal, Label: "Qual é o seu objetivo principal?", Kind: KindSelect, Options: goalOptions()},
	{Key: FieldActivityLevel, Label: "Qual é o seu nível de atividade física?", Kind: KindSelect, Options: activityOptions()},
	{Key: FieldInsecurities, Label: "Quais são suas principais inseguranças?", Kind: KindTextarea, Placeholder: "Descreva suas principais preocupações..."},
}

// LastStep is the index of the final question.
var LastStep = len(Steps) - 1

func genderOptions() []Option {
	opts := make([]Option, 0, len(model.Genders))
	for _, g := range model.Genders {
		opts = append(opts, Option{Value: string(g), Label: g.Label()})
	}
	return opts
}

func goalOptions() []Option {
	opts := make([]Option, 0, len(model.Goals))
	for _, g := range model.Goals {
		opts = append(opts, Option{Value: string(g), Label: g.Label()})
	}
	return opts
}

func activityOptions() []Option {
	opts := make([]Option, 0, len(model.ActivityLevels))
	for _, a := range model.ActivityLevels {
		opts = append(opts, Option{Value: string(a), Label: a.Label()})
	}
	return opts
}
