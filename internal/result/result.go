// Package result renders the post-quiz summary and the upsell offer.
package result

import (
	"strconv"

	"github.com/constanfit/constanfit/internal/model"
)

// PaymentPath is where the offer's call to action points.
// The payment screen is not part of this service.
const PaymentPath = "/payment"

var goalMessages = map[model.Goal]string{
	model.GoalLoseWeight:     "Com base no seu objetivo de emagrecimento, você pode alcançar resultados incríveis com um plano simples e consistente.",
	model.GoalGainMuscle:     "Para ganhar massa muscular de forma eficiente, você precisa de constância no treino e alimentação adequada.",
	model.GoalMaintainHealth: "Manter a saúde é um objetivo nobre! Com hábitos consistentes, você pode ter uma vida mais equilibrada e saudável.",
}

const defaultGoalMessage = "Com base nas suas respostas, você pode melhorar seus resultados com um plano simples e consistente."

// Stat is one labelled figure of the profile card.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Offer is the fixed pricing block.
type Offer struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	OriginalPrice string   `json:"original_price"`
	Price         string   `json:"price"`
	Terms         string   `json:"terms"`
	Features      []string `json:"features"`
	CTALabel      string   `json:"cta_label"`
	CTAPath       string   `json:"cta_path"`
	Footnote      string   `json:"footnote"`
}

// Page is everything the result screen shows.
type Page struct {
	Name        string `json:"name"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	Goal        string `json:"goal"`
	GoalLabel   string `json:"goal_label"`
	GoalMessage string `json:"goal_message"`
	Stats       []Stat `json:"stats"`
	Growth      string `json:"growth"`
	Offer       Offer  `json:"offer"`
	TrustBadge  string `json:"trust_badge"`
}

// DefaultOffer returns the hardcoded lifetime-access offer.
func DefaultOffer() Offer {
	return Offer{
		Title:         "Acesso completo ao ConstanFit",
		Subtitle:      "Tenha acesso vitalício a todas as funcionalidades",
		OriginalPrice: "R$ 49,90",
		Price:         "R$ 9,90",
		Terms:         "Pagamento único • Acesso vitalício",
		Features: []string{
			"Controle alimentar completo",
			"Acompanhamento de medicações",
			"Registro de sintomas",
			"Sistema de ofensiva de dias",
			"Conquistas e gamificação",
			"Suporte prioritário",
		},
		CTALabel: "Garantir meu acesso agora",
		CTAPath:  PaymentPath,
		Footnote: "Pagamento seguro • Garantia de 7 dias",
	}
}

// GoalMessage returns the encouragement text for a goal.
func GoalMessage(g model.Goal) string {
	if msg, ok := goalMessages[g]; ok {
		return msg
	}
	return defaultGoalMessage
}

// Render fills the result template with the response's values.
// Name and goal are shown exactly as submitted.
func Render(resp *model.QuizResponse) *Page {
	return &Page{
		Name:        resp.Name,
		Headline:    "Parabéns, " + resp.Name + "! 🎉",
		Subheadline: "Analisamos seu perfil e temos ótimas notícias",
		Goal:        string(resp.Goal),
		GoalLabel:   resp.Goal.Label(),
		GoalMessage: GoalMessage(resp.Goal),
		Stats: []Stat{
			{Label: "Altura", Value: formatNumber(resp.Height) + " cm"},
			{Label: "Peso", Value: formatNumber(resp.Weight) + " kg"},
			{Label: "Nível", Value: resp.ActivityLevel.Label()},
		},
		Growth:     "Com o ConstanFit, você terá todas as ferramentas necessárias para alcançar seus objetivos de forma consistente e sustentável.",
		Offer:      DefaultOffer(),
		TrustBadge: "Mais de 10.000 pessoas já transformaram suas vidas com o ConstanFit",
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
