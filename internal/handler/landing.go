package handler

import (
	"net/http"

	"github.com/constanfit/constanfit/internal/service"
)

// Feature is one of the landing page's selling points.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Testimonial is a customer quote with its star rating.
type Testimonial struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// LandingPage is the marketing content served at the root.
type LandingPage struct {
	Brand        string        `json:"brand"`
	Headline     string        `json:"headline"`
	Highlight    string        `json:"highlight"`
	Subheadline  string        `json:"subheadline"`
	CTALabel     string        `json:"cta_label"`
	CTAPath      string        `json:"cta_path"`
	PriceTerms   string        `json:"price_terms"`
	Features     []Feature     `json:"features"`
	Benefits     []string      `json:"benefits"`
	Testimonials []Testimonial `json:"testimonials"`
	ClosingTitle string        `json:"closing_title"`
	ClosingText  string        `json:"closing_text"`
	Footer       string        `json:"footer"`
}

var landing = LandingPage{
	Brand:       "ConstanFit",
	Headline:    "Transforme Seu Corpo",
	Highlight:   "Com Constância",
	Subheadline: "Descubra seu plano de treino personalizado e alcance seus objetivos fitness de forma consistente e eficaz",
	CTALabel:    "Adquira por apenas R$ 9,90",
	CTAPath:     service.NextAuth,
	PriceTerms:  "Pagamento único • Acesso vitalício",
	Features: []Feature{
		{Title: "Plano Personalizado", Description: "Treinos adaptados aos seus objetivos, nível e disponibilidade"},
		{Title: "Resultados Rápidos", Description: "Metodologia comprovada para maximizar seus ganhos"},
		{Title: "Progresso Constante", Description: "Acompanhe sua evolução e mantenha-se motivado"},
	},
	Benefits: []string{
		"Plano de treino personalizado baseado em suas respostas",
		"Exercícios detalhados com instruções claras",
		"Acompanhamento de progresso e evolução",
		"Acesso vitalício por apenas R$ 9,90",
		"Suporte para dúvidas e ajustes",
	},
	Testimonials: []Testimonial{
		{Name: "João Silva", Text: "Perdi 15kg em 3 meses seguindo o plano. Incrível!", Rating: 5},
		{Name: "Maria Santos", Text: "Finalmente encontrei um treino que se adapta à minha rotina.", Rating: 5},
		{Name: "Pedro Costa", Text: "Melhor investimento que fiz na minha saúde. Vale cada centavo!", Rating: 5},
	},
	ClosingTitle: "Pronto para começar sua transformação?",
	ClosingText:  "Junte-se a milhares de pessoas que já transformaram seus corpos",
	Footer:       "© 2024 ConstanFit. Todos os direitos reservados.",
}

// Landing serves the marketing page.
// GET /
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, landing)
}
