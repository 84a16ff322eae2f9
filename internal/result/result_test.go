package result

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/constanfit/constanfit/internal/model"
)

func TestRender(t *testing.T) {
	page := Render(&model.QuizResponse{
		Name:          "Ana",
		Height:        165.5,
		Weight:        62,
		Goal:          model.GoalLoseWeight,
		ActivityLevel: model.ActivityBeginner,
	})

	assert.Equal(t, "Ana", page.Name)
	assert.Equal(t, "Parabéns, Ana! 🎉", page.Headline)
	assert.Equal(t, "lose_weight", page.Goal)
	assert.Equal(t, "Emagrecer", page.GoalLabel)
	assert.Contains(t, page.GoalMessage, "emagrecimento")
	assert.Equal(t, []Stat{
		{Label: "Altura", Value: "165.5 cm"},
		{Label: "Peso", Value: "62 kg"},
		{Label: "Nível", Value: "Iniciante"},
	}, page.Stats)
	assert.Equal(t, PaymentPath, page.Offer.CTAPath)
	assert.Len(t, page.Offer.Features, 6)
}

func TestGoalMessage(t *testing.T) {
	tests := []struct {
		goal model.Goal
		want string
	}{
		{model.GoalLoseWeight, goalMessages[model.GoalLoseWeight]},
		{model.GoalGainMuscle, goalMessages[model.GoalGainMuscle]},
		{model.GoalMaintainHealth, goalMessages[model.GoalMaintainHealth]},
		{model.Goal("unknown"), defaultGoalMessage},
	}

	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			assert.Equal(t, tt.want, GoalMessage(tt.goal))
		})
	}
}

func TestDefaultOfferPrices(t *testing.T) {
	offer := DefaultOffer()
	assert.Equal(t, "R$ 49,90", offer.OriginalPrice)
	assert.Equal(t, "R$ 9,90", offer.Price)
	assert.Equal(t, "Garantir meu acesso agora", offer.CTALabel)
}
