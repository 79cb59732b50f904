package processing

import (
	"math/rand"

	"intake/internal/constants"
	"intake/pkg/models"
)

// Rater prices a quote request. The quote payload is passed whole so that
// future raters can weigh car type and credit score.
type Rater interface {
	MonthlyPremium(quote models.QuoteMessage) int
}

// RandomRater is the placeholder pricing model: a uniform premium in
// [MinMonthlyPremium, MaxMonthlyPremium), independent of the request.
type RandomRater struct {
	rng *rand.Rand
}

func NewRandomRater(rng *rand.Rand) *RandomRater {
	return &RandomRater{rng: rng}
}

func (r *RandomRater) MonthlyPremium(_ models.QuoteMessage) int {
	span := constants.MaxMonthlyPremium - constants.MinMonthlyPremium
	if r.rng != nil {
		return constants.MinMonthlyPremium + r.rng.Intn(span)
	}
	return constants.MinMonthlyPremium + rand.Intn(span)
}
