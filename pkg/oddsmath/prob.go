package oddsmath

import (
	"fmt"
	"math"
)

// ImpliedProb returns the win probability implied by the odds.
// Decimal 2.00 -> 0.50, American -200 -> 0.667, 5/4 -> 0.444.
func ImpliedProb(o Odds) (float64, error) {
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, err
	}
	return 1 / dec, nil
}

// AmericanImpliedProb returns the win probability implied by American odds.
// Kept separate from ImpliedProb because progression strategies gate on the
// American book price specifically.
func AmericanImpliedProb(o Odds) (float64, error) {
	am, err := o.ToAmerican()
	if err != nil {
		return 0, err
	}
	if am > 0 {
		return 100.0 / float64(am+100), nil
	}
	a := math.Abs(float64(am))
	return a / (a + 100), nil
}

// TrueOddsEV computes expected value from a user-estimated true probability:
// profit*p - stake*(1-p).
func TrueOddsEV(stake, profit, prob float64) float64 {
	return profit*prob - stake*(1-prob)
}

// StatedOddsEV computes expected value of backing the favorite using the
// break-even probabilities implied by the bookmaker's own prices, vig included.
func StatedOddsEV(stakeWin, profitWin, stakeLose, profitLose float64) float64 {
	winProb := BreakEvenPct(stakeWin, stakeWin+profitWin)
	loseProb := BreakEvenPct(stakeLose, stakeLose+profitLose)
	return winProb*profitWin - loseProb*stakeWin
}

// EloProb converts an ELO rating differential (A minus B) to a win
// probability for A via the logistic ELO formula.
// EloProb(0) = 0.5, EloProb(100) ~ 0.64, EloProb(-150) ~ 0.30.
func EloProb(eloDiff float64) float64 {
	return 1 / (math.Pow(10, -eloDiff/400) + 1)
}

// ProbToOdds inverts a win probability into odds of the requested format.
func ProbToOdds(prob float64, format Format) (Odds, error) {
	if prob <= 0 || prob >= 1 {
		return Odds{}, fmt.Errorf("%w: probability must be in (0, 1), got %v", ErrInvalidOdds, prob)
	}
	switch format {
	case FormatAmerican:
		if prob >= 0.50 {
			return American(int(math.Round(prob / (1 - prob) * -100))), nil
		}
		return American(int(math.Round((1 - prob) / prob * 100))), nil
	case FormatDecimal:
		return Decimal(1 / prob), nil
	case FormatFractional:
		num := int64(math.Round((1/prob - 1) * 100))
		den := int64(100)
		g := gcd(num, den)
		return Fractional(num/g, den/g), nil
	default:
		return Odds{}, fmt.Errorf("%w: unknown target format", ErrInvalidOdds)
	}
}
