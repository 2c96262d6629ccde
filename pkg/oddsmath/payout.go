package oddsmath

// Payout returns the total return on a winning wager, stake included.
// Payout(100, +150) = 250, Payout(100, -200) = 150.
func Payout(stake float64, o Odds) (float64, error) {
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, err
	}
	return stake * dec, nil
}

// Profit returns the net profit on a winning wager.
// Profit(100, +150) = 150, Profit(100, -200) = 50.
func Profit(stake float64, o Odds) (float64, error) {
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, err
	}
	return stake * (dec - 1), nil
}

// ParlayPayout returns the total return of a winning parlay.
func ParlayPayout(stake float64, legs []Odds) (float64, error) {
	dec, err := ParlayDecimal(legs)
	if err != nil {
		return 0, err
	}
	return stake * dec, nil
}

// ParlayProfit returns the net profit of a winning parlay.
func ParlayProfit(stake float64, legs []Odds) (float64, error) {
	payout, err := ParlayPayout(stake, legs)
	if err != nil {
		return 0, err
	}
	return payout - stake, nil
}
