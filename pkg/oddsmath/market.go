package oddsmath

// BreakEvenPct returns the win rate needed to break even on a wager:
// stake / total payout.
func BreakEvenPct(stake, payout float64) float64 {
	if payout == 0 {
		return 0
	}
	return stake / payout
}

// Vig computes the bookmaker's edge on a two-way market from the stake and
// payout of each side. A fair market sums break-even percentages to exactly 1.
func Vig(favStake, favPayout, dogStake, dogPayout float64) float64 {
	return BreakEvenPct(favStake, favPayout) + BreakEvenPct(dogStake, dogPayout) - 1
}

// BookmakerMargin computes the overround on a two-way market, or a three-way
// market when drawOdds is non-nil.
func BookmakerMargin(favOdds, dogOdds Odds, drawOdds *Odds) (float64, error) {
	favDec, err := favOdds.ToDecimal()
	if err != nil {
		return 0, err
	}
	dogDec, err := dogOdds.ToDecimal()
	if err != nil {
		return 0, err
	}
	margin := 1/favDec + 1/dogDec - 1
	if drawOdds != nil {
		drawDec, err := drawOdds.ToDecimal()
		if err != nil {
			return 0, err
		}
		margin += 1 / drawDec
	}
	return margin, nil
}

// BookmakerCommission computes the true market cost after adjusting each
// side's net odds for an exchange commission rate (percent, e.g. 2 for 2%).
func BookmakerCommission(favOdds, dogOdds Odds, commission float64, drawOdds *Odds) (float64, error) {
	adj := func(o Odds) (float64, error) {
		dec, err := o.ToDecimal()
		if err != nil {
			return 0, err
		}
		return 1 + (1-commission/100)*(dec-1), nil
	}

	favDec, err := adj(favOdds)
	if err != nil {
		return 0, err
	}
	dogDec, err := adj(dogOdds)
	if err != nil {
		return 0, err
	}
	margin := 1/favDec + 1/dogDec - 1
	if drawOdds != nil {
		drawDec, err := adj(*drawOdds)
		if err != nil {
			return 0, err
		}
		margin += 1 / drawDec
	}
	return margin, nil
}
