package usecase

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"BetForge/internal/domain/models"
	"BetForge/internal/service/risk"
	"BetForge/pkg/logger"
	"BetForge/pkg/oddsmath"
)

const (
	defaultAggression = 2.0
	defaultBasePct    = 0.02
	evGate            = 0.015
	fibStreakCap      = 12
)

// labouchereRatios split a target win amount across the classic 5-bet
// sequence.
var labouchereRatios = [5]float64{0.1, 0.2, 0.4, 0.2, 0.1}

// EVKelly sizes a stake with the Kelly fraction scaled by an EV-powered
// aggression weight. An expected value at or below 1.5% produces a zero
// stake.
func (e *Engine) EVKelly(req models.EVKellyRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evKelly(req)
}

func (e *Engine) evKelly(req models.EVKellyRequest) (models.Wager, error) {
	return e.evKellyAs(models.StrategyEV, req)
}

func (e *Engine) evKellyAs(strategy string, req models.EVKellyRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}
	kellyF, ev, err := e.kellyCore(req.P, req.Odds, req.TrueP)
	if err != nil {
		return models.Wager{}, err
	}

	agg := req.Aggression
	if agg <= 0 {
		agg = defaultAggression
	}

	var w models.Wager
	if ev <= evGate {
		w = e.newWager(strategy, decimal.Zero, "EV < 1.5%, no edge", risk.TierLow, 0, ev, 0)
	} else {
		weight := 1 + math.Pow(ev, agg)*8
		pct := math.Min(kellyF*weight, 1.0)
		amount := e.stake(pct)
		w = e.newWager(strategy, amount,
			fmt.Sprintf("EV x%.1f", weight),
			e.risk.Level(pct), pct, ev, weight)
	}
	e.attachEdge(&w, req.Odds, req.P)
	e.record(&w, false)
	return w, nil
}

// PureKelly sizes a stake with the raw Kelly fraction, no aggression
// weighting. Any non-positive expected value produces a zero stake.
func (e *Engine) PureKelly(req models.PureKellyRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pureKelly(req)
}

func (e *Engine) pureKelly(req models.PureKellyRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}
	kellyF, ev, err := e.kellyCore(req.P, req.Odds, req.TrueP)
	if err != nil {
		return models.Wager{}, err
	}

	var w models.Wager
	if ev <= 0 {
		w = e.newWager(models.StrategyPureKelly, decimal.Zero, "EV <= 0, no edge", risk.TierLow, 0, ev, 0)
	} else {
		pct := math.Min(kellyF, 1.0)
		amount := e.stake(pct)
		w = e.newWager(models.StrategyPureKelly, amount,
			fmt.Sprintf("pure Kelly %.1f%%", pct*100),
			e.risk.Level(pct), pct, ev, 1.0)
	}
	e.attachEdge(&w, req.Odds, req.P)
	e.record(&w, false)
	return w, nil
}

// Fib advances a Fibonacci loss progression: stake = bankroll * unit *
// fib(streak). A win resets the streak; a streak past 12 forces a reset
// before sizing. With P set, the bet is skipped entirely when P falls below
// the odds-implied probability.
func (e *Engine) Fib(req models.FibRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fib(req)
}

func (e *Engine) fib(req models.FibRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	unit := req.Unit
	if unit <= 0 {
		unit = 0.01
	}

	resetForced := false
	if req.WonLast {
		e.fibStreak = 0
	}
	if e.fibStreak >= fibStreakCap {
		e.logger.Warn("fib streak over cap, forcing reset",
			logger.Int("streak", e.fibStreak))
		e.fibStreak = 0
		resetForced = true
	}

	skip := false
	if req.P != nil {
		implied, err := oddsmath.AmericanImpliedProb(req.Odds)
		if err != nil {
			return models.Wager{}, err
		}
		if *req.P < implied {
			e.logger.Info("fib skipped, no edge",
				logger.Float64("p", *req.P),
				logger.Float64("implied", implied))
			skip = true
		}
	}

	var amount decimal.Decimal
	var why string
	if skip {
		amount = decimal.Zero
		why = "no edge, skip (p < implied)"
	} else {
		a, b := 1, 1
		for i := 0; i < e.fibStreak; i++ {
			a, b = b, a+b
		}
		raw := e.bank.Mul(decimal.NewFromFloat(unit)).Mul(decimal.NewFromInt(int64(b))).Round(2)
		amount = e.risk.Cap(raw, e.bank)
		why = fmt.Sprintf("fib x%d (streak=%d)", b, e.fibStreak)
		if resetForced {
			why += ", forced reset"
		}
	}

	pct := e.pctOf(amount)
	riskTier := "SKIP"
	if !skip {
		riskTier = e.risk.Level(pct)
	}
	w := e.newWager(models.StrategyFib, amount, why, riskTier, pct, 0, 0)
	if req.P != nil {
		e.attachEdge(&w, req.Odds, *req.P)
	} else {
		w.Odds = req.Odds.String()
	}
	e.record(&w, req.WonLast)

	if !skip && !req.WonLast && !resetForced {
		e.fibStreak++
	}
	return w, nil
}

// EloKelly derives a win probability from an ELO rating differential via the
// logistic formula and delegates to EVKelly.
func (e *Engine) EloKelly(req models.EloKellyRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eloKelly(req)
}

func (e *Engine) eloKelly(req models.EloKellyRequest) (models.Wager, error) {
	p := oddsmath.EloProb(req.EloDiff)
	return e.evKellyAs(models.StrategyEloKelly, models.EVKellyRequest{
		P:          p,
		Odds:       req.Odds,
		Aggression: req.Aggression,
		TrueP:      req.TrueP,
	})
}

// Parlay stakes a fixed base percentage on the combined decimal odds of the
// legs. No vig adjustment is attempted for multi-leg markets.
func (e *Engine) Parlay(req models.ParlayRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parlay(req)
}

func (e *Engine) parlay(req models.ParlayRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}
	parlayDec, err := oddsmath.ParlayDecimal(req.Legs)
	if err != nil {
		return models.Wager{}, err
	}

	amount := e.stake(e.basePct(req.BasePct))
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyParlay, amount,
		fmt.Sprintf("parlay %.2f dec (no vig)", parlayDec),
		e.risk.Level(pct), pct, 0, 0)
	w.Odds = fmt.Sprintf("%.2f", parlayDec)
	e.record(&w, false)
	return w, nil
}

// Margin sizes inversely to the bookmaker margin, betting more when the
// market is fairer. A heuristic, not an EV computation.
func (e *Engine) Margin(req models.MarginRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.margin(req)
}

func (e *Engine) margin(req models.MarginRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}
	margin, err := oddsmath.BookmakerMargin(req.FavOdds, req.DogOdds, nil)
	if err != nil {
		return models.Wager{}, err
	}

	adjPct := e.basePct(req.BasePct) / math.Max(margin+0.01, 0.01)
	amount := e.stake(adjPct)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyMargin, amount,
		fmt.Sprintf("low margin %.1f%% adj", margin*100),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// VigAdjusted reduces the base stake by the estimated vig. A single-sided
// price gets a synthesized mirror opposite side; an explicit market of two
// or three prices gets a proper overround, optionally commission-adjusted.
func (e *Engine) VigAdjusted(req models.VigRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vigAdjusted(req)
}

func (e *Engine) vigAdjusted(req models.VigRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	var juice, margin, commissionAdj float64
	var label string

	switch {
	case len(req.Market) >= 2:
		fav, dog := req.Market[0], req.Market[1]
		var draw *oddsmath.Odds
		if len(req.Market) > 2 {
			draw = &req.Market[2]
		}
		m, err := oddsmath.BookmakerMargin(fav, dog, draw)
		if err != nil {
			return models.Wager{}, err
		}
		margin = m
		commissionAdj = margin
		if req.Commission != nil {
			commissionAdj, err = oddsmath.BookmakerCommission(fav, dog, *req.Commission, draw)
			if err != nil {
				return models.Wager{}, err
			}
		}
		juice = commissionAdj
		label = "2-way market"
		if draw != nil {
			label = "3-way market"
		}

	case req.SingleOdds != nil:
		dec, err := req.SingleOdds.ToDecimal()
		if err != nil {
			return models.Wager{}, err
		}
		// Mirror-price heuristic for a one-sided quote: synthesize the
		// opposite American price. Mirror values inside (-100, 100) are
		// taken at face value as a payout multiplier.
		var mirror int
		var mirrorPayout float64
		if dec < 2.0 {
			mirror = int(100 * (dec - 1))
			mirrorPayout = float64(mirror)
		} else {
			mirror = int(-100 * dec / (dec - 1))
			mirrorPayout = 1 + 100/math.Abs(float64(mirror))
		}
		juice = oddsmath.Vig(1, dec, 1, mirrorPayout)
		label = fmt.Sprintf("mirror %d", mirror)

	default:
		return models.Wager{}, fmt.Errorf("%w: vig strategy requires odds", oddsmath.ErrInvalidOdds)
	}

	adjPct := e.basePct(req.BasePct) * (1 - math.Max(juice, 0))
	amount := e.stake(adjPct)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyVig, amount,
		fmt.Sprintf("vig adj %.1f%% edge | book margin %.1f%% | commission adj %.1f%% (%s)",
			juice*100, margin*100, commissionAdj*100, label),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// Labouchere splits a target win amount across the 5-bet sequence and
// records each stake as its own wager.
func (e *Engine) Labouchere(req models.LabouchereRequest) ([]models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labouchere(req)
}

func (e *Engine) labouchere(req models.LabouchereRequest) ([]models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return nil, err
	}

	wagers := make([]models.Wager, 0, len(labouchereRatios))
	for _, ratio := range labouchereRatios {
		amount := e.risk.Cap(decimal.NewFromFloat(req.Target*ratio).Round(2), e.bank)
		pct := e.pctOf(amount)
		w := e.newWager(models.StrategyLabouchere, amount,
			fmt.Sprintf("labouchere sequence (target $%.2f)", req.Target),
			e.risk.Level(pct), pct, 0, 0)
		w.Odds = req.Odds.String()
		e.record(&w, false)
		wagers = append(wagers, w)
	}
	return wagers, nil
}

// ReverseLabouchere runs the win-progression variant: the sequence rises
// toward the middle and falls back down, scaled to the target.
func (e *Engine) ReverseLabouchere(req models.ReverseLabouchereRequest) ([]models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reverseLabouchere(req)
}

func (e *Engine) reverseLabouchere(req models.ReverseLabouchereRequest) ([]models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return nil, err
	}

	numBets := req.NumBets
	if numBets <= 0 {
		numBets = 5
	}
	sequence := reverseLabouchereSequence(req.Target, numBets)

	wagers := make([]models.Wager, 0, len(sequence))
	for _, stake := range sequence {
		amount := e.risk.Cap(decimal.NewFromFloat(stake).Round(2), e.bank)
		pct := e.pctOf(amount)
		w := e.newWager(models.StrategyReverseLabouchere, amount,
			fmt.Sprintf("reverse labouchere (target $%.2f)", req.Target),
			e.risk.Level(pct), pct, 0, 0)
		e.record(&w, false)
		wagers = append(wagers, w)
	}
	return wagers, nil
}

// reverseLabouchereSequence scales a symmetric ramp of ratios to the target.
// The 5-bet sequence uses the canonical 0.2/0.3/0.5/0.3/0.2 split; other
// lengths build a 0.1-stepped ramp up and back down.
func reverseLabouchereSequence(target float64, numBets int) []float64 {
	var ratios []float64
	if numBets == 5 {
		ratios = []float64{0.2, 0.3, 0.5, 0.3, 0.2}
	} else {
		mid := numBets / 2
		up := mid
		if numBets%2 == 1 {
			up = mid + 1
		}
		for i := 0; i < up; i++ {
			ratios = append(ratios, 0.1*float64(i+1))
		}
		for i := mid - 1; i >= 0; i-- {
			ratios = append(ratios, 0.1*float64(i+1))
		}
	}

	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = target * r
	}
	return out
}

// Martingale multiplies the base bet per consecutive loss.
func (e *Engine) Martingale(req models.MartingaleRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.martingale(req)
}

func (e *Engine) martingale(req models.MartingaleRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	mult := req.Multiplier
	if mult <= 0 {
		mult = 2.0
	}
	losses := req.Losses
	if losses < 0 {
		losses = 0
	}

	raw := req.BaseBet * math.Pow(mult, float64(losses))
	amount := e.risk.Cap(decimal.NewFromFloat(raw).Round(2), e.bank)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyMartingale, amount,
		fmt.Sprintf("martingale x%.1f after %d losses", mult, losses),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// DAlembert steps the base bet up one tenth per loss and down one tenth per
// win, floored at a tenth of the base bet.
func (e *Engine) DAlembert(req models.DAlembertRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dalembert(req)
}

func (e *Engine) dalembert(req models.DAlembertRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	unit := req.BaseBet * 0.1
	raw := req.BaseBet + float64(req.Losses-req.Wins)*unit
	raw = math.Max(raw, req.BaseBet*0.1)
	amount := e.risk.Cap(decimal.NewFromFloat(raw).Round(2), e.bank)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyDAlembert, amount,
		fmt.Sprintf("d'alembert: %d wins, %d losses", req.Wins, req.Losses),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// Flat stakes a fixed amount regardless of bankroll.
func (e *Engine) Flat(req models.FlatRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flat(req)
}

func (e *Engine) flat(req models.FlatRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	amount := e.risk.Cap(decimal.NewFromFloat(req.Amount).Round(2), e.bank)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyFlat, amount,
		fmt.Sprintf("flat $%.2f (%.1f%% of bankroll)", req.Amount, pct*100),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// Percentage stakes a fixed fraction of the current bankroll.
func (e *Engine) Percentage(req models.PercentageRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.percentage(req)
}

func (e *Engine) percentage(req models.PercentageRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	amount := e.stake(req.Pct)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyPercentage, amount,
		fmt.Sprintf("percentage %.1f%% of $%s bankroll", req.Pct*100, e.bank.StringFixed(0)),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

// FixedUnit stakes a unit size times a unit count.
func (e *Engine) FixedUnit(req models.FixedUnitRequest) (models.Wager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fixedUnit(req)
}

func (e *Engine) fixedUnit(req models.FixedUnitRequest) (models.Wager, error) {
	if err := e.checkBank(); err != nil {
		return models.Wager{}, err
	}

	units := req.NumUnits
	if units <= 0 {
		units = 1
	}
	raw := req.UnitSize * float64(units)
	amount := e.risk.Cap(decimal.NewFromFloat(raw).Round(2), e.bank)
	pct := e.pctOf(amount)
	w := e.newWager(models.StrategyFixedUnit, amount,
		fmt.Sprintf("fixed unit: %d x $%.2f", units, req.UnitSize),
		e.risk.Level(pct), pct, 0, 0)
	e.record(&w, false)
	return w, nil
}

func (e *Engine) basePct(v float64) float64 {
	if v <= 0 {
		return defaultBasePct
	}
	return v
}

// attachEdge annotates a wager with the odds and probability that produced
// it, feeding the summary's average vig and break-even figures.
func (e *Engine) attachEdge(w *models.Wager, o oddsmath.Odds, p float64) {
	w.Odds = o.String()
	winRate := p
	w.WinRate = &winRate
}
