package models

import (
	"sort"

	"BetForge/pkg/oddsmath"
)

// Strategy names accepted by the dispatch surface.
const (
	StrategyEV                = "ev"
	StrategyFib               = "fib"
	StrategyVig               = "vig"
	StrategyPureKelly         = "pure_kelly"
	StrategyEloKelly          = "elo_kelly"
	StrategyParlay            = "parlay_bet"
	StrategyMargin            = "margin_bet"
	StrategyLabouchere        = "labouchere"
	StrategyMartingale        = "martingale"
	StrategyDAlembert         = "dalembert"
	StrategyReverseLabouchere = "reverse_labouchere"
	StrategyFlat              = "flat"
	StrategyPercentage        = "percentage"
	StrategyFixedUnit         = "fixed_unit"
)

// StrategyNames returns the valid dispatch names, sorted.
func StrategyNames() []string {
	names := []string{
		StrategyEV, StrategyFib, StrategyVig, StrategyPureKelly,
		StrategyEloKelly, StrategyParlay, StrategyMargin, StrategyLabouchere,
		StrategyMartingale, StrategyDAlembert, StrategyReverseLabouchere,
		StrategyFlat, StrategyPercentage, StrategyFixedUnit,
	}
	sort.Strings(names)
	return names
}

// StrategyRequest is a closed union over the per-strategy parameter sets.
// Each variant carries exactly the fields its strategy needs, so a missing
// parameter is a compile-time concern rather than a runtime lookup failure.
type StrategyRequest interface {
	StrategyName() string
}

// EVKellyRequest sizes a stake with EV-weighted Kelly.
type EVKellyRequest struct {
	P          float64
	Odds       oddsmath.Odds
	Aggression float64  // EV exponent; weight = 1 + ev^aggression * 8
	TrueP      *float64 // optional sharper probability for EV precision
}

func (EVKellyRequest) StrategyName() string { return StrategyEV }

// PureKellyRequest sizes a stake with the raw Kelly fraction.
type PureKellyRequest struct {
	P     float64
	Odds  oddsmath.Odds
	TrueP *float64
}

func (PureKellyRequest) StrategyName() string { return StrategyPureKelly }

// FibRequest advances a Fibonacci loss progression.
type FibRequest struct {
	Odds    oddsmath.Odds
	WonLast bool
	Unit    float64  // bankroll fraction per fib unit
	P       *float64 // optional edge gate vs the odds-implied probability
}

func (FibRequest) StrategyName() string { return StrategyFib }

// EloKellyRequest derives a win probability from an ELO differential and
// delegates to EV-weighted Kelly.
type EloKellyRequest struct {
	EloDiff    float64
	Odds       oddsmath.Odds
	Aggression float64
	TrueP      *float64
}

func (EloKellyRequest) StrategyName() string { return StrategyEloKelly }

// ParlayRequest stakes a fixed base percentage on combined parlay odds.
type ParlayRequest struct {
	Legs    []oddsmath.Odds
	BasePct float64
}

func (ParlayRequest) StrategyName() string { return StrategyParlay }

// MarginRequest sizes inversely to the bookmaker margin.
type MarginRequest struct {
	FavOdds oddsmath.Odds
	DogOdds oddsmath.Odds
	BasePct float64
}

func (MarginRequest) StrategyName() string { return StrategyMargin }

// VigRequest reduces the base stake by the estimated vig. With only
// SingleOdds set, the opposite side is synthesized via the mirror-price
// heuristic; with Market set, the explicit 2-way or 3-way prices are used.
type VigRequest struct {
	SingleOdds *oddsmath.Odds
	Market     []oddsmath.Odds // fav, dog, optionally draw
	BasePct    float64
	Commission *float64 // exchange commission percent
}

func (VigRequest) StrategyName() string { return StrategyVig }

// LabouchereRequest runs the 5-bet Labouchere sequence against a target.
type LabouchereRequest struct {
	Target float64
	Odds   oddsmath.Odds
}

func (LabouchereRequest) StrategyName() string { return StrategyLabouchere }

// ReverseLabouchereRequest runs the win-progression variant.
type ReverseLabouchereRequest struct {
	Target  float64
	NumBets int
}

func (ReverseLabouchereRequest) StrategyName() string { return StrategyReverseLabouchere }

// MartingaleRequest doubles (or multiplies) the base bet per consecutive loss.
type MartingaleRequest struct {
	BaseBet    float64
	Losses     int
	Multiplier float64
}

func (MartingaleRequest) StrategyName() string { return StrategyMartingale }

// DAlembertRequest steps the base bet up per loss and down per win.
type DAlembertRequest struct {
	BaseBet float64
	Wins    int
	Losses  int
}

func (DAlembertRequest) StrategyName() string { return StrategyDAlembert }

// FlatRequest stakes a fixed amount.
type FlatRequest struct {
	Amount float64
}

func (FlatRequest) StrategyName() string { return StrategyFlat }

// PercentageRequest stakes a fixed fraction of the current bankroll.
type PercentageRequest struct {
	Pct float64
}

func (PercentageRequest) StrategyName() string { return StrategyPercentage }

// FixedUnitRequest stakes a unit size times a unit count.
type FixedUnitRequest struct {
	UnitSize float64
	NumUnits int
}

func (FixedUnitRequest) StrategyName() string { return StrategyFixedUnit }
