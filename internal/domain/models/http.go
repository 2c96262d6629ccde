package models

import (
	"fmt"
	"strings"

	"BetForge/pkg/oddsmath"
)

// Requests for the staking HTTP endpoints. Field names mirror the dispatch
// surface's parameter names; each strategy documents its required subset.

type BetRequest struct {
	Strategy string `json:"strategy" validate:"required"`

	P          *float64 `json:"p" validate:"omitempty,gt=0,lt=1"`
	TrueP      *float64 `json:"true_p" validate:"omitempty,gt=0,lt=1"`
	Odds       string   `json:"o"`
	OddsList   []string `json:"odds_list"`
	FavOdds    string   `json:"fav_odds"`
	DogOdds    string   `json:"dog_odds"`
	Aggression float64  `json:"agg" default:"2.0" validate:"gt=0"`
	Unit       float64  `json:"unit" default:"0.01" validate:"gt=0,lte=1"`
	WonLast    bool     `json:"won"`
	BasePct    float64  `json:"base_pct" default:"0.02" validate:"gt=0,lte=1"`
	Commission *float64 `json:"commission" validate:"omitempty,gte=0,lt=100"`
	EloDiff    *float64 `json:"elo_diff"`
	Target     *float64 `json:"target" validate:"omitempty,gt=0"`
	NumBets    int      `json:"num_bets" default:"5" validate:"gte=2,lte=21"`
	BaseBet    *float64 `json:"base_bet" validate:"omitempty,gt=0"`
	Losses     int      `json:"losses" validate:"gte=0"`
	Wins       int      `json:"wins" validate:"gte=0"`
	Multiplier float64  `json:"multiplier" default:"2.0" validate:"gte=1"`
	FixedAmt   *float64 `json:"fixed_amount" validate:"omitempty,gt=0"`
	BetPct     *float64 `json:"bet_pct" validate:"omitempty,gt=0,lte=1"`
	UnitSize   *float64 `json:"unit_size" validate:"omitempty,gt=0"`
	NumUnits   int      `json:"num_units" default:"1" validate:"gte=1"`
}

// ToStrategyRequest maps the wire request onto the closed strategy union,
// checking each strategy's required parameter subset at the boundary.
func (r *BetRequest) ToStrategyRequest() (StrategyRequest, error) {
	switch r.Strategy {
	case StrategyEV:
		if r.P == nil {
			return nil, fmt.Errorf("strategy %s: p is required", r.Strategy)
		}
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		return EVKellyRequest{P: *r.P, Odds: odds, Aggression: r.Aggression, TrueP: r.TrueP}, nil

	case StrategyPureKelly:
		if r.P == nil {
			return nil, fmt.Errorf("strategy %s: p is required", r.Strategy)
		}
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		return PureKellyRequest{P: *r.P, Odds: odds, TrueP: r.TrueP}, nil

	case StrategyFib:
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		return FibRequest{Odds: odds, WonLast: r.WonLast, Unit: r.Unit, P: r.P}, nil

	case StrategyEloKelly:
		if r.EloDiff == nil {
			return nil, fmt.Errorf("strategy %s: elo_diff is required", r.Strategy)
		}
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		return EloKellyRequest{EloDiff: *r.EloDiff, Odds: odds, Aggression: r.Aggression, TrueP: r.TrueP}, nil

	case StrategyParlay:
		if len(r.OddsList) < 2 {
			return nil, fmt.Errorf("strategy %s: odds_list needs at least 2 legs", r.Strategy)
		}
		legs, err := r.parseOddsList(r.OddsList)
		if err != nil {
			return nil, err
		}
		return ParlayRequest{Legs: legs, BasePct: r.BasePct}, nil

	case StrategyMargin:
		fav, err := r.parseOdds(r.FavOdds, "fav_odds")
		if err != nil {
			return nil, err
		}
		dog, err := r.parseOdds(r.DogOdds, "dog_odds")
		if err != nil {
			return nil, err
		}
		return MarginRequest{FavOdds: fav, DogOdds: dog, BasePct: r.BasePct}, nil

	case StrategyVig:
		req := VigRequest{BasePct: r.BasePct, Commission: r.Commission}
		if len(r.OddsList) >= 2 {
			market, err := r.parseOddsList(r.OddsList)
			if err != nil {
				return nil, err
			}
			if len(market) > 3 {
				return nil, fmt.Errorf("strategy %s: odds_list must have 2 or 3 sides", r.Strategy)
			}
			req.Market = market
			return req, nil
		}
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		req.SingleOdds = &odds
		return req, nil

	case StrategyLabouchere:
		if r.Target == nil {
			return nil, fmt.Errorf("strategy %s: target is required", r.Strategy)
		}
		odds, err := r.parseOdds(r.Odds, "o")
		if err != nil {
			return nil, err
		}
		return LabouchereRequest{Target: *r.Target, Odds: odds}, nil

	case StrategyReverseLabouchere:
		if r.Target == nil {
			return nil, fmt.Errorf("strategy %s: target is required", r.Strategy)
		}
		return ReverseLabouchereRequest{Target: *r.Target, NumBets: r.NumBets}, nil

	case StrategyMartingale:
		if r.BaseBet == nil {
			return nil, fmt.Errorf("strategy %s: base_bet is required", r.Strategy)
		}
		return MartingaleRequest{BaseBet: *r.BaseBet, Losses: r.Losses, Multiplier: r.Multiplier}, nil

	case StrategyDAlembert:
		if r.BaseBet == nil {
			return nil, fmt.Errorf("strategy %s: base_bet is required", r.Strategy)
		}
		return DAlembertRequest{BaseBet: *r.BaseBet, Wins: r.Wins, Losses: r.Losses}, nil

	case StrategyFlat:
		if r.FixedAmt == nil {
			return nil, fmt.Errorf("strategy %s: fixed_amount is required", r.Strategy)
		}
		return FlatRequest{Amount: *r.FixedAmt}, nil

	case StrategyPercentage:
		if r.BetPct == nil {
			return nil, fmt.Errorf("strategy %s: bet_pct is required", r.Strategy)
		}
		return PercentageRequest{Pct: *r.BetPct}, nil

	case StrategyFixedUnit:
		if r.UnitSize == nil {
			return nil, fmt.Errorf("strategy %s: unit_size is required", r.Strategy)
		}
		return FixedUnitRequest{UnitSize: *r.UnitSize, NumUnits: r.NumUnits}, nil

	default:
		return nil, fmt.Errorf("%w %q: use one of %s",
			ErrUnknownStrategy, r.Strategy, strings.Join(StrategyNames(), ", "))
	}
}

func (r *BetRequest) parseOdds(s, field string) (oddsmath.Odds, error) {
	if s == "" {
		return oddsmath.Odds{}, fmt.Errorf("strategy %s: %s is required", r.Strategy, field)
	}
	odds, err := oddsmath.Parse(s)
	if err != nil {
		return oddsmath.Odds{}, fmt.Errorf("strategy %s: %w", r.Strategy, err)
	}
	return odds, nil
}

func (r *BetRequest) parseOddsList(list []string) ([]oddsmath.Odds, error) {
	out := make([]oddsmath.Odds, 0, len(list))
	for i, s := range list {
		odds, err := oddsmath.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: odds_list[%d]: %w", r.Strategy, i, err)
		}
		out = append(out, odds)
	}
	return out, nil
}

// SettleRequest updates the bankroll after an external settlement.
type SettleRequest struct {
	Bank string `json:"bank" validate:"required"`
	Won  bool   `json:"won"`
}

// HistoryRequest filters the in-memory wager history.
type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=10000"`
}
