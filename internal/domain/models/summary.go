package models

import "github.com/shopspring/decimal"

// Summary is a point-in-time performance report for an engine instance.
type Summary struct {
	BetsPlaced   int             `json:"bets_placed"`
	Bankroll     decimal.Decimal `json:"bankroll"`
	Peak         decimal.Decimal `json:"peak"`
	DrawdownPct  float64         `json:"drawdown_pct"`
	ROIPct       float64         `json:"roi_pct"`
	TotalEV      decimal.Decimal `json:"total_ev"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	FibStreak    int             `json:"fib_streak"`
}
