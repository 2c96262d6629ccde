package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EngineSnapshot is the persisted engine state used to resume a bankroll
// across process restarts. Currency fields serialize as decimal strings.
type EngineSnapshot struct {
	Bank       decimal.Decimal `json:"bank"`
	Peak       decimal.Decimal `json:"peak"`
	FibStreak  int             `json:"fib_streak"`
	BetsPlaced int             `json:"bets_placed"`
	TotalEV    decimal.Decimal `json:"total_ev"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
