package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the settled result of a wager, set by an external settlement
// process after the fact. The staking engine itself never settles bets.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomePush Outcome = "push"
)

// DefaultBookie is used when no bookmaker is attached to a wager.
const DefaultBookie = "Generic"

// Wager is an immutable record of a single staking decision. It is
// constructed once per strategy call and never mutated afterwards; settling
// a bet produces a new record or an out-of-core annotation.
type Wager struct {
	Strategy    string          `json:"strategy"`
	Amount      decimal.Decimal `json:"amount"`
	Why         string          `json:"why"`
	Risk        string          `json:"risk"`
	PctBank     float64         `json:"pct_bank"`
	EV          float64         `json:"ev"`
	KellyWeight float64         `json:"kelly_f"`
	Odds        string          `json:"odds,omitempty"`
	WinRate     *float64        `json:"win_rate,omitempty"`
	Bookie      string          `json:"bookie"`
	Timestamp   time.Time       `json:"timestamp"`
	Outcome     Outcome         `json:"outcome,omitempty"`
}

// Flat renders the wager as a flat JSON-safe map with currency fields as
// exact decimal strings, for the append-only journal.
func (w *Wager) Flat() map[string]interface{} {
	m := map[string]interface{}{
		"strategy":  w.Strategy,
		"amount":    w.Amount.StringFixed(2),
		"why":       w.Why,
		"risk":      w.Risk,
		"pct_bank":  w.PctBank,
		"ev":        w.EV,
		"kelly_f":   w.KellyWeight,
		"bookie":    w.Bookie,
		"timestamp": w.Timestamp.Format(time.RFC3339),
	}
	if w.Odds != "" {
		m["odds"] = w.Odds
	}
	if w.WinRate != nil {
		m["win_rate"] = *w.WinRate
	}
	if w.Outcome != "" {
		m["outcome"] = string(w.Outcome)
	}
	return m
}
