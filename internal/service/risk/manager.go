package risk

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"BetForge/pkg/logger"
)

// Risk tier labels, ordered from safest to wildest.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
	TierInsane = "insane"
)

// Thresholds are risk classification bands as inclusive upper bounds on the
// fraction of bankroll risked. Anything above High classifies as insane.
type Thresholds struct {
	Low  float64 `yaml:"low"`
	Med  float64 `yaml:"med"`
	High float64 `yaml:"high"`
}

// Validate requires strictly increasing boundaries within (0, 1].
func (t Thresholds) Validate() error {
	if t.Low <= 0 || t.Low >= t.Med || t.Med >= t.High || t.High > 1 {
		return fmt.Errorf("risk thresholds must be strictly increasing within (0, 1], got %v/%v/%v", t.Low, t.Med, t.High)
	}
	return nil
}

// Presets are the two named risk profiles.
var Presets = map[string]Thresholds{
	"balanced":   {Low: 0.05, Med: 0.15, High: 0.30},
	"aggressive": {Low: 0.10, Med: 0.25, High: 0.50},
}

// Manager adapts risk in real time based on drawdown from peak bankroll:
// past a 20% drawdown the hard stake cap is halved until the bank recovers.
type Manager struct {
	mu       sync.Mutex
	base     Thresholds
	maxRisk  float64
	peak     decimal.Decimal
	drawdown float64
	logger   *logger.Logger
}

// NewManager creates a risk manager with the given classification bands and
// overall max-risk fraction. The fraction is clamped to [0.01, 1].
func NewManager(base Thresholds, maxRisk float64, log *logger.Logger) (*Manager, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if maxRisk > 1 {
		maxRisk = 1
	}
	if maxRisk < 0.01 {
		maxRisk = 0.01
	}
	return &Manager{
		base:    base,
		maxRisk: maxRisk,
		peak:    decimal.Zero,
		logger:  log,
	}, nil
}

// Preset resolves a named profile ("balanced", "aggressive").
func Preset(name string) (Thresholds, error) {
	t, ok := Presets[name]
	if !ok {
		return Thresholds{}, fmt.Errorf("unknown risk profile %q", name)
	}
	return t, nil
}

// Update records a new bankroll observation, advancing the peak and
// recomputing the current drawdown fraction.
func (m *Manager) Update(bank decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bank.GreaterThan(m.peak) {
		m.peak = bank
	}
	if m.peak.IsPositive() {
		dd, _ := m.peak.Sub(bank).Div(m.peak).Float64()
		m.drawdown = dd
	} else {
		m.drawdown = 0
	}
}

// Drawdown returns the current fractional decline from peak bankroll.
func (m *Manager) Drawdown() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drawdown
}

// Peak returns the highest bankroll observed.
func (m *Manager) Peak() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Level classifies a fraction-of-bankroll stake, penalized by drawdown:
// adj = pct * (1 + drawdown*2), matched against inclusive upper bounds.
func (m *Manager) Level(pct float64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	adj := pct * (1 + m.drawdown*2)
	switch {
	case adj <= m.base.Low:
		return TierLow
	case adj <= m.base.Med:
		return TierMedium
	case adj <= m.base.High:
		return TierHigh
	default:
		return TierInsane
	}
}

// Cap applies the hard stake ceiling: bank * maxRisk, halved while drawdown
// exceeds 20%. Never errors; the result is non-negative and never exceeds
// the proposed amount.
func (m *Manager) Cap(amount, bank decimal.Decimal) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount.IsNegative() {
		return decimal.Zero
	}

	ceiling := bank.Mul(decimal.NewFromFloat(m.maxRisk))
	if m.drawdown > 0.20 {
		ceiling = ceiling.Mul(decimal.NewFromFloat(0.5))
		if m.logger != nil {
			m.logger.Warn("drawdown over 20%, stake cap halved",
				logger.Float64("drawdown", m.drawdown),
				logger.String("ceiling", ceiling.StringFixed(2)))
		}
	}
	if amount.GreaterThan(ceiling) {
		return ceiling
	}
	return amount
}
