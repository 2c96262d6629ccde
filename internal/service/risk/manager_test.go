package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/pkg/logger"
)

func newManager(t *testing.T, maxRisk float64) *Manager {
	t.Helper()
	m, err := NewManager(Presets["balanced"], maxRisk, logger.Nop())
	require.NoError(t, err)
	return m
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, Thresholds{Low: 0.05, Med: 0.15, High: 0.30}.Validate())
	assert.Error(t, Thresholds{Low: 0.15, Med: 0.15, High: 0.30}.Validate())
	assert.Error(t, Thresholds{Low: 0.30, Med: 0.15, High: 0.05}.Validate())
	assert.Error(t, Thresholds{Low: 0, Med: 0.15, High: 0.30}.Validate())
	assert.Error(t, Thresholds{Low: 0.05, Med: 0.15, High: 1.5}.Validate())
}

func TestNewManagerClampsMaxRisk(t *testing.T) {
	m := newManager(t, 5.0)
	bank := decimal.NewFromInt(1000)
	// clamped to 1.0: cap equals bank
	assert.True(t, m.Cap(decimal.NewFromInt(5000), bank).Equal(bank))

	m = newManager(t, 0.0001)
	// clamped up to 0.01
	assert.True(t, m.Cap(decimal.NewFromInt(5000), bank).Equal(decimal.NewFromInt(10)))
}

func TestUpdateTracksPeakAndDrawdown(t *testing.T) {
	m := newManager(t, 0.35)

	m.Update(decimal.NewFromInt(10000))
	assert.Equal(t, 0.0, m.Drawdown())

	m.Update(decimal.NewFromInt(8000))
	assert.InDelta(t, 0.2, m.Drawdown(), 1e-9)
	assert.True(t, m.Peak().Equal(decimal.NewFromInt(10000)))

	// peak is monotonic
	m.Update(decimal.NewFromInt(12000))
	assert.Equal(t, 0.0, m.Drawdown())
	assert.True(t, m.Peak().Equal(decimal.NewFromInt(12000)))
}

func TestLevelBands(t *testing.T) {
	m := newManager(t, 0.35)

	tests := []struct {
		pct  float64
		want string
	}{
		{0.01, TierLow},
		{0.05, TierLow}, // inclusive upper bound
		{0.10, TierMedium},
		{0.15, TierMedium},
		{0.25, TierHigh},
		{0.30, TierHigh},
		{0.31, TierInsane},
		{0.90, TierInsane},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Level(tt.pct), "pct %v", tt.pct)
	}
}

func TestLevelDrawdownPenalty(t *testing.T) {
	m := newManager(t, 0.35)
	m.Update(decimal.NewFromInt(10000))
	m.Update(decimal.NewFromInt(7500)) // 25% drawdown

	// adj = 0.04 * (1 + 0.25*2) = 0.06 -> medium instead of low
	assert.Equal(t, TierMedium, m.Level(0.04))
}

func TestCapCeiling(t *testing.T) {
	m := newManager(t, 0.35)
	bank := decimal.NewFromInt(10000)

	// below ceiling: returned unchanged
	amount := decimal.NewFromInt(2000)
	assert.True(t, m.Cap(amount, bank).Equal(amount))

	// above ceiling: clamped to bank * maxRisk
	got := m.Cap(decimal.NewFromInt(9000), bank)
	assert.True(t, got.Equal(decimal.NewFromInt(3500)), "got %s", got)

	// never negative
	assert.True(t, m.Cap(decimal.NewFromInt(-5), bank).IsZero())
}

func TestCapHalvedDuringDrawdown(t *testing.T) {
	m := newManager(t, 0.35)
	bank := decimal.NewFromInt(7000)

	baseline := m.Cap(decimal.NewFromInt(99999), bank)

	m.Update(decimal.NewFromInt(10000))
	m.Update(bank) // 30% drawdown

	halved := m.Cap(decimal.NewFromInt(99999), bank)
	assert.True(t, halved.Equal(baseline.Div(decimal.NewFromInt(2))),
		"halved cap %s vs baseline %s", halved, baseline)

	// recovery restores the full ceiling
	m.Update(decimal.NewFromInt(10000))
	recovered := m.Cap(decimal.NewFromInt(99999), bank)
	assert.True(t, recovered.Equal(baseline))
}

func TestPreset(t *testing.T) {
	_, err := Preset("balanced")
	assert.NoError(t, err)
	_, err = Preset("aggressive")
	assert.NoError(t, err)
	_, err = Preset("yolo")
	assert.Error(t, err)
}
