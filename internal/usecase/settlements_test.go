package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/internal/domain/models"
	"BetForge/pkg/logger"
	"BetForge/pkg/oddsmath"
)

func TestSettlementHandlerAppliesBank(t *testing.T) {
	e := newTestEngine(t, 10_000, 100)
	h := NewSettlementHandler("wager.settlements", e, logger.Nop())

	require.Equal(t, "wager.settlements", h.Topic())

	err := h.Handle(context.Background(), []byte(`{"bank": "9850.50", "won": false}`))
	require.NoError(t, err)
	assert.True(t, e.Bankroll().Equal(decimal.RequireFromString("9850.50")))
}

func TestSettlementHandlerWinResetsFib(t *testing.T) {
	e := newTestEngine(t, 10_000, 100)
	h := NewSettlementHandler("wager.settlements", e, logger.Nop())

	for i := 0; i < 2; i++ {
		_, err := e.Fib(models.FibRequest{Odds: oddsmath.American(-110), Unit: 0.001})
		require.NoError(t, err)
	}
	require.Equal(t, 2, e.FibStreak())

	require.NoError(t, h.Handle(context.Background(), []byte(`{"bank": "10200.00", "won": true}`)))
	assert.Equal(t, 0, e.FibStreak())
}

func TestSettlementHandlerRejectsBadPayloads(t *testing.T) {
	e := newTestEngine(t, 10_000, 100)
	h := NewSettlementHandler("wager.settlements", e, logger.Nop())

	cases := []string{
		`not json`,
		`{"bank": "abc", "won": false}`,
		`{"bank": "-50.00", "won": false}`,
	}
	for _, payload := range cases {
		assert.Error(t, h.Handle(context.Background(), []byte(payload)), "payload %s", payload)
	}
	// bankroll untouched by rejected settlements
	assert.True(t, e.Bankroll().Equal(decimal.NewFromInt(10_000)))
}
