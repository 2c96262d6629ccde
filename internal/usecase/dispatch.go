package usecase

import (
	"fmt"
	"strings"
	"time"

	"BetForge/internal/domain/models"
)

// Place is the single dispatch entry point over every staking strategy. The
// request union is closed, so each variant is matched exhaustively; a
// request type outside the union fails listing the valid strategy names.
// Single-wager strategies return a one-element slice.
func (e *Engine) Place(req models.StrategyRequest) ([]models.Wager, error) {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordLatency(req.StrategyName(), time.Since(start).Seconds())
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	switch r := req.(type) {
	case models.EVKellyRequest:
		return one(e.evKelly(r))
	case models.PureKellyRequest:
		return one(e.pureKelly(r))
	case models.FibRequest:
		return one(e.fib(r))
	case models.EloKellyRequest:
		return one(e.eloKelly(r))
	case models.ParlayRequest:
		return one(e.parlay(r))
	case models.MarginRequest:
		return one(e.margin(r))
	case models.VigRequest:
		return one(e.vigAdjusted(r))
	case models.LabouchereRequest:
		return e.labouchere(r)
	case models.ReverseLabouchereRequest:
		return e.reverseLabouchere(r)
	case models.MartingaleRequest:
		return one(e.martingale(r))
	case models.DAlembertRequest:
		return one(e.dalembert(r))
	case models.FlatRequest:
		return one(e.flat(r))
	case models.PercentageRequest:
		return one(e.percentage(r))
	case models.FixedUnitRequest:
		return one(e.fixedUnit(r))
	default:
		return nil, fmt.Errorf("%w %q: use one of %s",
			models.ErrUnknownStrategy, req.StrategyName(),
			strings.Join(models.StrategyNames(), ", "))
	}
}

func one(w models.Wager, err error) ([]models.Wager, error) {
	if err != nil {
		return nil, err
	}
	return []models.Wager{w}, nil
}
