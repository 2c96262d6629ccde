// Package usecase contains the staking engine: the stateful core that turns
// an edge signal into a bounded, risk-classified wager against a tracked
// bankroll.
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
	"BetForge/internal/service/ledger"
	"BetForge/internal/service/risk"
	"BetForge/pkg/journal"
	"BetForge/pkg/logger"
	"BetForge/pkg/oddsmath"
)

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithMetrics attaches operational metrics recording.
func WithMetrics(m repository.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithPublisher attaches an event-stream publisher receiving every recorded
// wager.
func WithPublisher(p repository.Publisher) EngineOption {
	return func(e *Engine) { e.publisher = p }
}

// WithSnapshots attaches a store persisting engine state across restarts.
func WithSnapshots(s repository.SnapshotStore) EngineOption {
	return func(e *Engine) { e.snapshots = s }
}

// WithClock overrides the wager timestamp source.
func WithClock(fn func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = fn }
}

// Engine owns the bankroll, progression streaks and aggregate statistics.
// Every strategy call runs end-to-end under one mutex, so two concurrent
// callers can never size against a balance the other is about to change.
// The bankroll itself moves only through UpdateBank.
type Engine struct {
	mu           sync.Mutex
	bank         decimal.Decimal
	peak         decimal.Decimal
	minBank      decimal.Decimal
	fibStreak    int
	placed       int
	totalEV      decimal.Decimal
	totalWagered decimal.Decimal

	risk      *risk.Manager
	history   *ledger.History
	journal   *journal.Writer
	logger    *logger.Logger
	metrics   repository.Metrics
	publisher repository.Publisher
	snapshots repository.SnapshotStore
	clock     func() time.Time
}

// NewEngine creates a staking engine with the given starting bankroll and
// minimum bankroll floor.
func NewEngine(
	bankroll, minBankroll decimal.Decimal,
	riskMgr *risk.Manager,
	history *ledger.History,
	writer *journal.Writer,
	log *logger.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		bank:    bankroll,
		peak:    bankroll,
		minBank: minBankroll,
		risk:    riskMgr,
		history: history,
		journal: writer,
		logger:  log,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.risk.Update(bankroll)
	log.Info("staking engine ready",
		logger.String("bankroll", bankroll.StringFixed(2)),
		logger.String("min_bankroll", minBankroll.StringFixed(2)))
	return e
}

// Bankroll returns the current balance.
func (e *Engine) Bankroll() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank
}

// FibStreak returns the current Fibonacci loss-streak index.
func (e *Engine) FibStreak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fibStreak
}

// History exposes the in-memory wager ledger for read queries.
func (e *Engine) History() *ledger.History {
	return e.history
}

// UpdateBank settles the bankroll to a new balance, resetting the Fibonacci
// streak on a win. This is the only way the balance changes; no strategy
// call debits or credits on its own.
func (e *Engine) UpdateBank(ctx context.Context, newBank decimal.Decimal, won bool) {
	e.mu.Lock()
	e.bank = newBank
	if won {
		e.fibStreak = 0
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Info("bankroll updated",
		logger.String("bank", newBank.StringFixed(2)),
		logger.Bool("won", won))
	if e.metrics != nil {
		bank, _ := newBank.Float64()
		peak, _ := snap.Peak.Float64()
		e.metrics.RecordBankroll(bank, peak, e.risk.Drawdown())
	}
	e.saveSnapshot(ctx, snap)
}

// Summary reports point-in-time performance: drawdown from peak and ROI over
// total amount wagered.
func (e *Engine) Summary() models.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	var dd, roi float64
	if e.peak.IsPositive() {
		dd, _ = e.peak.Sub(e.bank).Div(e.peak).Float64()
		dd *= 100
	}
	if e.totalWagered.IsPositive() {
		roi, _ = e.bank.Sub(e.peak).Div(e.totalWagered).Float64()
		roi *= 100
	}
	return models.Summary{
		BetsPlaced:   e.placed,
		Bankroll:     e.bank,
		Peak:         e.peak,
		DrawdownPct:  dd,
		ROIPct:       roi,
		TotalEV:      e.totalEV,
		TotalWagered: e.totalWagered,
		FibStreak:    e.fibStreak,
	}
}

// Restore applies a previously saved snapshot, if one exists.
func (e *Engine) Restore(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	snap, err := e.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	e.mu.Lock()
	e.bank = snap.Bank
	e.peak = snap.Peak
	e.fibStreak = snap.FibStreak
	e.placed = snap.BetsPlaced
	e.totalEV = snap.TotalEV
	e.mu.Unlock()

	e.risk.Update(snap.Peak)
	e.risk.Update(snap.Bank)
	e.logger.Info("engine state restored",
		logger.String("bank", snap.Bank.StringFixed(2)),
		logger.Int("fib_streak", snap.FibStreak))
	return nil
}

// Shutdown drains the journal queue, flushes the ledger and persists a final
// snapshot. Every queued durable write is attempted before return.
func (e *Engine) Shutdown(ctx context.Context) {
	e.journal.Stop()
	if err := e.history.Flush(); err != nil {
		e.logger.Error("final history flush failed", logger.Error(err))
	}

	e.mu.Lock()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.saveSnapshot(ctx, snap)

	e.logger.Info("staking engine stopped")
}

func (e *Engine) snapshotLocked() *models.EngineSnapshot {
	return &models.EngineSnapshot{
		Bank:       e.bank,
		Peak:       e.peak,
		FibStreak:  e.fibStreak,
		BetsPlaced: e.placed,
		TotalEV:    e.totalEV,
		UpdatedAt:  e.clock().UTC(),
	}
}

func (e *Engine) saveSnapshot(ctx context.Context, snap *models.EngineSnapshot) {
	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.Save(ctx, snap); err != nil {
		e.logger.Error("snapshot save failed", logger.Error(err))
		if e.metrics != nil {
			e.metrics.RecordError("snapshot")
		}
	}
}

// checkBank halts staking while the bankroll sits below the floor. Callers
// hold the engine lock.
func (e *Engine) checkBank() error {
	if e.bank.LessThan(e.minBank) {
		return fmt.Errorf("%w: bankroll $%s < minimum $%s",
			models.ErrInsufficientBankroll, e.bank.StringFixed(2), e.minBank.StringFixed(2))
	}
	return nil
}

// kellyCore computes the Kelly fraction (b*p - q) / b and the expected value
// per unit staked. trueP, when set, sharpens the EV estimate without moving
// the Kelly fraction itself.
func (e *Engine) kellyCore(p float64, o oddsmath.Odds, trueP *float64) (kellyF, ev float64, err error) {
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, 0, err
	}
	b := dec - 1
	useProb := p
	if trueP != nil {
		useProb = *trueP
	}
	ev = oddsmath.TrueOddsEV(1, b, useProb)
	if ev <= 0 {
		return 0, ev, nil
	}
	kellyF = (b*p - (1 - p)) / b
	return kellyF, ev, nil
}

func (e *Engine) newWager(strategy string, amount decimal.Decimal, why, riskTier string, pct, ev, kellyW float64) models.Wager {
	return models.Wager{
		Strategy:    strategy,
		Amount:      amount,
		Why:         why,
		Risk:        riskTier,
		PctBank:     pct,
		EV:          ev,
		KellyWeight: kellyW,
		Bookie:      models.DefaultBookie,
		Timestamp:   e.clock().UTC(),
	}
}

// stake rounds a bankroll fraction to cents and applies the hard risk cap.
func (e *Engine) stake(pct float64) decimal.Decimal {
	raw := e.bank.Mul(decimal.NewFromFloat(pct)).Round(2)
	return e.risk.Cap(raw, e.bank)
}

func (e *Engine) pctOf(amount decimal.Decimal) float64 {
	if !amount.IsPositive() || !e.bank.IsPositive() {
		return 0
	}
	pct, _ := amount.Div(e.bank).Float64()
	return pct
}

// record is the shared recording path every strategy funnels through: ledger
// append, stat updates, risk refresh, audit log, metrics, durable journal
// and event publish. It is the sole mutation point for engine counters.
func (e *Engine) record(w *models.Wager, won bool) {
	e.history.Append(*w)
	if w.Amount.IsPositive() {
		e.placed++
		e.totalEV = e.totalEV.Add(w.Amount.Mul(decimal.NewFromFloat(w.EV)))
		e.totalWagered = e.totalWagered.Add(w.Amount)
		if e.bank.GreaterThan(e.peak) {
			e.peak = e.bank
		}
		if won {
			e.fibStreak = 0
		}
	}
	e.risk.Update(e.bank)

	e.logger.Info("bet placed",
		logger.String("strategy", w.Strategy),
		logger.String("amount", w.Amount.StringFixed(2)),
		logger.String("risk", w.Risk),
		logger.String("why", w.Why))

	if e.metrics != nil {
		e.metrics.RecordWagerPlaced(w.Strategy, w.Risk)
		amt, _ := w.Amount.Float64()
		e.metrics.RecordStake(w.Strategy, amt)
		bank, _ := e.bank.Float64()
		peak, _ := e.peak.Float64()
		e.metrics.RecordBankroll(bank, peak, e.risk.Drawdown())
	}

	e.journal.Write(w.Flat())

	if e.publisher != nil {
		if err := e.publisher.Publish(context.Background(), w); err != nil {
			e.logger.Error("wager publish failed",
				logger.String("strategy", w.Strategy),
				logger.Error(err))
			if e.metrics != nil {
				e.metrics.RecordError("publish")
			}
		}
	}
}
