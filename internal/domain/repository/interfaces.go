package repository

import (
	"context"

	"BetForge/internal/domain/models"
)

// Publisher fans recorded wagers out to an event stream (Kafka, websocket).
type Publisher interface {
	Publish(ctx context.Context, w *models.Wager) error
	Close() error
}

// Archive persists flushed wager batches for offline analysis.
type Archive interface {
	Init(ctx context.Context) error // ensure tables
	StoreBatch(ctx context.Context, wagers []models.Wager) error
	Health(ctx context.Context) error
	Close() error
}

// SnapshotStore persists engine state across restarts.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.EngineSnapshot) error
	Load(ctx context.Context) (*models.EngineSnapshot, error) // nil, nil when absent
	Close() error
}

// Metrics records staking engine operational metrics.
type Metrics interface {
	RecordWagerPlaced(strategy, risk string)
	RecordStake(strategy string, amount float64)
	RecordBankroll(bank, peak, drawdown float64)
	RecordError(kind string)
	RecordFlush(result string)
	RecordLatency(op string, seconds float64)
}
