// Package repository provides the concrete storage, transport and cache
// adapters behind the domain repository interfaces.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
)

// wagerColumns is the insert column list for the wager archive table.
const wagerColumns = "ts, strategy, amount, why, risk, pct_bank, ev, kelly_f, odds, win_rate, bookie, outcome"

// ClickHouseArchive persists flushed wager batches to ClickHouse for offline
// analysis. Amounts are stored as Decimal(18, 2) strings, never floats.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates a wager archive on the given table.
func NewClickHouseArchive(db *sql.DB, table string) repository.Archive {
	return &ClickHouseArchive{db: db, table: table}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	ts DateTime64(3),
	strategy LowCardinality(String),
	amount Decimal(18, 2),
	why String,
	risk LowCardinality(String),
	pct_bank Float64,
	ev Float64,
	kelly_f Float64,
	odds String,
	win_rate Nullable(Float64),
	bookie LowCardinality(String),
	outcome LowCardinality(String)
) ENGINE = MergeTree()
ORDER BY (strategy, ts)`, a.table)

	if _, err := a.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init wager archive: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) StoreBatch(ctx context.Context, wagers []models.Wager) error {
	if len(wagers) == 0 {
		return nil
	}

	// Multi-row VALUES to keep round-trips down; 2000 rows per chunk.
	const chunkSize = 2000
	for start := 0; start < len(wagers); start += chunkSize {
		end := start + chunkSize
		if end > len(wagers) {
			end = len(wagers)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*12)
		for i := range wagers[start:end] {
			w := &wagers[start+i]
			var winRate interface{}
			if w.WinRate != nil {
				winRate = *w.WinRate
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				w.Timestamp,
				w.Strategy,
				w.Amount.StringFixed(2),
				w.Why,
				w.Risk,
				w.PctBank,
				w.EV,
				w.KellyWeight,
				w.Odds,
				winRate,
				w.Bookie,
				string(w.Outcome),
			)
		}

		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			a.table, wagerColumns, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("archive batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return nil // connection pool owned by the clickhouse client
}
