package ledger

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/internal/domain/models"
	"BetForge/pkg/logger"
)

func testWager(strategy string, amount float64) models.Wager {
	return models.Wager{
		Strategy:  strategy,
		Amount:    decimal.NewFromFloat(amount),
		Why:       "test",
		Risk:      "low",
		Timestamp: time.Now().UTC(),
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestHistoryFlushesOnOverflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")
	flushes := 0
	h := NewHistory(path, logger.Nop(),
		WithCapacity(5),
		WithFlushHook(func(result string) {
			assert.Equal(t, "ok", result)
			flushes++
		}))

	for i := 0; i < 4; i++ {
		h.Append(testWager("flat", 10))
	}
	assert.Equal(t, 4, h.Len())
	assert.Equal(t, 0, flushes)
	assert.Equal(t, 0, countLines(t, path))

	h.Append(testWager("flat", 10))
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 1, flushes)
	assert.Equal(t, 5, countLines(t, path))
}

func TestHistoryOneFlushPerCapacityAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")
	flushes := 0
	h := NewHistory(path, logger.Nop(),
		WithCapacity(3),
		WithFlushHook(func(string) { flushes++ }))

	for i := 0; i < 9; i++ {
		h.Append(testWager("flat", 1))
	}
	assert.Equal(t, 3, flushes)
	assert.Equal(t, 9, countLines(t, path))
	assert.Equal(t, 0, h.Len())
}

func TestHistoryFlushOnShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")
	h := NewHistory(path, logger.Nop(), WithCapacity(100))

	h.Append(testWager("fib", 21))
	h.Append(testWager("fib", 34))
	require.NoError(t, h.Flush())

	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 2, countLines(t, path))
	require.NoError(t, h.Flush()) // empty flush is a no-op
	assert.Equal(t, 2, countLines(t, path))
}

func TestHistoryKeepsBufferOnWriteFailure(t *testing.T) {
	// a directory as destination makes every write attempt fail
	h := NewHistory(t.TempDir(), logger.Nop(), WithCapacity(2))

	h.Append(testWager("flat", 1))
	h.Append(testWager("flat", 2))
	assert.Equal(t, 2, h.Len())

	assert.Error(t, h.Flush())
	assert.Equal(t, 2, h.Len())
}

func TestHistoryForwardsFlushedBatch(t *testing.T) {
	var forwarded []models.Wager
	h := NewHistory("", logger.Nop(),
		WithCapacity(2),
		WithForwarder(func(batch []models.Wager) { forwarded = batch }))

	h.Append(testWager("ev", 100))
	h.Append(testWager("ev", 200))

	require.Len(t, forwarded, 2)
	assert.True(t, forwarded[1].Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 0, h.Len())
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	h := NewHistory("", logger.Nop(), WithCapacity(100))
	h.Append(testWager("flat", 1))
	h.Append(testWager("flat", 2))
	h.Append(testWager("flat", 3))

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].Amount.Equal(decimal.NewFromInt(3)))
	assert.True(t, recent[1].Amount.Equal(decimal.NewFromInt(2)))

	assert.Len(t, h.Recent(0), 3)
	assert.Len(t, h.Recent(50), 3)
}
