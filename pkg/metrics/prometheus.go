package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	wagersPlaced *prometheus.CounterVec
	stakeTotal   *prometheus.CounterVec
	bankroll     prometheus.Gauge
	peak         prometheus.Gauge
	drawdown     prometheus.Gauge
	errorsTotal  *prometheus.CounterVec
	flushesTotal *prometheus.CounterVec
	journalDepth prometheus.Gauge
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		wagersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_wagers_placed_total",
				Help: "Total wagers recorded, by strategy and risk tier",
			},
			[]string{"strategy", "risk"},
		),
		stakeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_stake_total",
				Help: "Total currency staked, by strategy",
			},
			[]string{"strategy"},
		),
		bankroll: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "betforge_bankroll",
			Help: "Current bankroll",
		}),
		peak: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "betforge_bankroll_peak",
			Help: "Highest bankroll observed",
		}),
		drawdown: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "betforge_drawdown_fraction",
			Help: "Current fractional decline from peak bankroll",
		}),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		flushesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betforge_history_flushes_total",
				Help: "History ledger flush attempts by result",
			},
			[]string{"result"},
		),
		journalDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "betforge_journal_queue_depth",
			Help: "Records queued for the durable journal writer",
		}),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betforge_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordWagerPlaced counts a recorded wager.
func (r *Recorder) RecordWagerPlaced(strategy, risk string) {
	r.wagersPlaced.WithLabelValues(strategy, risk).Inc()
}

// RecordStake accumulates the staked amount for a strategy.
func (r *Recorder) RecordStake(strategy string, amount float64) {
	r.stakeTotal.WithLabelValues(strategy).Add(amount)
}

// RecordBankroll updates the bankroll gauges.
func (r *Recorder) RecordBankroll(bank, peak, drawdown float64) {
	r.bankroll.Set(bank)
	r.peak.Set(peak)
	r.drawdown.Set(drawdown)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordFlush counts a history flush attempt.
func (r *Recorder) RecordFlush(result string) {
	r.flushesTotal.WithLabelValues(result).Inc()
}

// RecordJournalDepth tracks the async writer queue depth.
func (r *Recorder) RecordJournalDepth(depth int) {
	r.journalDepth.Set(float64(depth))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
