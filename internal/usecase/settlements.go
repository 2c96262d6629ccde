package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	pkgkafka "BetForge/pkg/kafka"
	"BetForge/pkg/logger"
)

// SettlementHandler consumes settlement events from Kafka and applies them
// to the engine bankroll. It is the streaming twin of the HTTP settle
// endpoint; both funnel into Engine.UpdateBank.
type SettlementHandler struct {
	topic  string
	engine *Engine
	logger *logger.Logger
}

// NewSettlementHandler creates a handler for the settlements topic.
func NewSettlementHandler(topic string, engine *Engine, log *logger.Logger) *SettlementHandler {
	return &SettlementHandler{topic: topic, engine: engine, logger: log}
}

func (h *SettlementHandler) Topic() string { return h.topic }

// incoming message schema: {"bank": "9850.00", "won": true}
func (h *SettlementHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Bank string `json:"bank"`
		Won  bool   `json:"won"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("settlement unmarshal: %w", err)
	}

	bank, err := decimal.NewFromString(m.Bank)
	if err != nil {
		return fmt.Errorf("settlement bank %q: %w", m.Bank, err)
	}
	if bank.IsNegative() {
		return fmt.Errorf("settlement bank %s is negative", m.Bank)
	}

	h.engine.UpdateBank(ctx, bank, m.Won)
	h.logger.Debug("settlement applied",
		logger.String("bank", bank.StringFixed(2)),
		logger.Bool("won", m.Won))
	return nil
}

var _ pkgkafka.MessageHandler = (*SettlementHandler)(nil)
