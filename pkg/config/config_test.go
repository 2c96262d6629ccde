package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
environment: test
engine:
  bankroll: "5000"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "balanced", cfg.Engine.Profile)
	assert.Equal(t, "100", cfg.Engine.MinBankroll)
	assert.Equal(t, 0.35, cfg.Engine.MaxRisk)
	assert.Equal(t, "bets.jsonl", cfg.Engine.JournalPath)
	assert.Equal(t, "wagers", cfg.ClickHouse.Table)
}

func TestLoadRejectsMissingBankroll(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.bankroll")
}

func TestLoadRejectsBadProfile(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
engine:
  bankroll: "5000"
  profile: yolo
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.profile")
}

func TestLoadCustomProfileNeedsThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
engine:
  bankroll: "5000"
  profile: custom
`))
	require.Error(t, err)

	cfg, err := Load(writeConfig(t, `
environment: test
engine:
  bankroll: "5000"
  profile: custom
  thresholds:
    low: 0.04
    medium: 0.12
    high: 0.25
`))
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Engine.Thresholds.High)
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
engine:
  bankroll: "5000"
kafka:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BANKROLL", "25000")
	t.Setenv("RISK_PROFILE", "aggressive")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "25000", cfg.Engine.Bankroll)
	assert.Equal(t, "aggressive", cfg.Engine.Profile)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}
