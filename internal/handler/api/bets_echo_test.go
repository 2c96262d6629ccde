package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/internal/service/ledger"
	"BetForge/internal/service/risk"
	"BetForge/internal/usecase"
	"BetForge/pkg/journal"
	"BetForge/pkg/logger"
)

func newTestServer(t *testing.T, bankroll string) (*echo.Echo, *usecase.Engine) {
	t.Helper()

	log := logger.Nop()
	thresholds, err := risk.Preset("balanced")
	require.NoError(t, err)
	mgr, err := risk.NewManager(thresholds, 0.35, log)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bets.jsonl")
	hist := ledger.NewHistory(path, log)
	w := journal.NewWriter(path, log)
	w.Start()

	engine := usecase.NewEngine(
		decimal.RequireFromString(bankroll), decimal.NewFromInt(100),
		mgr, hist, w, log,
		usecase.WithClock(func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
	t.Cleanup(func() { engine.Shutdown(t.Context()) })

	e := echo.New()
	NewBetsHandler(log, engine).RegisterRoutes(e)
	return e, engine
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBetEndpointPlacesWager(t *testing.T) {
	e, engine := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/bet",
		`{"strategy":"ev","p":0.55,"o":"-110"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"strategy":"ev"`)
	assert.Contains(t, rec.Body.String(), `"bookie":"Generic"`)
	assert.Equal(t, 1, engine.History().Len())
}

func TestBetEndpointNoEdgeReturnsZeroStake(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/bet",
		`{"strategy":"ev","p":0.50,"o":"-110"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"0"`)
	assert.Contains(t, rec.Body.String(), "no edge")
}

func TestBetEndpointRejectsUnknownStrategy(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/bet",
		`{"strategy":"quadrantgale","p":0.55,"o":"-110"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":400`)
	assert.Contains(t, rec.Body.String(), "unknown strategy")
}

func TestBetEndpointRejectsMissingParameter(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/bet", `{"strategy":"ev","o":"-110"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":400`)
	assert.Contains(t, rec.Body.String(), "p is required")
}

func TestBetEndpointRejectsMalformedBody(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/bet", `{"strategy":`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":400`)
}

func TestBetEndpointInsufficientBankroll(t *testing.T) {
	e, _ := newTestServer(t, "50")

	rec := doJSON(e, http.MethodPost, "/api/bet",
		`{"strategy":"flat","fixed_amount":25}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":422`)
	assert.Contains(t, rec.Body.String(), "ERR_INSUFFICIENT_BANKROLL")
}

func TestSettleEndpointMovesBankroll(t *testing.T) {
	e, engine := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodPost, "/api/settle", `{"bank":"10350.00","won":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.Bankroll().Equal(decimal.RequireFromString("10350.00")))
	assert.Contains(t, rec.Body.String(), `"bankroll":"10350.00"`)
}

func TestSettleEndpointRejectsBadBank(t *testing.T) {
	e, engine := newTestServer(t, "10000")

	for _, body := range []string{
		`{"bank":"not-money","won":true}`,
		`{"bank":"-25.00","won":false}`,
		`{"won":true}`,
	} {
		rec := doJSON(e, http.MethodPost, "/api/settle", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":400`)
	}
	assert.True(t, engine.Bankroll().Equal(decimal.NewFromInt(10000)))
}

func TestSummaryEndpoint(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	doJSON(e, http.MethodPost, "/api/bet", `{"strategy":"ev","p":0.55,"o":"-110"}`)
	rec := doJSON(e, http.MethodGet, "/api/summary", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bets_placed":1`)
}

func TestHistoryEndpointNewestFirst(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	doJSON(e, http.MethodPost, "/api/bet", `{"strategy":"flat","fixed_amount":50}`)
	doJSON(e, http.MethodPost, "/api/bet", `{"strategy":"percentage","bet_pct":0.05}`)

	rec := doJSON(e, http.MethodGet, "/api/history?limit=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), `"strategy":"percentage"`)
	assert.NotContains(t, rec.Body.String(), `"strategy":"flat"`)
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t, "10000")

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
