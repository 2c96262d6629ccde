// Package api exposes the staking engine over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"BetForge/internal/domain/models"
	"BetForge/internal/service/ratelimit"
	"BetForge/internal/usecase"
	xhttp "BetForge/pkg/http"
	xlogger "BetForge/pkg/logger"
	"BetForge/pkg/oddsmath"
)

// BetsHandler implements the Echo HTTP surface over the staking engine.
type BetsHandler struct {
	logger  *xlogger.Logger
	engine  *usecase.Engine
	limiter *ratelimit.Limiter
	burst   float64
	refill  float64
}

func NewBetsHandler(logger *xlogger.Logger, engine *usecase.Engine) *BetsHandler {
	return &BetsHandler{logger: logger, engine: engine}
}

// WithRateLimit throttles POST /api/bet per client IP.
func (h *BetsHandler) WithRateLimit(l *ratelimit.Limiter, burst, refillPerSec float64) *BetsHandler {
	h.limiter = l
	h.burst = burst
	h.refill = refillPerSec
	return h
}

func (h *BetsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/bet", h.Bet, h.throttle)
	g.POST("/settle", h.Settle)
	g.GET("/summary", h.Summary)
	g.GET("/history", h.History)
	e.GET("/healthz", h.Health)
}

func (h *BetsHandler) throttle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.burst, h.refill) {
			return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// Bet sizes a wager with the named strategy and returns the recorded
// wager(s). No-edge outcomes are valid zero-stake wagers, not errors.
func (h *BetsHandler) Bet(c echo.Context) error {
	req := &models.BetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stratReq, err := req.ToStrategyRequest()
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	wagers, err := h.engine.Place(stratReq)
	if err != nil {
		return h.placeError(c, req.Strategy, err)
	}
	return xhttp.SuccessResponse(c, wagers)
}

func (h *BetsHandler) placeError(c echo.Context, strategy string, err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientBankroll):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(
			"ERR_INSUFFICIENT_BANKROLL", "", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, models.ErrUnknownStrategy), errors.Is(err, oddsmath.ErrInvalidOdds):
		return xhttp.BadRequestResponse(c, err.Error())
	default:
		h.logger.Error("bet failed",
			xlogger.String("strategy", strategy),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}

// Settle updates the bankroll to a post-settlement balance. This is the only
// endpoint that moves money.
func (h *BetsHandler) Settle(c echo.Context) error {
	req := &models.SettleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bank, err := decimal.NewFromString(req.Bank)
	if err != nil {
		return xhttp.BadRequestResponse(c, "bank must be a decimal string")
	}
	if bank.IsNegative() {
		return xhttp.BadRequestResponse(c, "bank must not be negative")
	}

	h.engine.UpdateBank(c.Request().Context(), bank, req.Won)
	return xhttp.SuccessResponse(c, h.engine.Summary())
}

// Summary reports engine performance counters.
func (h *BetsHandler) Summary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.engine.Summary())
}

// History returns the most recent buffered wagers, newest first. Flushed
// records live in the archive, not here.
func (h *BetsHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows := h.engine.History().Recent(req.Limit)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *BetsHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
