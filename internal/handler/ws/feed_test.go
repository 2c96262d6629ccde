package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/internal/domain/models"
	"BetForge/pkg/logger"
)

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/wagers"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeedBroadcastsWagers(t *testing.T) {
	feed := NewFeed(logger.Nop())
	feed.Start()
	t.Cleanup(func() { feed.Close() })

	e := echo.New()
	feed.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conn := dialFeed(t, srv)

	// registration races the publish without a brief settle
	time.Sleep(50 * time.Millisecond)

	w := &models.Wager{
		Strategy: "ev",
		Amount:   decimal.RequireFromString("125.50"),
		Why:      "EV 5.00%",
		Risk:     "medium",
	}
	require.NoError(t, feed.Publish(t.Context(), w))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Wager
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "ev", got.Strategy)
	assert.True(t, got.Amount.Equal(w.Amount))
}

func TestFeedFanOut(t *testing.T) {
	feed := NewFeed(logger.Nop())
	feed.Start()
	t.Cleanup(func() { feed.Close() })

	e := echo.New()
	feed.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	first := dialFeed(t, srv)
	second := dialFeed(t, srv)
	time.Sleep(50 * time.Millisecond)

	w := &models.Wager{Strategy: "fib", Amount: decimal.NewFromInt(10)}
	require.NoError(t, feed.Publish(t.Context(), w))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), `"strategy":"fib"`)
	}
}

func TestFeedPublishAfterClose(t *testing.T) {
	feed := NewFeed(logger.Nop())
	feed.Start()
	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close())

	w := &models.Wager{Strategy: "ev"}
	assert.NoError(t, feed.Publish(t.Context(), w))
}
