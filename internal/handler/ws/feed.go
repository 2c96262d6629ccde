// Package ws streams recorded wagers to websocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"BetForge/internal/domain/models"
	"BetForge/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
	broadcastDepth = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans recorded wagers out to connected websocket clients. It drops
// messages rather than block the staking path: a slow subscriber loses
// updates, the engine never waits.
type Feed struct {
	logger *logger.Logger

	broadcast   chan []byte
	register    chan *subscriber
	unregister  chan *subscriber
	subscribers map[*subscriber]struct{}

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func NewFeed(log *logger.Logger) *Feed {
	return &Feed{
		logger:      log,
		broadcast:   make(chan []byte, broadcastDepth),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		subscribers: make(map[*subscriber]struct{}),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Start runs the fan-out loop until Close.
func (f *Feed) Start() {
	go f.run()
}

func (f *Feed) run() {
	defer close(f.stopped)
	for {
		select {
		case <-f.done:
			for sub := range f.subscribers {
				close(sub.send)
				delete(f.subscribers, sub)
			}
			return

		case sub := <-f.register:
			f.subscribers[sub] = struct{}{}
			f.logger.Debug("wager feed subscriber connected",
				logger.Int("subscribers", len(f.subscribers)))

		case sub := <-f.unregister:
			if _, ok := f.subscribers[sub]; ok {
				delete(f.subscribers, sub)
				close(sub.send)
				f.logger.Debug("wager feed subscriber disconnected",
					logger.Int("subscribers", len(f.subscribers)))
			}

		case msg := <-f.broadcast:
			for sub := range f.subscribers {
				select {
				case sub.send <- msg:
				default:
					// subscriber too slow, drop this update for it
				}
			}
		}
	}
}

// Publish queues a recorded wager for broadcast.
func (f *Feed) Publish(_ context.Context, w *models.Wager) error {
	payload, err := json.Marshal(w)
	if err != nil {
		return err
	}
	select {
	case <-f.done:
	case f.broadcast <- payload:
	default:
		f.logger.Warn("wager feed buffer full, dropping update",
			logger.String("strategy", w.Strategy))
	}
	return nil
}

// Close stops the fan-out loop and disconnects all subscribers.
func (f *Feed) Close() error {
	f.stopOnce.Do(func() {
		close(f.done)
		<-f.stopped
	})
	return nil
}

// RegisterRoutes attaches the live feed endpoint.
func (f *Feed) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/wagers", f.serve)
}

func (f *Feed) serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case f.register <- sub:
	case <-f.done:
		conn.Close()
		return nil
	}

	go f.writePump(sub)
	go f.readPump(sub)
	return nil
}

// writePump pushes queued wagers and keepalive pings to one subscriber.
func (f *Feed) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and tracks liveness via pongs. The feed
// is one-way: subscribers only listen.
func (f *Feed) readPump(sub *subscriber) {
	defer func() {
		select {
		case f.unregister <- sub:
		case <-f.done:
		}
		sub.conn.Close()
	}()

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
