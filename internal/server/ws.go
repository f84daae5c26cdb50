package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/folio/internal/gesture"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventFeed streams every fired gesture to websocket clients as JSON.
type EventFeed struct {
	bus    *gesture.Bus
	logger *zap.SugaredLogger
}

// NewEventFeed creates a new EventFeed reading from bus.
func NewEventFeed(bus *gesture.Bus, logger *zap.SugaredLogger) *EventFeed {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &EventFeed{bus: bus, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, err := h.bus.Subscribe(gesture.DefaultBuffer)
	if err != nil {
		http.Error(w, "event feed closed", http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debugw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debugw("event feed client connected", "subscriber", sub.ID, "remote", r.RemoteAddr)

	// Clients never send; reading only processes control frames and
	// notices disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debugw("event feed write failed", "subscriber", sub.ID, "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
