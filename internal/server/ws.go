package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// CountsHandler pushes each frame's counts to websocket clients. Updates
// are throttled per client, but a change in the total is always sent.
type CountsHandler struct {
	hub  *Hub
	rate float64
	log  logrus.FieldLogger
}

// NewCountsHandler creates a new CountsHandler.
func NewCountsHandler(hub *Hub, maxRate float64, log logrus.FieldLogger) *CountsHandler {
	return &CountsHandler{hub: hub, rate: maxRate, log: log}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *CountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	frames, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// Detect client close by reading until error.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(h.rate), 1)
	lastTotal := -1

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case f := <-frames:
			changed := f.Count.Total != lastTotal
			if !limiter.Allow() && !changed {
				continue
			}

			msg, err := json.Marshal(newCountsMessage(f.Seq, f.At, f.Count))
			if err != nil {
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.WithError(err).Debug("websocket write failed")
				return
			}
			lastTotal = f.Count.Total
		}
	}
}
