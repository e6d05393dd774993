package server

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// StreamHandler serves the annotated frames as MJPEG.
type StreamHandler struct {
	hub  *Hub
	rate float64
}

// NewStreamHandler creates a StreamHandler sending at most maxRate frames
// per second to each client.
func NewStreamHandler(hub *Hub, maxRate float64) *StreamHandler {
	return &StreamHandler{hub: hub, rate: maxRate}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	frames, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	limiter := rate.NewLimiter(rate.Limit(h.rate), 1)

	for {
		select {
		case <-r.Context().Done():
			return
		case f := <-frames:
			if len(f.JPEG) == 0 || !limiter.Allow() {
				continue
			}

			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(f.JPEG))
			if _, err := w.Write(f.JPEG); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if fl, ok := w.(http.Flusher); ok {
				fl.Flush()
			}
		}
	}
}
