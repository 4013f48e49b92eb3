package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"copyd/internal/protocol"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// WatchJobs streams the tracked job list over a websocket every
// api.watch_interval until the client disconnects or the API shuts down.
func (h *Handlers) WatchJobs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		slog.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()

	// Hijacked connections are not watched by the HTTP server, so read
	// until the client goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.config.GetAPI().WatchInterval)
	defer ticker.Stop()

	slog.Debug("job watch started", "remote_addr", r.RemoteAddr)
	for {
		jobs := h.queue.List()
		if jobs == nil {
			jobs = []protocol.JobSummary{}
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(jobs); err != nil {
			slog.Debug("job watch ended", "remote_addr", r.RemoteAddr, "error", err)
			return
		}

		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			slog.Debug("job watch ended", "remote_addr", r.RemoteAddr)
			return
		case <-ticker.C:
		}
	}
}

// upgradeError answers a failed handshake in the usual response envelope.
func (h *Handlers) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, status, reason.Error(), nil)
}

// Close ends every open job watch.
func (h *Handlers) Close() {
	h.cancel()
}
