package ws

import (
	"net/http"

	"nhooyr.io/websocket"

	"todoapi/internal/auth"
	"todoapi/pkg/logger"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
func ServeWS(hub *Hub, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		identity, err := auth.VerifyToken(tokenStr, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Error(r.Context(), "ws: accept error", "error", err)
			return
		}

		client := NewClient(hub, conn, identity.UserID)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
