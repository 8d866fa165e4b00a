package shift

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/evn/eom_hradmin/internal/middleware"
	"github.com/evn/eom_hradmin/internal/services/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ShiftEventsHandler GET /ws/shifts: поток событий для админ-панели.
func ShiftEventsHandler(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(conn, userID)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go hub.WritePump(client)
		go hub.ReadPump(client)
	}
}
