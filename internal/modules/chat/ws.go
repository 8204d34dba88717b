package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS handled upstream
}

// GET /chat/ws — carries the worker message protocol verbatim: the client
// sends initialize/generate envelopes, the server relays every worker event.
func (h *Handler) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.svc.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.svc.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			break
		}
		switch env.Type {
		case EnvelopeInitialize, EnvelopeGenerate:
			h.svc.Send(env)
		default:
			_ = conn.WriteJSON(Event{Type: EventError, Query: env.Query, Error: "unknown message type: " + env.Type})
		}
	}

	unsubscribe()
	<-done
}
