// Package ws streams draft events to WebSocket clients. It carries the
// same events as the SSE endpoint for clients that want a two-way
// connection.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/pubsub"
)

// Handler upgrades the connection and forwards every pubsub event to the
// client. Inbound messages are pings only; mutations go through the HTTP
// API so they share validation and auth.
func Handler(ps *pubsub.PubSub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		events := ps.Subscribe()
		defer ps.Unsubscribe(events)

		// Writer goroutine pushes events; the reader loop below keeps the
		// connection honest and notices disconnects.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for event := range events {
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				err = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					writeCancel()
					return
				}
			}
		}()

		for {
			// Clients are passive listeners; reads only surface pings and
			// disconnects, so no read deadline.
			_, _, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				logger.Debug("websocket client dropped", "error", err)
				return
			}
		}
	}
}
