package stream

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades incoming HTTP requests to WebSocket connections and
// registers them with hub.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("stream: upgrade failed: %v", err)
			return
		}
		client := &Client{hub: hub, conn: conn, send: make(chan []byte, 64)}
		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}

// BroadcastInterval emits one interval's dispatch result to every
// connected client, logging and discarding the message on a marshal
// failure rather than propagating it into the simulation loop.
func BroadcastInterval(hub *Hub, payload IntervalPayload) {
	msg, err := NewEnvelope(TypeInterval, payload)
	if err != nil {
		log.Printf("stream: marshaling interval payload: %v", err)
		return
	}
	hub.Broadcast(msg)
}

// BroadcastRunComplete emits the end-of-run summary to every connected client.
func BroadcastRunComplete(hub *Hub, payload RunCompletePayload) {
	msg, err := NewEnvelope(TypeRunComplete, payload)
	if err != nil {
		log.Printf("stream: marshaling run-complete payload: %v", err)
		return
	}
	hub.Broadcast(msg)
}
