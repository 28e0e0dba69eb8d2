package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBufferSize = 64
)

// Client is one player connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

func newClient(hub *Hub, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		playerID: playerID,
	}
}

// readPump hands every incoming message to handle until the connection fails.
func (that *Client) readPump(ctx context.Context, handle func(ctx context.Context, client *Client, raw []byte)) {
	defer func() {
		that.hub.leave(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.hub.logger.Warn("websocket read failed", "playerID", that.playerID, "error", err)
			}
			return
		}

		handle(ctx, that, raw)
	}
}

// writePump writes queued frames one message at a time and keeps the connection alive.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
