package websocket

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

const outboundBufferSize = 256

type areaReader interface {
	Snapshot() entity.AreaSnapshot
}

// envelope is a frame queued for one client, or for every client when client is nil.
type envelope struct {
	client *Client
	data   []byte
}

// Hub tracks the connected players and fans area updates out to them.
// Only the Run loop touches the client set and the client send channels,
// so replies and broadcasts leave in the order they were queued.
type Hub struct {
	logger *slog.Logger
	area   areaReader

	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	outbound   chan envelope

	done chan struct{}
}

func NewHub(logger *slog.Logger, area areaReader) *Hub {
	return &Hub{
		logger:     logger.With("component", "websocket_hub"),
		area:       area,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan envelope, outboundBufferSize),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is canceled, then closes every connection.
func (that *Hub) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case client := <-that.register:
			that.registerClient(client)

		case client := <-that.unregister:
			that.unregisterClient(client)

		case message := <-that.outbound:
			that.deliver(message)

		case <-ctx.Done():
			for client := range that.clients {
				that.unregisterClient(client)
			}
			return
		}
	}
}

// AreaChanged broadcasts the fresh area snapshot to every connected player.
func (that *Hub) AreaChanged(_ context.Context) {
	snapshot := that.area.Snapshot()

	data, err := newMessage(actionAreaUpdate, ResponsePayload{Area: &snapshot})
	if err != nil {
		that.logger.Error("failed to build area update", "error", err)
		return
	}

	that.enqueue(envelope{data: data})
}

// Send queues a frame for a single client.
func (that *Hub) Send(client *Client, data []byte) {
	that.enqueue(envelope{client: client, data: data})
}

// join returns once Run has registered client, or false when the hub has stopped.
func (that *Hub) join(client *Client) bool {
	select {
	case that.register <- client:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) leave(client *Client) {
	select {
	case that.unregister <- client:
	case <-that.done:
	}
}

func (that *Hub) enqueue(message envelope) {
	select {
	case that.outbound <- message:
	case <-that.done:
	}
}

func (that *Hub) registerClient(client *Client) {
	that.clients[client] = true

	that.logger.Debug("client registered", "playerID", client.playerID, "clients", len(that.clients))
}

func (that *Hub) unregisterClient(client *Client) {
	if _, ok := that.clients[client]; !ok {
		return
	}

	delete(that.clients, client)
	close(client.send)

	that.logger.Debug("client unregistered", "playerID", client.playerID, "clients", len(that.clients))
}

func (that *Hub) deliver(message envelope) {
	if message.client != nil {
		that.sendTo(message.client, message.data)
		return
	}

	for client := range that.clients {
		that.sendTo(client, message.data)
	}
}

// sendTo drops clients that cannot keep up.
func (that *Hub) sendTo(client *Client, data []byte) {
	if !that.clients[client] {
		return
	}

	select {
	case client.send <- data:
	default:
		that.logger.Warn("client send buffer full, dropping connection", "playerID", client.playerID)
		that.unregisterClient(client)
	}
}
