package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

type staticArea struct {
	snapshot entity.AreaSnapshot
}

func (that staticArea) Snapshot() entity.AreaSnapshot {
	return that.snapshot
}

func newTestHub(snapshot entity.AreaSnapshot) *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), staticArea{snapshot: snapshot})
}

func newTestClient(hub *Hub, playerID string, buffer int) *Client {
	return &Client{hub: hub, playerID: playerID, send: make(chan []byte, buffer)}
}

func TestHub_RegisterClient(t *testing.T) {
	// Given: a hub and two clients
	hub := newTestHub(entity.AreaSnapshot{AreaID: "lobby"})
	alice := newTestClient(hub, "alice", 1)
	bob := newTestClient(hub, "bob", 1)

	// When: both register and one leaves
	hub.registerClient(alice)
	hub.registerClient(bob)
	hub.unregisterClient(alice)

	// Then: only the remaining client is tracked and the leaver's channel is closed
	assert.Len(t, hub.clients, 1)
	assert.True(t, hub.clients[bob])

	_, open := <-alice.send
	assert.False(t, open)

	// And: unregistering twice is harmless
	assert.NotPanics(t, func() { hub.unregisterClient(alice) })
}

func TestHub_Deliver(t *testing.T) {
	t.Run("Broadcast reaches every client", func(t *testing.T) {
		// Given: two registered clients
		hub := newTestHub(entity.AreaSnapshot{AreaID: "lobby"})
		alice := newTestClient(hub, "alice", 1)
		bob := newTestClient(hub, "bob", 1)
		hub.registerClient(alice)
		hub.registerClient(bob)

		// When: a broadcast is delivered
		hub.deliver(envelope{data: []byte("hello")})

		// Then: both receive it
		assert.Equal(t, []byte("hello"), <-alice.send)
		assert.Equal(t, []byte("hello"), <-bob.send)
	})

	t.Run("Direct frame reaches one client", func(t *testing.T) {
		// Given: two registered clients
		hub := newTestHub(entity.AreaSnapshot{AreaID: "lobby"})
		alice := newTestClient(hub, "alice", 1)
		bob := newTestClient(hub, "bob", 1)
		hub.registerClient(alice)
		hub.registerClient(bob)

		// When: a frame is addressed to alice
		hub.deliver(envelope{client: alice, data: []byte("hi")})

		// Then: only alice receives it
		assert.Equal(t, []byte("hi"), <-alice.send)
		assert.Empty(t, bob.send)
	})

	t.Run("Slow client is dropped", func(t *testing.T) {
		// Given: a client whose buffer is already full
		hub := newTestHub(entity.AreaSnapshot{AreaID: "lobby"})
		slow := newTestClient(hub, "slow", 1)
		hub.registerClient(slow)
		hub.deliver(envelope{data: []byte("first")})

		// When: another frame arrives
		hub.deliver(envelope{data: []byte("second")})

		// Then: the client is unregistered
		assert.Empty(t, hub.clients)
	})

	t.Run("Unregistered client is skipped", func(t *testing.T) {
		// Given: a client that never registered
		hub := newTestHub(entity.AreaSnapshot{AreaID: "lobby"})
		stranger := newTestClient(hub, "stranger", 1)

		// When: a frame is addressed to it
		hub.deliver(envelope{client: stranger, data: []byte("hi")})

		// Then: nothing is queued
		assert.Empty(t, stranger.send)
	})
}

func TestHub_AreaChanged(t *testing.T) {
	// Given: a running hub with one client and an area holding a game
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := entity.AreaSnapshot{
		AreaID: "lobby",
		GameID: "game-1",
		Game:   &entity.GameState{Status: entity.StatusWaiting, X: "alice", Moves: []entity.Move{}},
	}
	hub := newTestHub(snapshot)
	go hub.Run(ctx)

	client := newTestClient(hub, "alice", 1)
	require.True(t, hub.join(client))

	// When: the area reports a change
	hub.AreaChanged(ctx)

	// Then: the client gets an area update with the snapshot
	var message Message
	require.NoError(t, json.Unmarshal(<-client.send, &message))
	assert.Equal(t, actionAreaUpdate, message.Action)

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))
	assert.Equal(t, &snapshot, payload.Area)

	// When: the hub stops
	cancel()

	// Then: the client channel is closed and further updates do not block
	_, open := <-client.send
	assert.False(t, open)
	assert.NotPanics(t, func() { hub.AreaChanged(context.Background()) })
	assert.False(t, hub.join(newTestClient(hub, "bob", 1)))
}
