package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

const (
	sessionCookieName = "user_session"
	playerIDParam     = "player_id"

	shutdownTimeout = 5 * time.Second
)

type areaUseCase interface {
	HandleCommand(ctx context.Context, command entity.Command, playerID string) (entity.CommandResult, error)
	Snapshot() entity.AreaSnapshot
}

type handlerFunc func(ctx context.Context, client *Client, message *Message) error

type Server struct {
	logger *slog.Logger
	area   areaUseCase
	hub    *Hub

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, area areaUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket_server"),
		area:   area,
		hub:    NewHub(logger, area),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameJoin] = server.handleJoinGame
	server.handlers[actionGameLeave] = server.handleLeaveGame
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionAreaState] = server.handleAreaState

	return server
}

// Hub is the area observer that pushes updates to connected players.
func (that *Server) Hub() *Hub {
	return that.hub
}

// Handler serves the websocket endpoint. Connections live until ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	go that.hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and starts the client pumps.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	playerID, header := that.resolvePlayer(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.hub, conn, playerID)
	if !that.hub.join(client) {
		_ = conn.Close()
		return
	}

	log.Info("WebSocket connection established", "playerID", playerID)

	snapshot := that.area.Snapshot()
	that.reply(client, actionConnect, ResponsePayload{PlayerID: playerID, Area: &snapshot})

	go client.writePump()
	go client.readPump(ctx, that.handleMessage)
}

// resolvePlayer identifies the player by query parameter or session cookie, issuing a new session otherwise.
func (that *Server) resolvePlayer(req *http.Request) (string, http.Header) {
	if playerID := req.URL.Query().Get(playerIDParam); playerID != "" {
		return playerID, nil
	}

	if cookie, err := req.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:    sessionCookieName,
		Value:   uuid.NewString(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	that.logger.Info("session cookie not found, new one created", "cookie", cookie.Value)

	return cookie.Value, header
}

// handleMessage - processes a message from the client.
func (that *Server) handleMessage(ctx context.Context, client *Client, raw []byte) {
	log := that.logger.With("method", "handleMessage", "playerID", client.playerID)

	var message Message
	if err := unmarshalMessage(raw, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		that.reply(client, actionError, errorPayload(err))
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		handler = that.handleUnknown
	}

	if err := handler(ctx, client, &message); err != nil {
		if apperror.KindOf(err) == apperror.KindUnknown {
			log.Error("error processing message", "action", message.Action, "error", err)
		}

		that.reply(client, message.Action, errorPayload(err))
	}
}

func (that *Server) reply(client *Client, action string, payload ResponsePayload) {
	data, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to build reply", "action", action, "error", err)
		return
	}

	that.hub.Send(client, data)
}
