package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-area/internal/config"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	"github.com/rocketscienceinc/tictactoe-area/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-area/transport/mcp"
	"github.com/rocketscienceinc/tictactoe-area/transport/rest"
	"github.com/rocketscienceinc/tictactoe-area/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	area := usecase.NewGameArea(logger, conf.AreaID)

	if conf.Redis.Enabled {
		closeStorage, err := subscribePublisher(ctx, logger, conf, area)
		if err != nil {
			return err
		}
		defer closeStorage()
	}

	wsServer := websocket.New(logger, area)
	area.Subscribe(wsServer.Hub())

	restServer := rest.New(logger, area)
	if conf.MCP.Enabled {
		restServer.Mount("/mcp", mcp.New(logger, area).Handler())
		log.Info("MCP endpoint enabled", "path", "/mcp")
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- restServer.Start(ctx, conf.HTTPPort)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- wsServer.Start(ctx, conf.SocketPort)
	}()

	select {
	case err := <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case err := <-wsErrCh:
		if err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// subscribePublisher stores and publishes every area change in redis.
func subscribePublisher(ctx context.Context, logger *slog.Logger, conf *config.Config, area *usecase.GameArea) (func(), error) {
	log := logger.With("component", "app")

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage)
	publisher := service.NewSnapshotPublisher(logger, area, gameRepo)

	if err = publisher.Reset(ctx); err != nil {
		_ = redisStorage.Close()
		return nil, fmt.Errorf("could not reset stored snapshot: %w", err)
	}

	area.Subscribe(publisher)

	log.Info("Publishing area snapshots to redis", "addr", redisAddrString, "channel", repository.UpdatesChannel(conf.AreaID))

	return func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}, nil
}
