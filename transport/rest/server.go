package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type areaReader interface {
	Snapshot() entity.AreaSnapshot
	History() []entity.HistoryRecord
}

type Server struct {
	logger *slog.Logger
	area   areaReader
	mux    *http.ServeMux
}

func New(logger *slog.Logger, area areaReader) *Server {
	server := &Server{
		logger: logger.With("component", "rest_server"),
		area:   area,
		mux:    http.NewServeMux(),
	}

	server.mux.HandleFunc("GET /ping", server.pingHandler)
	server.mux.HandleFunc("GET /area", server.areaHandler)
	server.mux.HandleFunc("GET /area/history", server.historyHandler)

	return server
}

// Mount serves handler under pattern next to the built-in routes.
func (that *Server) Mount(pattern string, handler http.Handler) {
	that.mux.Handle(pattern, handler)
}

func (that *Server) Handler() http.Handler {
	return that.mux
}

// Start - starts HTTP server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
