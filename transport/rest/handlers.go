package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) areaHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, that.area.Snapshot())
}

func (that *Server) historyHandler(w http.ResponseWriter, _ *http.Request) {
	history := that.area.History()
	if history == nil {
		history = []entity.HistoryRecord{}
	}

	that.writeJSON(w, history)
}

func (that *Server) writeJSON(w http.ResponseWriter, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		that.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
