package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

const (
	actionConnect    = "connect"
	actionGameJoin   = "game:join"
	actionGameLeave  = "game:leave"
	actionGameMove   = "game:move"
	actionAreaState  = "area:state"
	actionAreaUpdate = "area:update"
	actionError      = "error"
)

const internalErrorMessage = "Internal error"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the arguments of game:leave and game:move.
type RequestPayload struct {
	GameID string           `json:"gameID,omitempty"`
	Move   *entity.Position `json:"move,omitempty"`
}

type ResponsePayload struct {
	PlayerID string               `json:"playerID,omitempty"`
	GameID   string               `json:"gameID,omitempty"`
	Area     *entity.AreaSnapshot `json:"area,omitempty"`
	Error    string               `json:"error,omitempty"`
	Kind     string               `json:"kind,omitempty"`
}

func newMessage(action string, payload ResponsePayload) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return message, nil
}

// errorPayload exposes rule violations by kind; anything else is reported as an internal error.
func errorPayload(err error) ResponsePayload {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return ResponsePayload{Error: internalErrorMessage, Kind: apperror.KindUnknown.String()}
	}

	return ResponsePayload{Error: appErr.Error(), Kind: appErr.Kind().String()}
}
