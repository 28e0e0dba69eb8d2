package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

func unmarshalMessage(raw []byte, message *Message) error {
	if err := json.Unmarshal(raw, message); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidCommand, err)
	}

	if message.Action == "" {
		return apperror.ErrInvalidCommand
	}

	return nil
}

func unmarshalPayload(message *Message) (RequestPayload, error) {
	var payload RequestPayload
	if len(message.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", apperror.ErrInvalidCommand, err)
	}

	return payload, nil
}

func (that *Server) handleJoinGame(ctx context.Context, client *Client, message *Message) error {
	result, err := that.area.HandleCommand(ctx, entity.Command{Type: entity.CommandJoinGame}, client.playerID)
	if err != nil {
		return err
	}

	that.reply(client, message.Action, ResponsePayload{PlayerID: client.playerID, GameID: result.GameID})

	return nil
}

func (that *Server) handleLeaveGame(ctx context.Context, client *Client, message *Message) error {
	payload, err := unmarshalPayload(message)
	if err != nil {
		return err
	}

	command := entity.Command{Type: entity.CommandLeaveGame, GameID: payload.GameID}
	if _, err = that.area.HandleCommand(ctx, command, client.playerID); err != nil {
		return err
	}

	that.reply(client, message.Action, ResponsePayload{PlayerID: client.playerID, GameID: payload.GameID})

	return nil
}

func (that *Server) handleGameMove(ctx context.Context, client *Client, message *Message) error {
	payload, err := unmarshalPayload(message)
	if err != nil {
		return err
	}

	command := entity.Command{Type: entity.CommandGameMove, GameID: payload.GameID, Move: payload.Move}
	if _, err = that.area.HandleCommand(ctx, command, client.playerID); err != nil {
		return err
	}

	that.reply(client, message.Action, ResponsePayload{PlayerID: client.playerID, GameID: payload.GameID})

	return nil
}

func (that *Server) handleAreaState(_ context.Context, client *Client, message *Message) error {
	snapshot := that.area.Snapshot()
	that.reply(client, message.Action, ResponsePayload{Area: &snapshot})

	return nil
}

// handleUnknown rejects actions without a handler. Command types are never
// taken from the wire, so an action named after one cannot reach the area.
func (that *Server) handleUnknown(_ context.Context, _ *Client, _ *Message) error {
	return apperror.ErrInvalidCommand
}
