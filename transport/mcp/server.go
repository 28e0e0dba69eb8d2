package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

const (
	serverName    = "Tic-Tac-Toe Area"
	serverVersion = "1.0.0"
)

var errMissingArgument = errors.New("missing argument")

type areaUseCase interface {
	HandleCommand(ctx context.Context, command entity.Command, playerID string) (entity.CommandResult, error)
	Snapshot() entity.AreaSnapshot
}

// Server exposes the area commands as MCP tools so agents can play.
type Server struct {
	logger    *slog.Logger
	area      areaUseCase
	mcpServer *server.MCPServer
}

func New(logger *slog.Logger, area areaUseCase) *Server {
	that := &Server{
		logger: logger.With("component", "mcp_server"),
		area:   area,
	}

	that.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tic-Tac-Toe Area - MCP Interface

Two players share a 3x3 board. X moves first, then players alternate.
Three pieces in a row, column or diagonal win; a full board without a line is a tie.

AVAILABLE TOOLS:
- join_game: Join the current game of the area, or start a new one
- leave_game: Leave a game; a remaining opponent wins by forfeit
- make_move: Place your piece at row/col (0-2)
- area_state: Get the current game of the area

Every tool that changes the game needs your player_id.`),
	)

	that.registerTools()

	return that
}

// Handler answers JSON-RPC requests posted to it.
func (that *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := that.mcpServer.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			that.logger.Error("failed to marshal response", "error", err)
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err = w.Write(responseData); err != nil {
			that.logger.Error("failed to write response", "error", err)
		}
	})
}

func (that *Server) registerTools() {
	that.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join the current game of the area, starting a new one when there is none or it is over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
			},
			Required: []string{"player_id"},
		},
	}, that.handleJoinGame)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_game",
		Description: "Leave a game. If your opponent stays, they win by forfeit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID returned by join_game",
				},
			},
			Required: []string{"player_id", "game_id"},
		},
	}, that.handleLeaveGame)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "make_move",
		Description: "Place your piece on an empty cell when it is your turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player ID",
				},
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID returned by join_game",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0 to 2",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0 to 2",
				},
			},
			Required: []string{"player_id", "game_id", "row", "col"},
		},
	}, that.handleMakeMove)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "area_state",
		Description: "Get the current game of the area: status, players, moves and winner",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, that.handleAreaState)
}

func (that *Server) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	playerID, ok := args["player_id"].(string)
	if !ok || playerID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%v: player_id", errMissingArgument)), nil
	}

	result, err := that.area.HandleCommand(ctx, entity.Command{Type: entity.CommandJoinGame}, playerID)
	if err != nil {
		return that.commandError(err), nil
	}

	return that.jsonResult(result)
}

func (that *Server) handleLeaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	playerID, _ := args["player_id"].(string)
	gameID, _ := args["game_id"].(string)

	if playerID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%v: player_id", errMissingArgument)), nil
	}

	command := entity.Command{Type: entity.CommandLeaveGame, GameID: gameID}
	if _, err := that.area.HandleCommand(ctx, command, playerID); err != nil {
		return that.commandError(err), nil
	}

	return that.jsonResult(that.area.Snapshot())
}

func (that *Server) handleMakeMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	playerID, _ := args["player_id"].(string)
	gameID, _ := args["game_id"].(string)

	if playerID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%v: player_id", errMissingArgument)), nil
	}

	command := entity.Command{Type: entity.CommandGameMove, GameID: gameID}

	row, hasRow := intArgument(args, "row")
	col, hasCol := intArgument(args, "col")
	if hasRow && hasCol {
		command.Move = &entity.Position{Row: row, Col: col}
	}

	if _, err := that.area.HandleCommand(ctx, command, playerID); err != nil {
		return that.commandError(err), nil
	}

	return that.jsonResult(that.area.Snapshot())
}

func (that *Server) handleAreaState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return that.jsonResult(that.area.Snapshot())
}

// commandError reports rule violations by kind so agents can react to them.
func (that *Server) commandError(err error) *mcp.CallToolResult {
	kind := apperror.KindOf(err)
	if kind == apperror.KindUnknown {
		that.logger.Error("command failed", "error", err)
		return mcp.NewToolResultError("internal error")
	}

	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", kind, err.Error()))
}

func (that *Server) jsonResult(value any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}

	return args
}

// intArgument accepts JSON numbers, which decode as float64, and plain ints.
// Fractional and infinite numbers are not coordinates.
func intArgument(args map[string]interface{}, key string) (int, bool) {
	switch value := args[key].(type) {
	case float64:
		if math.IsInf(value, 0) || value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case int:
		return value, true
	default:
		return 0, false
	}
}
