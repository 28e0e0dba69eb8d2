package entity

type CommandType string

const (
	CommandJoinGame  CommandType = "JoinGame"
	CommandLeaveGame CommandType = "LeaveGame"
	CommandGameMove  CommandType = "GameMove"
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Command is an instruction issued by a player to the game area.
// GameID addresses the target game for LeaveGame and GameMove.
type Command struct {
	Type   CommandType `json:"type"`
	GameID string      `json:"gameID,omitempty"`
	Move   *Position   `json:"move,omitempty"`
}

// CommandResult is empty on success except for JoinGame, which reports the joined game.
type CommandResult struct {
	GameID string `json:"gameID,omitempty"`
}

// AreaSnapshot is what observers read back after a change notification.
type AreaSnapshot struct {
	AreaID string     `json:"areaID"`
	GameID string     `json:"gameID,omitempty"`
	Game   *GameState `json:"game,omitempty"`
}
