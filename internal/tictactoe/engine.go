package tictactoe

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

// MaxPlayers is the roster capacity.
const MaxPlayers = 2

// snapshot pairs the published game state with the roster it was computed from.
type snapshot struct {
	game   entity.GameState
	roster []string
}

func (that *snapshot) clone() *snapshot {
	return &snapshot{
		game:   that.game.Clone(),
		roster: slices.Clone(that.roster),
	}
}

func (that *snapshot) inRoster(playerID string) bool {
	return slices.Contains(that.roster, playerID)
}

// Engine owns the state of a single game. Every successful operation replaces
// the snapshot as a whole, so readers never observe a half-applied transition.
type Engine struct {
	id string

	mu    sync.Mutex
	state atomic.Pointer[snapshot]
}

func NewEngine(id string) *Engine {
	engine := &Engine{id: id}
	engine.state.Store(&snapshot{game: entity.NewGameState()})

	return engine
}

func (that *Engine) ID() string {
	return that.id
}

// State returns a copy of the current game state.
func (that *Engine) State() entity.GameState {
	return that.state.Load().game.Clone()
}

// Players returns the roster in join order.
func (that *Engine) Players() []string {
	return slices.Clone(that.state.Load().roster)
}

// Join adds playerID to the roster. The first joiner plays X, the second O.
func (that *Engine) Join(playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	current := that.state.Load()

	if current.inRoster(playerID) {
		return apperror.ErrPlayerAlreadyInGame
	}

	if len(current.roster) >= MaxPlayers {
		return apperror.ErrGameFull
	}

	next := current.clone()

	switch {
	case next.game.X == "":
		next.game.X = playerID
	case next.game.O == "":
		next.game.O = playerID
	default:
		// both seats were taken by players who have since left a finished game
		return apperror.ErrGameFull
	}

	next.roster = append(next.roster, playerID)

	if next.game.IsWaiting() && next.game.X != "" && next.game.O != "" {
		next.game.Status = entity.StatusInProgress
	}

	that.state.Store(next)

	return nil
}

// Leave removes playerID from the roster. A player left alone wins by forfeit,
// whatever the game status was; a game left empty goes back to waiting.
func (that *Engine) Leave(playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	current := that.state.Load()

	if !current.inRoster(playerID) {
		return apperror.ErrPlayerNotInGame
	}

	next := current.clone()
	next.roster = slices.DeleteFunc(next.roster, func(id string) bool {
		return id == playerID
	})

	switch len(next.roster) {
	case 0:
		next.game = entity.NewGameState()
	case 1:
		next.game.Status = entity.StatusOver
		next.game.Winner = next.roster[0]
	}

	that.state.Store(next)

	return nil
}

// ApplyMove places the mover's piece at pos and settles the game if the move ends it.
func (that *Engine) ApplyMove(playerID string, pos entity.Position) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	current := that.state.Load()

	piece, err := validateMove(current, playerID, pos)
	if err != nil {
		return err
	}

	next := current.clone()
	move := entity.Move{Piece: piece, Row: pos.Row, Col: pos.Col}
	next.game.Moves = append(next.game.Moves, move)
	updateGameStatus(&next.game, move, playerID)

	that.state.Store(next)

	return nil
}

// validateMove - checks the move against the current snapshot and returns the mover's piece.
func validateMove(current *snapshot, playerID string, pos entity.Position) (entity.Piece, error) {
	if !current.game.IsInProgress() {
		return entity.EmptyCell, apperror.ErrGameNotInProgress
	}

	piece, ok := current.game.PieceOf(playerID)
	if !ok || !current.inRoster(playerID) {
		return entity.EmptyCell, apperror.ErrPlayerNotInGame
	}

	if !entity.IsOnBoard(pos.Row, pos.Col) {
		return entity.EmptyCell, apperror.ErrInvalidMove
	}

	if current.game.NextPiece() != piece {
		return entity.EmptyCell, apperror.ErrMoveNotYourTurn
	}

	if current.game.IsOccupied(pos.Row, pos.Col) {
		return entity.EmptyCell, apperror.ErrBoardPositionNotEmpty
	}

	return piece, nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.GameState, move entity.Move, playerID string) {
	switch {
	case isWinningMove(game.Board(), move):
		game.Status = entity.StatusOver
		game.Winner = playerID
	case game.IsBoardFull():
		game.Status = entity.StatusOver
		game.Winner = ""
	}
}

// isWinningMove reports whether move completed a row, a column or a diagonal.
// Only lines through the played cell can have changed.
func isWinningMove(board [entity.BoardSize][entity.BoardSize]entity.Piece, move entity.Move) bool {
	var row, col, diagonal, antiDiagonal int

	for i := range entity.BoardSize {
		if board[move.Row][i] == move.Piece {
			row++
		}
		if board[i][move.Col] == move.Piece {
			col++
		}
		if board[i][i] == move.Piece {
			diagonal++
		}
		if board[i][entity.BoardSize-1-i] == move.Piece {
			antiDiagonal++
		}
	}

	switch {
	case row == entity.BoardSize, col == entity.BoardSize:
		return true
	case move.Row == move.Col && diagonal == entity.BoardSize:
		return true
	case move.Row+move.Col == entity.BoardSize-1 && antiDiagonal == entity.BoardSize:
		return true
	default:
		return false
	}
}
