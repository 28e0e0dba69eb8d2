package entity

type Status string

const (
	StatusWaiting    Status = "WAITING_TO_START"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOver       Status = "OVER"
)

type Piece string

const (
	PieceX Piece = "X"
	PieceO Piece = "O"

	EmptyCell Piece = ""
)

// BoardSize is the number of rows and of columns.
const BoardSize = 3

type Move struct {
	Piece Piece `json:"gamePiece"`
	Row   int   `json:"row"`
	Col   int   `json:"col"`
}

// GameState is a snapshot of one game. Snapshots are never mutated once published.
type GameState struct {
	Status Status `json:"status"`
	X      string `json:"x,omitempty"`
	O      string `json:"o,omitempty"`
	Moves  []Move `json:"moves"`
	Winner string `json:"winner,omitempty"`
}

func NewGameState() GameState {
	return GameState{
		Status: StatusWaiting,
		Moves:  []Move{},
	}
}

// Clone returns a copy that shares no memory with the receiver.
func (that GameState) Clone() GameState {
	moves := make([]Move, len(that.Moves))
	copy(moves, that.Moves)
	that.Moves = moves

	return that
}

func (that GameState) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that GameState) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that GameState) IsOver() bool {
	return that.Status == StatusOver
}

// IsTie reports a finished game without a winner.
func (that GameState) IsTie() bool {
	return that.IsOver() && that.Winner == ""
}

// NextPiece is the piece to move. X always opens.
func (that GameState) NextPiece() Piece {
	if len(that.Moves)%2 == 0 {
		return PieceX
	}
	return PieceO
}

// PieceOf returns the piece assigned to playerID, if any.
func (that GameState) PieceOf(playerID string) (Piece, bool) {
	switch {
	case playerID == "":
		return EmptyCell, false
	case that.X == playerID:
		return PieceX, true
	case that.O == playerID:
		return PieceO, true
	default:
		return EmptyCell, false
	}
}

func (that GameState) IsOccupied(row, col int) bool {
	for _, move := range that.Moves {
		if move.Row == row && move.Col == col {
			return true
		}
	}
	return false
}

func (that GameState) IsBoardFull() bool {
	return len(that.Moves) >= BoardSize*BoardSize
}

// Board lays the moves out as rows of cells.
func (that GameState) Board() [BoardSize][BoardSize]Piece {
	var board [BoardSize][BoardSize]Piece
	for _, move := range that.Moves {
		board[move.Row][move.Col] = move.Piece
	}
	return board
}

func IsOnBoard(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}
