package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStateStatusMethods(t *testing.T) {
	t.Run("New game state is waiting", func(t *testing.T) {
		// When: creating a new game state
		state := NewGameState()

		// Then: it should be waiting with an empty board
		assert.True(t, state.IsWaiting())
		assert.False(t, state.IsInProgress())
		assert.False(t, state.IsOver())
		assert.Empty(t, state.Moves)
		assert.NotNil(t, state.Moves)
	})

	t.Run("IsTie only for finished games without winner", func(t *testing.T) {
		// Given: a finished game with and without a winner
		tie := GameState{Status: StatusOver}
		win := GameState{Status: StatusOver, Winner: "alice"}
		waiting := GameState{Status: StatusWaiting}

		// Then: only the first one is a tie
		assert.True(t, tie.IsTie())
		assert.False(t, win.IsTie())
		assert.False(t, waiting.IsTie())
	})
}

func TestGameState_NextPiece(t *testing.T) {
	// Given: an empty board
	state := NewGameState()

	// Then: X opens and pieces alternate
	assert.Equal(t, PieceX, state.NextPiece())

	state.Moves = append(state.Moves, Move{Piece: PieceX, Row: 0, Col: 0})
	assert.Equal(t, PieceO, state.NextPiece())

	state.Moves = append(state.Moves, Move{Piece: PieceO, Row: 1, Col: 1})
	assert.Equal(t, PieceX, state.NextPiece())
}

func TestGameState_PieceOf(t *testing.T) {
	state := GameState{X: "alice", O: "bob"}

	piece, ok := state.PieceOf("alice")
	require.True(t, ok)
	assert.Equal(t, PieceX, piece)

	piece, ok = state.PieceOf("bob")
	require.True(t, ok)
	assert.Equal(t, PieceO, piece)

	_, ok = state.PieceOf("carol")
	assert.False(t, ok)

	// an unset slot must not match an empty id
	_, ok = GameState{X: "alice"}.PieceOf("")
	assert.False(t, ok)
}

func TestGameState_Clone(t *testing.T) {
	// Given: a state with one move
	state := GameState{Status: StatusInProgress, Moves: []Move{{Piece: PieceX, Row: 2, Col: 2}}}

	// When: appending to a clone
	clone := state.Clone()
	clone.Moves = append(clone.Moves, Move{Piece: PieceO, Row: 0, Col: 0})
	clone.Moves[0].Row = 1

	// Then: the source state is untouched
	require.Len(t, state.Moves, 1)
	assert.Equal(t, 2, state.Moves[0].Row)
}

func TestGameState_Board(t *testing.T) {
	// Given: a few moves
	state := GameState{Moves: []Move{
		{Piece: PieceX, Row: 0, Col: 0},
		{Piece: PieceO, Row: 1, Col: 2},
	}}

	// When: laying out the board
	board := state.Board()

	// Then: only the played cells are set
	assert.Equal(t, PieceX, board[0][0])
	assert.Equal(t, PieceO, board[1][2])
	assert.Equal(t, EmptyCell, board[2][2])
	assert.True(t, state.IsOccupied(1, 2))
	assert.False(t, state.IsOccupied(2, 1))
	assert.False(t, state.IsBoardFull())
}

func TestIsOnBoard(t *testing.T) {
	assert.True(t, IsOnBoard(0, 0))
	assert.True(t, IsOnBoard(2, 2))
	assert.False(t, IsOnBoard(-1, 0))
	assert.False(t, IsOnBoard(0, 3))
}

func TestNewHistoryRecord(t *testing.T) {
	finishedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Win", func(t *testing.T) {
		state := GameState{Status: StatusOver, X: "alice", O: "bob", Winner: "alice"}

		record := NewHistoryRecord("g1", state, false, finishedAt)

		assert.Equal(t, HistoryRecord{
			GameID:     "g1",
			PlayerX:    "alice",
			PlayerO:    "bob",
			Winner:     "alice",
			Outcome:    OutcomeWin,
			FinishedAt: finishedAt,
		}, record)
	})

	t.Run("Tie", func(t *testing.T) {
		state := GameState{Status: StatusOver, X: "alice", O: "bob"}

		record := NewHistoryRecord("g2", state, false, finishedAt)

		assert.Equal(t, OutcomeTie, record.Outcome)
		assert.Empty(t, record.Winner)
	})

	t.Run("Forfeit", func(t *testing.T) {
		state := GameState{Status: StatusOver, X: "alice", O: "bob", Winner: "bob"}

		record := NewHistoryRecord("g3", state, true, finishedAt)

		assert.Equal(t, OutcomeForfeit, record.Outcome)
		assert.Equal(t, "bob", record.Winner)
	})
}
