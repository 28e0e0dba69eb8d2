package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/tictactoe"
)

// Observer is told that area state changed. It reads the new state back from the area.
type Observer interface {
	AreaChanged(ctx context.Context)
}

type AreaUseCase interface {
	ID() string
	HandleCommand(ctx context.Context, command entity.Command, playerID string) (entity.CommandResult, error)
	Snapshot() entity.AreaSnapshot
	History() []entity.HistoryRecord
}

// GameArea routes player commands to the area's current game.
// Commands are applied one at a time; readers never wait for a command to finish.
type GameArea struct {
	logger *slog.Logger
	id     string

	mu   sync.Mutex
	game atomic.Pointer[tictactoe.Engine]

	historyMu sync.RWMutex
	history   []entity.HistoryRecord

	observersMu sync.RWMutex
	observers   []Observer
}

func NewGameArea(logger *slog.Logger, id string) *GameArea {
	return &GameArea{
		logger: logger.With("component", "game_area", "areaID", id),
		id:     id,
	}
}

func (that *GameArea) ID() string {
	return that.id
}

// Subscribe registers an observer for change notifications.
func (that *GameArea) Subscribe(observer Observer) {
	that.observersMu.Lock()
	defer that.observersMu.Unlock()

	that.observers = append(that.observers, observer)
}

// HandleCommand applies command on behalf of playerID. Rule violations are
// returned exactly as the engine reported them and leave the area untouched.
func (that *GameArea) HandleCommand(ctx context.Context, command entity.Command, playerID string) (entity.CommandResult, error) {
	log := that.logger.With("method", "HandleCommand", "command", command.Type, "playerID", playerID)

	that.mu.Lock()
	defer that.mu.Unlock()

	var (
		game *tictactoe.Engine
		err  error
	)

	switch command.Type {
	case entity.CommandJoinGame:
		game, err = that.joinGame(playerID)
	case entity.CommandLeaveGame:
		game, err = that.leaveGame(command, playerID)
	case entity.CommandGameMove:
		game, err = that.makeMove(command, playerID)
	default:
		err = apperror.ErrInvalidCommand
	}

	if err != nil {
		log.Debug("command rejected", "error", err)
		return entity.CommandResult{}, err
	}

	that.notify(ctx)

	log.Info("command applied", "gameID", game.ID(), "status", game.State().Status)

	if command.Type == entity.CommandJoinGame {
		return entity.CommandResult{GameID: game.ID()}, nil
	}

	return entity.CommandResult{}, nil
}

// Snapshot returns the current game of the area, if there is one.
func (that *GameArea) Snapshot() entity.AreaSnapshot {
	snapshot := entity.AreaSnapshot{AreaID: that.id}

	game := that.game.Load()
	if game == nil {
		return snapshot
	}

	state := game.State()
	snapshot.GameID = game.ID()
	snapshot.Game = &state

	return snapshot
}

// History returns the finished games, oldest first.
func (that *GameArea) History() []entity.HistoryRecord {
	that.historyMu.RLock()
	defer that.historyMu.RUnlock()

	return slices.Clone(that.history)
}

func (that *GameArea) joinGame(playerID string) (*tictactoe.Engine, error) {
	game := that.game.Load()

	if game == nil || game.State().IsOver() {
		game = tictactoe.NewEngine(uuid.NewString())
	}

	if err := game.Join(playerID); err != nil {
		return nil, err
	}

	that.game.Store(game)

	return game, nil
}

func (that *GameArea) leaveGame(command entity.Command, playerID string) (*tictactoe.Engine, error) {
	game := that.game.Load()

	if game == nil || game.ID() != command.GameID {
		return nil, apperror.ErrPlayerNotInGame
	}

	wasOver := game.State().IsOver()

	if err := game.Leave(playerID); err != nil {
		return nil, err
	}

	that.recordIfFinished(game, wasOver, true)

	return game, nil
}

func (that *GameArea) makeMove(command entity.Command, playerID string) (*tictactoe.Engine, error) {
	game := that.game.Load()

	if game == nil || !game.State().IsInProgress() {
		return nil, apperror.ErrGameNotInProgress
	}

	if game.ID() != command.GameID {
		return nil, apperror.ErrPlayerNotInGame
	}

	if command.Move == nil {
		return nil, apperror.ErrInvalidCommand
	}

	if err := game.ApplyMove(playerID, *command.Move); err != nil {
		return nil, err
	}

	that.recordIfFinished(game, false, false)

	return game, nil
}

// recordIfFinished appends a history record when the last command ended the game.
func (that *GameArea) recordIfFinished(game *tictactoe.Engine, wasOver, forfeit bool) {
	state := game.State()
	if wasOver || !state.IsOver() {
		return
	}

	record := entity.NewHistoryRecord(game.ID(), state, forfeit, time.Now().UTC())

	that.historyMu.Lock()
	that.history = append(that.history, record)
	that.historyMu.Unlock()

	that.logger.Info("game finished", "gameID", record.GameID, "outcome", record.Outcome, "winner", record.Winner)
}

func (that *GameArea) notify(ctx context.Context) {
	that.observersMu.RLock()
	observers := slices.Clone(that.observers)
	that.observersMu.RUnlock()

	for _, observer := range observers {
		observer.AreaChanged(ctx)
	}
}
