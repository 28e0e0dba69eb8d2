package apperror

import "errors"

// Kind identifies a rule violation independently of its display message.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlayerAlreadyInGame
	KindGameFull
	KindPlayerNotInGame
	KindGameNotInProgress
	KindMoveNotYourTurn
	KindBoardPositionNotEmpty
	KindInvalidMove
	KindInvalidCommand
)

// Messages are part of the wire contract, clients match on them.
const (
	PlayerAlreadyInGameMessage   = "Player is already in this game"
	GameFullMessage              = "Game is full"
	PlayerNotInGameMessage       = "Player is not in this game"
	GameNotInProgressMessage     = "Game is not in progress"
	MoveNotYourTurnMessage       = "Not your turn"
	BoardPositionNotEmptyMessage = "Board position is not empty"
	InvalidMoveMessage           = "Board position is out of range"
	InvalidCommandMessage        = "Invalid command"
)

var kindNames = map[Kind]string{
	KindUnknown:               "Unknown",
	KindPlayerAlreadyInGame:   "PlayerAlreadyInGame",
	KindGameFull:              "GameFull",
	KindPlayerNotInGame:       "PlayerNotInGame",
	KindGameNotInProgress:     "GameNotInProgress",
	KindMoveNotYourTurn:       "MoveNotYourTurn",
	KindBoardPositionNotEmpty: "BoardPositionNotEmpty",
	KindInvalidMove:           "InvalidMove",
	KindInvalidCommand:        "InvalidCommand",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a game rule violation. Two errors match with errors.Is when their kinds match.
type Error struct {
	kind    Kind
	message string
}

func (that *Error) Error() string {
	return that.message
}

func (that *Error) Kind() Kind {
	return that.kind
}

func (that *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return other.kind == that.kind
}

var (
	ErrPlayerAlreadyInGame   = &Error{kind: KindPlayerAlreadyInGame, message: PlayerAlreadyInGameMessage}
	ErrGameFull              = &Error{kind: KindGameFull, message: GameFullMessage}
	ErrPlayerNotInGame       = &Error{kind: KindPlayerNotInGame, message: PlayerNotInGameMessage}
	ErrGameNotInProgress     = &Error{kind: KindGameNotInProgress, message: GameNotInProgressMessage}
	ErrMoveNotYourTurn       = &Error{kind: KindMoveNotYourTurn, message: MoveNotYourTurnMessage}
	ErrBoardPositionNotEmpty = &Error{kind: KindBoardPositionNotEmpty, message: BoardPositionNotEmptyMessage}
	ErrInvalidMove           = &Error{kind: KindInvalidMove, message: InvalidMoveMessage}
	ErrInvalidCommand        = &Error{kind: KindInvalidCommand, message: InvalidCommandMessage}
)

// KindOf returns the kind of the first rule violation in err's chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}

	return KindUnknown
}
