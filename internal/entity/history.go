package entity

import "time"

type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeTie     Outcome = "TIE"
	OutcomeForfeit Outcome = "FORFEIT"
)

type HistoryRecord struct {
	GameID     string    `json:"gameID"`
	PlayerX    string    `json:"playerX"`
	PlayerO    string    `json:"playerO"`
	Winner     string    `json:"winner,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewHistoryRecord summarises a finished game.
func NewHistoryRecord(gameID string, state GameState, forfeit bool, finishedAt time.Time) HistoryRecord {
	outcome := OutcomeWin
	switch {
	case state.IsTie():
		outcome = OutcomeTie
	case forfeit:
		outcome = OutcomeForfeit
	}

	return HistoryRecord{
		GameID:     gameID,
		PlayerX:    state.X,
		PlayerO:    state.O,
		Winner:     state.Winner,
		Outcome:    outcome,
		FinishedAt: finishedAt,
	}
}
