package game

import (
	"fmt"

	"losingmoney.com/server/poker"
)

// GamePhase is the stage a hand is in. Phases only move forward, and a
// hand can terminate early from any of them when one player remains.
type GamePhase int

const (
	PhaseWaiting GamePhase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

var phaseNames = map[GamePhase]string{
	PhaseWaiting:  "waiting",
	PhasePreFlop:  "pre-flop",
	PhaseFlop:     "flop",
	PhaseTurn:     "turn",
	PhaseRiver:    "river",
	PhaseShowdown: "showdown",
}

func (p GamePhase) String() string {
	return phaseNames[p]
}

func (p GamePhase) MarshalJSON() ([]byte, error) {
	name, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown game phase %d", int(p))
	}
	return []byte(`"` + name + `"`), nil
}

// GameState is everything about the hand in flight.
//
// TODO: stop serializing the remaining deck; clients receiving
// game-state can read the run-out in advance.
type GameState struct {
	Phase          GamePhase    `json:"phase"`
	CommunityCards []poker.Card `json:"communityCards"`
	Pot            int          `json:"pot"`
	CurrentBet     int          `json:"currentBet"`
	MinRaise       int          `json:"minRaise"`
	ActivePlayer   string       `json:"activePlayer"`
	Dealer         string       `json:"dealer"`
	SmallBlindSeat string       `json:"smallBlindSeat"`
	BigBlindSeat   string       `json:"bigBlindSeat"`
	SmallBlind     int          `json:"smallBlind"`
	BigBlind       int          `json:"bigBlind"`
	Deck           *poker.Deck  `json:"deck"`
}

func newGameState(settings TableSettings) *GameState {
	return &GameState{
		Phase:          PhaseWaiting,
		CommunityCards: []poker.Card{},
		SmallBlind:     settings.SmallBlind,
		BigBlind:       settings.BigBlind,
	}
}
