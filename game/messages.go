package game

import (
	"losingmoney.com/server/poker"
)

// Event names on the wire.
const (
	EventPlayerList      = "player-list"
	EventGameState       = "game-state"
	EventPrivateHand     = "private-hand"
	EventDealHoles       = "deal-holes"
	EventCommunityUpdate = "community-update"
	EventBetUpdate       = "bet-update"
	EventNextTurn        = "next-turn"
	EventGameOver        = "game-over"
	EventFullState       = "full-state"
	EventError           = "error"
)

// Messenger delivers a named event to one player or to everybody in a
// room. Delivery is fire and forget; the engine never waits on it.
type Messenger interface {
	SendToPlayer(playerID string, event string, payload interface{})
	SendToRoom(roomID string, event string, payload interface{})
}

// MultiMessenger fans every send out to several backends, e.g. the
// websocket hub plus the NATS mirror.
type MultiMessenger []Messenger

func (m MultiMessenger) SendToPlayer(playerID string, event string, payload interface{}) {
	for _, messenger := range m {
		messenger.SendToPlayer(playerID, event, payload)
	}
}

func (m MultiMessenger) SendToRoom(roomID string, event string, payload interface{}) {
	for _, messenger := range m {
		messenger.SendToRoom(roomID, event, payload)
	}
}

// CommunityUpdate announces newly dealt board cards.
type CommunityUpdate struct {
	Phase    GamePhase    `json:"phase"`
	Cards    []poker.Card `json:"cards"`
	AllCards []poker.Card `json:"allCards"`
}

// BetPlayer is the per player slice of a bet update.
type BetPlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	CurrentBet int    `json:"currentBet"`
	Folded     bool   `json:"folded"`
}

// BetUpdate is broadcast after every applied action.
type BetUpdate struct {
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"currentBet"`
	MinRaise   int         `json:"minRaise"`
	Players    []BetPlayer `json:"players"`
}

// Winner is one pot recipient in a game-over notification.
type Winner struct {
	Name     string       `json:"name"`
	Chips    int          `json:"chips"`
	Hand     []poker.Card `json:"hand"`
	HandRank *HandResult  `json:"handRank"`
}

// HandResult describes one contested hand at showdown.
type HandResult struct {
	Name        string       `json:"name"`
	Hand        []poker.Card `json:"hand"`
	Rank        int32        `json:"rank"`
	Description string       `json:"description"`
}

// GameOver is the terminal notification for a hand.
type GameOver struct {
	Winners   []Winner     `json:"winners"`
	HandRanks []HandResult `json:"handRanks,omitempty"`
	Pot       int          `json:"pot"`
}

// FullState replays the whole room to a rejoining player.
type FullState struct {
	Players   []*Player  `json:"players"`
	GameState *GameState `json:"gameState"`
}
