package game

import (
	"losingmoney.com/server/poker"
)

// Player is one seat at a table. Chips only leave the stack through a
// blind or a bet and only come back through a pot award.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	IsHost     bool         `json:"isHost"`
	Chips      int          `json:"chips"`
	CurrentBet int          `json:"currentBet"`
	Hand       []poker.Card `json:"hand"`
	Folded     bool         `json:"folded"`
}

// eligible reports whether the player can still be given the action:
// not folded and holding chips.
func (p *Player) eligible() bool {
	return !p.Folded && p.Chips > 0
}

func (p *Player) resetForHand() {
	p.Hand = nil
	p.Folded = false
	p.CurrentBet = 0
}
