package game

import (
	"sort"

	"losingmoney.com/server/logging"
	"losingmoney.com/server/poker"
	"losingmoney.com/server/util"
)

// rankedHand pairs a player with the evaluation of their best hand.
type rankedHand struct {
	player *Player
	value  poker.HandValue
}

// resolveHand ends the current hand: the last unfolded player takes
// the pot outright, otherwise the contested hands are evaluated and
// the pot is floor-split among the players tied at the top. Either
// way the room returns to the waiting phase. Caller holds the lock.
func (r *Room) resolveHand() {
	pot := r.State.Pot
	unfolded := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Folded {
			unfolded = append(unfolded, p)
		}
	}

	var result *GameOver
	switch {
	case len(unfolded) == 0:
		// Departing players can leave a hand with nobody in it; the
		// pot has no owner and is forfeited.
		result = &GameOver{Winners: []Winner{}, Pot: pot}
	case len(unfolded) == 1:
		winner := unfolded[0]
		winner.Chips += pot
		r.logger.Info().
			Str(logging.PlayerNameKey, winner.Name).
			Msgf("%s wins %d uncontested", winner.Name, pot)
		result = &GameOver{
			Winners: []Winner{{Name: winner.Name, Chips: winner.Chips, Hand: winner.Hand}},
			Pot:     pot,
		}
	default:
		ranked, err := r.rankContestedHands(unfolded)
		if err != nil {
			r.abortHand(err)
			return
		}
		result = r.payOutWinners(ranked, pot)
	}

	if r.onResult != nil {
		r.onResult(r.ID, result)
	}
	util.Metrics.HandCompleted()

	r.messenger.SendToRoom(r.ID, EventGameOver, result)
	r.resetAfterHand()
	r.broadcastGameState()
	r.broadcastPlayerList()
}

// rankContestedHands runs the board out to five cards if the hand was
// cut short, evaluates every live hand, and returns them strongest
// first.
func (r *Room) rankContestedHands(unfolded []*Player) ([]rankedHand, error) {
	state := r.State
	if missing := 5 - len(state.CommunityCards); missing > 0 {
		dealt, err := state.Deck.Draw(missing)
		if err != nil {
			return nil, err
		}
		state.CommunityCards = append(state.CommunityCards, dealt...)
	}

	ranked := make([]rankedHand, 0, len(unfolded))
	for _, p := range unfolded {
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, p.Hand...)
		cards = append(cards, state.CommunityCards...)
		value, err := r.evaluator.Evaluate(cards)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedHand{player: p, value: value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].value.Score > ranked[j].value.Score
	})
	return ranked, nil
}

// payOutWinners splits the pot evenly, floor division, across every
// hand tied for the best score. Remainder chips stay unawarded.
func (r *Room) payOutWinners(ranked []rankedHand, pot int) *GameOver {
	winning := ranked[0].value.Score
	winners := make([]rankedHand, 0, len(ranked))
	for _, rh := range ranked {
		if rh.value.Score == winning {
			winners = append(winners, rh)
		}
	}

	share := pot / len(winners)
	winnerInfos := make([]Winner, len(winners))
	for i, w := range winners {
		w.player.Chips += share
		winnerInfos[i] = Winner{
			Name:  w.player.Name,
			Chips: w.player.Chips,
			Hand:  w.player.Hand,
			HandRank: &HandResult{
				Name:        w.player.Name,
				Hand:        w.player.Hand,
				Rank:        int32(w.value.Rank),
				Description: w.value.Description(),
			},
		}
	}

	handRanks := make([]HandResult, len(ranked))
	for i, rh := range ranked {
		handRanks[i] = HandResult{
			Name:        rh.player.Name,
			Hand:        rh.player.Hand,
			Rank:        int32(rh.value.Rank),
			Description: rh.value.Description(),
		}
	}

	r.logger.Info().Msgf("Showdown: %d winner(s) take %d each from pot %d (%s)",
		len(winners), share, pot, ranked[0].value.Description())

	return &GameOver{Winners: winnerInfos, HandRanks: handRanks, Pot: pot}
}

// resetAfterHand clears the per hand state and returns the room to the
// waiting phase. Stacks keep whatever the hand left them.
func (r *Room) resetAfterHand() {
	state := r.State
	state.Phase = PhaseWaiting
	state.Pot = 0
	state.CurrentBet = 0
	state.MinRaise = 0
	state.CommunityCards = []poker.Card{}
	state.ActivePlayer = ""
	state.Deck = nil
	for _, p := range r.Players {
		p.resetForHand()
	}
}
