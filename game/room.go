package game

import (
	"sync"

	"github.com/rs/zerolog"

	"losingmoney.com/server/logging"
	"losingmoney.com/server/poker"
)

// PlayerAction is one of the betting moves a player may make.
type PlayerAction string

const (
	ActionFold  PlayerAction = "fold"
	ActionCheck PlayerAction = "check"
	ActionCall  PlayerAction = "call"
	ActionRaise PlayerAction = "raise"
)

// Room is one table: a seating order of players and the hand in
// flight. Every inbound event takes the room lock, so state moves in
// whole steps. Two rooms never contend on each other.
type Room struct {
	ID      string
	Players []*Player
	State   *GameState

	settings  TableSettings
	evaluator poker.Evaluator
	messenger Messenger
	onResult  func(roomID string, result *GameOver)
	logger    zerolog.Logger

	lock sync.Mutex
}

func NewRoom(id string, settings TableSettings, evaluator poker.Evaluator, messenger Messenger) *Room {
	logger := logging.GetZeroLogger("game::room", nil).With().
		Str(logging.RoomIDKey, id).Logger()
	return &Room{
		ID:        id,
		Players:   make([]*Player, 0, settings.MaxSeats),
		State:     newGameState(settings),
		settings:  settings,
		evaluator: evaluator,
		messenger: messenger,
		logger:    logger,
	}
}

// SetResultSink registers a callback invoked with every completed
// hand's outcome, e.g. for the last-result cache.
func (r *Room) SetResultSink(sink func(roomID string, result *GameOver)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.onResult = sink
}

// AddPlayer seats a new player. The first player to sit becomes the
// host.
func (r *Room) AddPlayer(playerID string, playerName string) (*Player, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.Players) >= r.settings.MaxSeats {
		return nil, newValidationError("Room is full")
	}
	for _, p := range r.Players {
		if p.Name == playerName {
			return nil, newValidationError("Player name already taken")
		}
	}

	player := &Player{
		ID:     playerID,
		Name:   playerName,
		IsHost: len(r.Players) == 0,
		Chips:  r.settings.StartingChips,
	}
	if r.State.Phase != PhaseWaiting {
		// Seated mid hand: sit out as folded until the next reset so
		// the live hand never routes action or pot to an undealt seat.
		player.Folded = true
	}
	r.Players = append(r.Players, player)

	r.logger.Info().
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, playerName).
		Msgf("Player %s joined, %d seated", playerName, len(r.Players))

	r.broadcastPlayerList()
	r.messenger.SendToPlayer(playerID, EventGameState, r.State)
	return player, nil
}

// Rejoin replays the full room state to a returning player and, when a
// hand is live, their hole cards.
func (r *Room) Rejoin(playerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	player := r.playerByID(playerID)
	if player == nil {
		return newNotFoundError("Player not found in room")
	}

	r.messenger.SendToPlayer(playerID, EventFullState, &FullState{
		Players:   r.Players,
		GameState: r.State,
	})
	if player.Hand != nil {
		r.messenger.SendToPlayer(playerID, EventDealHoles, player.Hand)
	}
	return nil
}

// StartHand starts a new hand. Only the host can start one, only
// between hands, and only with at least two seated players.
func (r *Room) StartHand(playerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	player := r.playerByID(playerID)
	if player == nil {
		return newNotFoundError("Player not found in room")
	}
	if !player.IsHost {
		return newValidationError("Only the host can start the game")
	}
	if r.State.Phase != PhaseWaiting {
		return newValidationError("A hand is already in progress")
	}
	if len(r.Players) < 2 {
		return newValidationError("Need at least 2 players to start")
	}
	return r.startHand()
}

// startHand deals a fresh hand: new shuffled deck, two hole cards per
// seat, blinds from seats 0 and 1, action on the big blind.
func (r *Room) startHand() error {
	deck := poker.NewDeck(nil)

	for _, p := range r.Players {
		p.resetForHand()
		hand, err := deck.Draw(2)
		if err != nil {
			return r.abortHand(err)
		}
		p.Hand = hand
	}

	state := r.State
	state.Deck = deck
	state.CommunityCards = []poker.Card{}

	smallBlind := r.Players[0]
	bigBlind := r.Players[1]
	smallBlind.Chips -= r.settings.SmallBlind
	smallBlind.CurrentBet = r.settings.SmallBlind
	bigBlind.Chips -= r.settings.BigBlind
	bigBlind.CurrentBet = r.settings.BigBlind

	state.Phase = PhasePreFlop
	state.Pot = r.settings.SmallBlind + r.settings.BigBlind
	state.CurrentBet = r.settings.BigBlind
	state.MinRaise = r.settings.BigBlind
	state.Dealer = smallBlind.ID
	state.SmallBlindSeat = smallBlind.ID
	state.BigBlindSeat = bigBlind.ID
	// Action starts on the big blind seat itself, not to its left.
	state.ActivePlayer = bigBlind.ID

	r.logger.Info().
		Str(logging.PhaseKey, state.Phase.String()).
		Msgf("Hand started with %d players, pot %d", len(r.Players), state.Pot)

	r.broadcastGameState()
	for _, p := range r.Players {
		r.messenger.SendToPlayer(p.ID, EventPrivateHand, p.Hand)
	}
	r.broadcastPlayerList()
	return nil
}

// HandleAction validates and applies a betting action for the player
// whose turn it is, then advances the turn or the phase.
func (r *Room) HandleAction(playerID string, action PlayerAction, amount int) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	player := r.playerByID(playerID)
	if player == nil {
		return newNotFoundError("Player not found in room")
	}

	if err := r.validateAction(player, action, amount); err != nil {
		return err
	}
	r.applyAction(player, action, amount)

	r.logger.Info().
		Str(logging.PlayerIDKey, player.ID).
		Str(logging.ActionKey, string(action)).
		Str(logging.PhaseKey, r.State.Phase.String()).
		Msgf("Player %s: %s %d, pot %d", player.Name, action, amount, r.State.Pot)

	r.broadcastBetUpdate()

	if r.countUnfolded() == 1 {
		// Everyone else folded; resolve right away whatever the phase.
		// resolveHand broadcasts the reset state itself.
		r.resolveHand()
		return nil
	}
	if r.bettingRoundComplete() {
		r.advancePhase()
		if r.State.Phase == PhaseWaiting {
			// The round completing ended the hand, which already
			// broadcast the reset state.
			return nil
		}
	} else {
		next := r.nextEligiblePlayer(player.ID)
		r.State.ActivePlayer = next.ID
		r.messenger.SendToRoom(r.ID, EventNextTurn, next.ID)
	}

	r.broadcastGameState()
	r.broadcastPlayerList()
	return nil
}

func (r *Room) validateAction(player *Player, action PlayerAction, amount int) error {
	if player.Folded {
		return newValidationError("Player has folded")
	}
	if player.ID != r.State.ActivePlayer {
		return newValidationError("Not your turn")
	}

	toCall := r.State.CurrentBet - player.CurrentBet

	switch action {
	case ActionFold:
		return nil
	case ActionCheck:
		if toCall > 0 {
			return newValidationError("Cannot check when there is a bet to call")
		}
		return nil
	case ActionCall:
		if toCall > player.Chips {
			return newValidationError("Not enough chips to call")
		}
		return nil
	case ActionRaise:
		if amount < r.State.MinRaise {
			return newValidationError("Minimum raise is %d", r.State.MinRaise)
		}
		if toCall+amount > player.Chips {
			return newValidationError("Not enough chips to raise")
		}
		return nil
	default:
		return newValidationError("Invalid action")
	}
}

// applyAction moves chips for an already validated action. A raise
// amount is the increment on top of calling, so the new table bet is
// the old one plus the raise, and the raise itself becomes the next
// minimum.
func (r *Room) applyAction(player *Player, action PlayerAction, amount int) {
	state := r.State
	toCall := state.CurrentBet - player.CurrentBet

	switch action {
	case ActionFold:
		player.Folded = true
	case ActionCheck:
		// nothing moves
	case ActionCall:
		player.Chips -= toCall
		player.CurrentBet = state.CurrentBet
		state.Pot += toCall
	case ActionRaise:
		paid := toCall + amount
		previousBet := state.CurrentBet
		player.Chips -= paid
		player.CurrentBet = previousBet + amount
		state.CurrentBet = player.CurrentBet
		state.Pot += paid
		state.MinRaise = state.CurrentBet - previousBet
	}
}

// nextEligiblePlayer scans the seating order for the next player who
// has not folded and still holds chips. If the scan comes back around,
// the action stays put and the round will be judged complete.
func (r *Room) nextEligiblePlayer(fromID string) *Player {
	currentIndex := r.playerIndex(fromID)
	nextIndex := (currentIndex + 1) % len(r.Players)
	for !r.Players[nextIndex].eligible() {
		nextIndex = (nextIndex + 1) % len(r.Players)
		if nextIndex == currentIndex {
			break
		}
	}
	return r.Players[nextIndex]
}

// bettingRoundComplete reports whether every player still in the hand
// and holding chips has matched the table bet. With one or zero such
// players left there is nobody to act, so the round is over.
func (r *Room) bettingRoundComplete() bool {
	eligible := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.eligible() {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) <= 1 {
		return true
	}
	for _, p := range eligible {
		if p.CurrentBet != r.State.CurrentBet {
			return false
		}
	}
	return true
}

func (r *Room) countUnfolded() int {
	count := 0
	for _, p := range r.Players {
		if !p.Folded {
			count++
		}
	}
	return count
}

// advancePhase resets the per phase bets, deals the next street, and
// hands the action to the first eligible seat. From the river it goes
// to showdown instead.
func (r *Room) advancePhase() {
	state := r.State

	if state.Phase >= PhaseRiver {
		r.resolveHand()
		return
	}

	for _, p := range r.Players {
		p.CurrentBet = 0
	}
	state.CurrentBet = 0
	state.MinRaise = state.BigBlind
	state.Phase++

	var dealt []poker.Card
	var err error
	switch state.Phase {
	case PhaseFlop:
		dealt, err = state.Deck.Draw(3)
	case PhaseTurn, PhaseRiver:
		dealt, err = state.Deck.Draw(1)
	}
	if err != nil {
		r.abortHand(err)
		return
	}
	state.CommunityCards = append(state.CommunityCards, dealt...)

	r.messenger.SendToRoom(r.ID, EventCommunityUpdate, &CommunityUpdate{
		Phase:    state.Phase,
		Cards:    dealt,
		AllCards: state.CommunityCards,
	})

	for _, p := range r.Players {
		if p.eligible() {
			state.ActivePlayer = p.ID
			break
		}
	}

	r.logger.Info().
		Str(logging.PhaseKey, state.Phase.String()).
		Msgf("Advanced to %s, board %s", state.Phase, poker.CardsToString(state.CommunityCards))

	r.broadcastGameState()
	r.messenger.SendToRoom(r.ID, EventNextTurn, state.ActivePlayer)
}

// HandleDisconnect removes a departing player. The next seat inherits
// host duty, a live hand is forced to resolve, and the caller learns
// whether the room emptied out.
func (r *Room) HandleDisconnect(playerID string) (empty bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	index := r.playerIndex(playerID)
	if index < 0 {
		return len(r.Players) == 0
	}
	player := r.Players[index]
	r.Players = append(r.Players[:index], r.Players[index+1:]...)

	r.logger.Info().
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, player.Name).
		Msgf("Player %s left, %d remain", player.Name, len(r.Players))

	if len(r.Players) == 0 {
		return true
	}

	if player.IsHost {
		r.Players[0].IsHost = true
	}
	if r.State.Phase != PhaseWaiting {
		// resolveHand broadcasts the updated roster itself.
		r.resolveHand()
		return false
	}
	r.broadcastPlayerList()
	return false
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Players)
}

// abortHand handles an unrecoverable dealing failure. The seat bound
// makes it unreachable in normal play.
func (r *Room) abortHand(err error) error {
	r.logger.Error().Err(err).Msg("Abandoning hand, deck exhausted")
	r.resetAfterHand()
	r.broadcastGameState()
	r.broadcastPlayerList()
	return err
}

func (r *Room) playerByID(id string) *Player {
	index := r.playerIndex(id)
	if index < 0 {
		return nil
	}
	return r.Players[index]
}

func (r *Room) playerIndex(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) broadcastPlayerList() {
	r.messenger.SendToRoom(r.ID, EventPlayerList, r.Players)
}

func (r *Room) broadcastGameState() {
	r.messenger.SendToRoom(r.ID, EventGameState, r.State)
}

func (r *Room) broadcastBetUpdate() {
	players := make([]BetPlayer, len(r.Players))
	for i, p := range r.Players {
		players[i] = BetPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Folded:     p.Folded,
		}
	}
	r.messenger.SendToRoom(r.ID, EventBetUpdate, &BetUpdate{
		Pot:        r.State.Pot,
		CurrentBet: r.State.CurrentBet,
		MinRaise:   r.State.MinRaise,
		Players:    players,
	})
}
