package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartHandPostsBlinds(t *testing.T) {
	room, messenger := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))

	a, b := room.Players[0], room.Players[1]
	assert.Equal(t, 995, a.Chips)
	assert.Equal(t, 5, a.CurrentBet)
	assert.Equal(t, 990, b.Chips)
	assert.Equal(t, 10, b.CurrentBet)

	state := room.State
	assert.Equal(t, PhasePreFlop, state.Phase)
	assert.Equal(t, 15, state.Pot)
	assert.Equal(t, 10, state.CurrentBet)
	assert.Equal(t, 10, state.MinRaise)
	// action starts on the big blind seat
	assert.Equal(t, b.ID, state.ActivePlayer)
	assert.Len(t, a.Hand, 2)
	assert.Len(t, b.Hand, 2)
	assert.Equal(t, 48, state.Deck.Remaining())

	privates := messenger.eventsNamed(EventPrivateHand)
	assert.Len(t, privates, 2)
}

func TestStartHandRequiresHostAndPlayers(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob")
	err := room.StartHand(playerID(1))
	require.Error(t, err)
	assert.IsType(t, ValidationError{}, err)

	solo, _ := newTestRoom(t, "alice")
	err = solo.StartHand(playerID(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 players")
}

func TestStartHandRejectedMidHand(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))
	err := room.StartHand(playerID(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestHeadsUpCallAdvancesToFlop(t *testing.T) {
	room, messenger := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))
	startTotal := totalChips(room)

	// big blind checks, small blind completes
	require.NoError(t, room.HandleAction(playerID(1), ActionCheck, 0))
	assert.Equal(t, playerID(0), room.State.ActivePlayer)
	require.NoError(t, room.HandleAction(playerID(0), ActionCall, 0))

	state := room.State
	assert.Equal(t, PhaseFlop, state.Phase)
	assert.Equal(t, 20, state.Pot)
	assert.Equal(t, 990, room.Players[0].Chips)
	assert.Equal(t, 0, state.CurrentBet)
	assert.Equal(t, 10, state.MinRaise)
	assert.Len(t, state.CommunityCards, 3)
	assert.Equal(t, 0, room.Players[0].CurrentBet)
	assert.Equal(t, 0, room.Players[1].CurrentBet)
	assert.Equal(t, startTotal, totalChips(room))

	update, ok := messenger.lastNamed(EventCommunityUpdate)
	require.True(t, ok)
	community := update.Payload.(*CommunityUpdate)
	assert.Equal(t, PhaseFlop, community.Phase)
	assert.Len(t, community.Cards, 3)
	assert.Len(t, community.AllCards, 3)
}

func TestActionOutOfTurnRejected(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, room.StartHand(playerID(0)))
	before := *room.State

	err := room.HandleAction(playerID(2), ActionCall, 0)
	require.Error(t, err)
	assert.IsType(t, ValidationError{}, err)
	assert.Equal(t, before.Pot, room.State.Pot)
	assert.Equal(t, before.ActivePlayer, room.State.ActivePlayer)
	assert.Equal(t, 1000, room.Players[2].Chips)
}

func TestCheckWithOutstandingBetRejected(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, room.StartHand(playerID(0)))

	// carol owes the big blind and may not check
	require.NoError(t, room.HandleAction(playerID(1), ActionCheck, 0))
	err := room.HandleAction(playerID(2), ActionCheck, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot check")
}

func TestRaiseSemantics(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))
	startTotal := totalChips(room)

	// bob raises 30 on top of his posted big blind
	require.NoError(t, room.HandleAction(playerID(1), ActionRaise, 30))

	state := room.State
	b := room.Players[1]
	assert.Equal(t, 40, state.CurrentBet)
	assert.Equal(t, 40, b.CurrentBet)
	assert.Equal(t, 960, b.Chips)
	assert.Equal(t, 45, state.Pot)
	// the raise increment becomes the next minimum
	assert.Equal(t, 30, state.MinRaise)
	assert.Equal(t, startTotal, totalChips(room))

	// alice re-raises: must put in at least the call plus 30
	err := room.HandleAction(playerID(0), ActionRaise, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Minimum raise is 30")

	require.NoError(t, room.HandleAction(playerID(0), ActionRaise, 50))
	assert.Equal(t, 90, state.CurrentBet)
	assert.Equal(t, 50, state.MinRaise)
	assert.Equal(t, startTotal, totalChips(room))
}

func TestRaiseBeyondStackRejected(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))

	err := room.HandleAction(playerID(1), ActionRaise, 2000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not enough chips")
}

func TestInvalidActionNameRejected(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))

	err := room.HandleAction(playerID(1), PlayerAction("allin"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid action")
}

func TestFoldedPlayerCannotAct(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, room.StartHand(playerID(0)))

	require.NoError(t, room.HandleAction(playerID(1), ActionFold, 0))
	err := room.HandleAction(playerID(1), ActionCall, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folded")
}

func TestTurnSkipsFoldedPlayers(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, room.StartHand(playerID(0)))

	// bob (big blind) folds; carol should be next, then alice
	require.NoError(t, room.HandleAction(playerID(1), ActionFold, 0))
	assert.Equal(t, playerID(2), room.State.ActivePlayer)
	require.NoError(t, room.HandleAction(playerID(2), ActionCall, 0))
	assert.Equal(t, playerID(0), room.State.ActivePlayer)
}

func TestFullHandToShowdown(t *testing.T) {
	room, messenger := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))
	startTotal := totalChips(room)

	// pre-flop
	require.NoError(t, room.HandleAction(playerID(1), ActionCheck, 0))
	require.NoError(t, room.HandleAction(playerID(0), ActionCall, 0))
	require.Equal(t, PhaseFlop, room.State.Phase)

	// With all bets level after the reset, one check ends each street.
	for _, phase := range []GamePhase{PhaseTurn, PhaseRiver} {
		require.NoError(t, room.HandleAction(room.State.ActivePlayer, ActionCheck, 0))
		require.Equal(t, phase, room.State.Phase)
	}
	require.Len(t, room.State.CommunityCards, 5)

	require.NoError(t, room.HandleAction(room.State.ActivePlayer, ActionCheck, 0))

	// the river round completing resolves the hand
	over, ok := messenger.lastNamed(EventGameOver)
	require.True(t, ok)
	result := over.Payload.(*GameOver)
	assert.Equal(t, 20, result.Pot)
	assert.NotEmpty(t, result.Winners)
	assert.NotEmpty(t, result.HandRanks)

	assert.Equal(t, PhaseWaiting, room.State.Phase)
	assert.Equal(t, 0, room.State.Pot)
	assert.Empty(t, room.State.CommunityCards)
	assert.Equal(t, startTotal-room.State.Pot, totalChips(room))
	for _, p := range room.Players {
		assert.Nil(t, p.Hand)
		assert.False(t, p.Folded)
		assert.Equal(t, 0, p.CurrentBet)
	}
}

func TestMidHandJoinerSitsOutCurrentHand(t *testing.T) {
	room, messenger := newTestRoom(t, "alice", "bob")
	require.NoError(t, room.StartHand(playerID(0)))

	carol, err := room.AddPlayer(playerID(2), "carol")
	require.NoError(t, err)
	assert.True(t, carol.Folded)
	assert.Nil(t, carol.Hand)

	// bob checks; the action must pass over the undealt seat to alice
	require.NoError(t, room.HandleAction(playerID(1), ActionCheck, 0))
	assert.Equal(t, playerID(0), room.State.ActivePlayer)

	err = room.HandleAction(playerID(2), ActionCall, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folded")

	// alice folds out; bob takes the pot, carol gets none of it
	require.NoError(t, room.HandleAction(playerID(0), ActionFold, 0))
	over, ok := messenger.lastNamed(EventGameOver)
	require.True(t, ok)
	result := over.Payload.(*GameOver)
	require.Len(t, result.Winners, 1)
	assert.Equal(t, "bob", result.Winners[0].Name)
	assert.Equal(t, 1000, carol.Chips)

	// the seat frees up with the reset and plays the next hand
	assert.False(t, carol.Folded)
	require.NoError(t, room.StartHand(playerID(0)))
	assert.Len(t, carol.Hand, 2)
	assert.False(t, carol.Folded)
}

func TestChipConservationThroughBetting(t *testing.T) {
	room, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, room.StartHand(playerID(0)))
	startTotal := totalChips(room)

	require.NoError(t, room.HandleAction(playerID(1), ActionRaise, 40))
	assert.Equal(t, startTotal, totalChips(room))
	require.NoError(t, room.HandleAction(playerID(2), ActionCall, 0))
	assert.Equal(t, startTotal, totalChips(room))
	require.NoError(t, room.HandleAction(playerID(0), ActionFold, 0))
	assert.Equal(t, startTotal, totalChips(room))
}
