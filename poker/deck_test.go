package poker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckNoShuffleOrder(t *testing.T) {
	deck := NewDeckNoShuffle()
	require.Equal(t, 52, deck.Remaining())

	cards := deck.Cards()
	assert.Equal(t, Card{Rank: Two, Suit: Spade}, cards[0])
	assert.Equal(t, Card{Rank: Ace, Suit: Spade}, cards[12])
	assert.Equal(t, Card{Rank: Ace, Suit: Club}, cards[51])
}

func TestShuffleIsPermutation(t *testing.T) {
	for i := 0; i < 20; i++ {
		deck := NewDeck(nil)
		require.Equal(t, 52, deck.Remaining())

		seen := make(map[Card]bool)
		for _, card := range deck.Cards() {
			assert.False(t, seen[card], "duplicate card %s after shuffle", card)
			seen[card] = true
		}
		assert.Equal(t, 52, len(seen))
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	deck1 := NewDeck(rand.NewSource(42))
	deck2 := NewDeck(rand.NewSource(42))
	assert.Equal(t, deck1.Cards(), deck2.Cards())
}

func TestDrawRemovesCards(t *testing.T) {
	deck := NewDeck(rand.NewSource(7))
	dealt, err := deck.Draw(5)
	require.NoError(t, err)
	require.Len(t, dealt, 5)
	assert.Equal(t, 47, deck.Remaining())

	remaining := make(map[Card]bool)
	for _, card := range deck.Cards() {
		remaining[card] = true
	}
	for _, card := range dealt {
		assert.False(t, remaining[card], "dealt card %s still in deck", card)
	}
}

func TestDrawTooMany(t *testing.T) {
	deck := NewDeckNoShuffle()
	_, err := deck.Draw(50)
	require.NoError(t, err)

	_, err = deck.Draw(3)
	require.Error(t, err)
	insufficientErr, ok := err.(InsufficientCardsError)
	require.True(t, ok)
	assert.Equal(t, 3, insufficientErr.Want)
	assert.Equal(t, 2, insufficientErr.Have)
	// a failed draw must not consume anything
	assert.Equal(t, 2, deck.Remaining())
}

func TestCardParseAndString(t *testing.T) {
	testCases := []struct {
		in       string
		expected Card
		str      string
	}{
		{in: "As", expected: Card{Rank: Ace, Suit: Spade}, str: "A♠"},
		{in: "Th", expected: Card{Rank: Ten, Suit: Heart}, str: "10♥"},
		{in: "2c", expected: Card{Rank: Two, Suit: Club}, str: "2♣"},
		{in: "Qd", expected: Card{Rank: Queen, Suit: Diamond}, str: "Q♦"},
	}
	for _, tc := range testCases {
		card := NewCard(tc.in)
		assert.Equal(t, tc.expected, card)
		assert.Equal(t, tc.str, card.String())
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := NewCard("Kd")
	data, err := card.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"rank":"K","suit":"♦"}`, string(data))

	var parsed Card
	require.NoError(t, parsed.UnmarshalJSON(data))
	assert.Equal(t, card, parsed)
}
