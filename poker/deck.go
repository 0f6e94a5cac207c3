package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// InsufficientCardsError is returned when a draw asks for more cards
// than the deck holds. Room sizes are bounded so this cannot happen in
// normal play; hitting it means a hand is unrecoverable.
type InsufficientCardsError struct {
	Want int
	Have int
}

func (e InsufficientCardsError) Error() string {
	return fmt.Sprintf("cannot draw %d cards from a deck of %d", e.Want, e.Have)
}

// Deck is an ordered pile of cards consumed from the front.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a freshly shuffled 52 card deck. A nil source seeds
// the shuffle from crypto/rand.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

// NewDeckNoShuffle returns the 52 cards in their canonical order.
func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// Shuffle rebuilds the full 52 cards and permutes them with a
// Fisher-Yates walk from the last index down.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := deck.randGen
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	for i := len(deck.cards) - 1; i > 0; i-- {
		j := randGen.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}
	return deck
}

// Draw removes and returns the first n cards.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, InsufficientCardsError{Want: n, Have: len(deck.cards)}
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

// Cards returns a copy of the remaining cards in order.
func (deck *Deck) Cards() []Card {
	cards := make([]Card, len(deck.cards))
	copy(cards, deck.cards)
	return cards
}

func (deck *Deck) MarshalJSON() ([]byte, error) {
	return cardsJSON(deck.cards)
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for suit := Spade; suit <= Club; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}
