package poker

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Rank is the numeric value of a card rank: 2..10 for the number
// cards, then J=11, Q=12, K=13, A=14.
type Rank int32

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

type Suit int32

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

var (
	rankNames = map[Rank]string{
		Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
		Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
	}
	suitNames = map[Suit]string{
		Spade:   "♠",
		Heart:   "♥",
		Diamond: "♦",
		Club:    "♣",
	}

	charToRank = map[byte]Rank{
		'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven,
		'8': Eight, '9': Nine, 'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
	}
	charToSuit = map[byte]Suit{
		's': Spade,
		'h': Heart,
		'd': Diamond,
		'c': Club,
	}

	nameToRank = map[string]Rank{}
	nameToSuit = map[string]Suit{}
)

func init() {
	for rank, name := range rankNames {
		nameToRank[name] = rank
	}
	for suit, name := range suitNames {
		nameToSuit[name] = suit
	}
}

// Card is a single playing card. Cards are value types and never
// change once created.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard parses a two character card like "As" or "Th".
func NewCard(s string) Card {
	if len(s) != 2 {
		panic(fmt.Sprintf("invalid card string [%s]", s))
	}
	rank, ok := charToRank[s[0]]
	if !ok {
		panic(fmt.Sprintf("invalid card rank [%s]", s))
	}
	suit, ok := charToSuit[s[1]]
	if !ok {
		panic(fmt.Sprintf("invalid card suit [%s]", s))
	}
	return Card{Rank: rank, Suit: suit}
}

// NewCards parses a space separated list of cards ("As Kh Qd").
func NewCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, len(fields))
	for i, f := range fields {
		cards[i] = NewCard(f)
	}
	return cards
}

func (c Card) String() string {
	return rankNames[c.Rank] + suitNames[c.Suit]
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"rank":%q,"suit":%q}`, rankNames[c.Rank], suitNames[c.Suit])), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var aux struct {
		Rank string `json:"rank"`
		Suit string `json:"suit"`
	}
	if err := jsoniter.Unmarshal(b, &aux); err != nil {
		return err
	}
	rank, ok := nameToRank[aux.Rank]
	if !ok {
		return fmt.Errorf("invalid card rank [%s]", aux.Rank)
	}
	suit, ok := nameToSuit[aux.Suit]
	if !ok {
		return fmt.Errorf("invalid card suit [%s]", aux.Suit)
	}
	c.Rank = rank
	c.Suit = suit
	return nil
}

func cardsJSON(cards []Card) ([]byte, error) {
	return jsoniter.Marshal(cards)
}

func CardsToString(cards []Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
