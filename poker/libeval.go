package poker

import (
	"fmt"

	lib "github.com/chehsunliu/poker"
)

// LibEvaluator ranks hands with the chehsunliu/poker lookup table
// evaluator. It satisfies the same contract as the internal Engine and
// produces the same relative ordering; it exists as a swappable
// backend, not a second source of truth.
type LibEvaluator struct{}

var libRankChars = map[Rank]byte{
	Two: '2', Three: '3', Four: '4', Five: '5', Six: '6', Seven: '7',
	Eight: '8', Nine: '9', Ten: 'T', Jack: 'J', Queen: 'Q', King: 'K', Ace: 'A',
}

var libSuitChars = map[Suit]byte{
	Spade:   's',
	Heart:   'h',
	Diamond: 'd',
	Club:    'c',
}

// worst rank the library can produce; used to turn its
// lower-is-better rank into our higher-is-better score.
const libWorstRank = 7462

func toLibCard(c Card) lib.Card {
	return lib.NewCard(string([]byte{libRankChars[c.Rank], libSuitChars[c.Suit]}))
}

func fromLibRankClass(rankClass int32, libRank int32) HandRank {
	switch rankClass {
	case 1:
		if libRank == 1 {
			return RoyalFlush
		}
		return StraightFlush
	case 2:
		return FourOfAKind
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return ThreeOfAKind
	case 7:
		return TwoPair
	case 8:
		return OnePair
	default:
		return HighCard
	}
}

func (LibEvaluator) Evaluate(cards []Card) (HandValue, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandValue{}, fmt.Errorf("hand evaluation needs 5 to 7 cards, got %d", len(cards))
	}

	libCards := make([]lib.Card, len(cards))
	for i, c := range cards {
		libCards[i] = toLibCard(c)
	}
	libRank := lib.Evaluate(libCards)
	rankClass := lib.RankClass(libRank)

	// Pick the 5 card subset that reproduces the overall rank.
	best := make([]Card, 5)
	if len(cards) == 5 {
		copy(best, cards)
	} else {
		scratch := make([]Card, 5)
		libScratch := make([]lib.Card, 5)
		found := false
		forEachFiveCombo(cards, scratch, func(five []Card) {
			if found {
				return
			}
			for i, c := range five {
				libScratch[i] = toLibCard(c)
			}
			if lib.Evaluate(libScratch) == libRank {
				copy(best, five)
				found = true
			}
		})
	}

	return HandValue{
		Rank:  fromLibRankClass(rankClass, libRank),
		Score: libWorstRank + 1 - libRank,
		Best:  best,
	}, nil
}
