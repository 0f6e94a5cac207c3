package poker

import (
	"fmt"
	"sort"
)

// HandRank is the category of a 5 card hand, 10 (royal flush) down to
// 1 (high card).
type HandRank int32

const (
	HighCard HandRank = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankNames = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return handRankNames[r]
}

// HandValue is the strength of the best 5 card hand found in a card
// set. Score is a total ordering: category in the high bits, then the
// defining group ranks and kickers packed below it, so two values of
// the same category compare by their tie breakers.
type HandValue struct {
	Rank  HandRank
	Score int32
	Best  []Card
}

func (v HandValue) Beats(other HandValue) bool {
	return v.Score > other.Score
}

func (v HandValue) Ties(other HandValue) bool {
	return v.Score == other.Score
}

func (v HandValue) Description() string {
	return v.Rank.String()
}

// Evaluator ranks a 5 to 7 card set. The internal engine is the
// default; a library backed implementation can be swapped in behind
// the same contract.
type Evaluator interface {
	Evaluate(cards []Card) (HandValue, error)
}

// Engine is the internal hand ranking engine. It is stateless, pure,
// and never mutates its input.
type Engine struct{}

var DefaultEvaluator Evaluator = Engine{}

// Evaluate finds the best 5 card hand among all 5 card subsets of the
// given 5 to 7 cards.
func (Engine) Evaluate(cards []Card) (HandValue, error) {
	switch len(cards) {
	case 5:
		return evalFive(cards), nil
	case 6, 7:
		best := HandValue{}
		combo := make([]Card, 5)
		forEachFiveCombo(cards, combo, func(five []Card) {
			v := evalFive(five)
			if v.Score > best.Score {
				best = v
			}
		})
		return best, nil
	default:
		return HandValue{}, fmt.Errorf("hand evaluation needs 5 to 7 cards, got %d", len(cards))
	}
}

// forEachFiveCombo visits every 5 card subset of cards.
func forEachFiveCombo(cards []Card, scratch []Card, visit func([]Card)) {
	n := len(cards)
	var walk func(start, filled int)
	walk = func(start, filled int) {
		if filled == 5 {
			visit(scratch)
			return
		}
		for i := start; i <= n-(5-filled); i++ {
			scratch[filled] = cards[i]
			walk(i+1, filled+1)
		}
	}
	walk(0, 0)
}

// packScore builds the ordering key: 4 bits of category, then up to 5
// tie breaker ranks, 4 bits each. Ranks 2..14 fit into a nibble after
// subtracting 1.
func packScore(rank HandRank, tiebreak []Rank) int32 {
	score := int32(rank) << 20
	for i := 0; i < 5; i++ {
		var v int32
		if i < len(tiebreak) {
			v = int32(tiebreak[i]) - 1
		}
		score |= v << uint(16-4*i)
	}
	return score
}

// evalFive categorizes exactly 5 cards.
func evalFive(cards []Card) HandValue {
	values := make([]Rank, 5)
	for i, c := range cards {
		values[i] = c.Rank
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	flush := isFlush(cards)
	straight, straightHigh := straightHighCard(values)

	best := make([]Card, 5)
	copy(best, cards)
	sort.Slice(best, func(i, j int) bool { return best[i].Rank > best[j].Rank })

	if flush && straight {
		if straightHigh == Ace {
			return HandValue{Rank: RoyalFlush, Score: packScore(RoyalFlush, nil), Best: best}
		}
		return HandValue{Rank: StraightFlush, Score: packScore(StraightFlush, []Rank{straightHigh}), Best: orderStraight(best, straightHigh)}
	}

	groups := rankGroups(values)

	if groups[0].count == 4 {
		quad := groups[0].rank
		kicker := groups[1].rank
		return HandValue{
			Rank:  FourOfAKind,
			Score: packScore(FourOfAKind, []Rank{quad, kicker}),
			Best:  orderByGroups(cards, []Rank{quad, kicker}),
		}
	}

	if groups[0].count == 3 && groups[1].count == 2 {
		trips := groups[0].rank
		pair := groups[1].rank
		return HandValue{
			Rank:  FullHouse,
			Score: packScore(FullHouse, []Rank{trips, pair}),
			Best:  orderByGroups(cards, []Rank{trips, pair}),
		}
	}

	if flush {
		return HandValue{Rank: Flush, Score: packScore(Flush, values), Best: best}
	}

	if straight {
		return HandValue{Rank: Straight, Score: packScore(Straight, []Rank{straightHigh}), Best: orderStraight(best, straightHigh)}
	}

	if groups[0].count == 3 {
		trips := groups[0].rank
		kickers := []Rank{groups[1].rank, groups[2].rank}
		return HandValue{
			Rank:  ThreeOfAKind,
			Score: packScore(ThreeOfAKind, []Rank{trips, kickers[0], kickers[1]}),
			Best:  orderByGroups(cards, []Rank{trips, kickers[0], kickers[1]}),
		}
	}

	if groups[0].count == 2 && groups[1].count == 2 {
		highPair := groups[0].rank
		lowPair := groups[1].rank
		kicker := groups[2].rank
		return HandValue{
			Rank:  TwoPair,
			Score: packScore(TwoPair, []Rank{highPair, lowPair, kicker}),
			Best:  orderByGroups(cards, []Rank{highPair, lowPair, kicker}),
		}
	}

	if groups[0].count == 2 {
		pair := groups[0].rank
		kickers := []Rank{groups[1].rank, groups[2].rank, groups[3].rank}
		return HandValue{
			Rank:  OnePair,
			Score: packScore(OnePair, []Rank{pair, kickers[0], kickers[1], kickers[2]}),
			Best:  orderByGroups(cards, []Rank{pair, kickers[0], kickers[1], kickers[2]}),
		}
	}

	return HandValue{Rank: HighCard, Score: packScore(HighCard, values), Best: best}
}

func isFlush(cards []Card) bool {
	suit := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// straightHighCard reports whether the 5 descending sorted values form
// a straight, and the straight's high card. The wheel (A 5 4 3 2)
// counts as a five high straight.
func straightHighCard(desc []Rank) (bool, Rank) {
	// wheel
	if desc[0] == Ace && desc[1] == Five && desc[2] == Four && desc[3] == Three && desc[4] == Two {
		return true, Five
	}
	for i := 1; i < 5; i++ {
		if desc[i-1] != desc[i]+1 {
			return false, 0
		}
	}
	return true, desc[0]
}

type rankGroup struct {
	rank  Rank
	count int
}

// rankGroups buckets the values by rank and orders the buckets by
// count, then rank, both descending.
func rankGroups(values []Rank) []rankGroup {
	counts := map[Rank]int{}
	for _, v := range values {
		counts[v]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

// orderByGroups lays out the 5 cards defining groups first, in the
// given rank order, so the category cards lead the best hand.
func orderByGroups(cards []Card, rankOrder []Rank) []Card {
	out := make([]Card, 0, 5)
	for _, rank := range rankOrder {
		for _, c := range cards {
			if c.Rank == rank {
				out = append(out, c)
			}
		}
	}
	return out
}

// orderStraight puts the straight in descending play order, moving the
// ace to the back for the wheel.
func orderStraight(desc []Card, high Rank) []Card {
	if high != Five {
		return desc
	}
	out := make([]Card, 0, 5)
	out = append(out, desc[1:]...)
	out = append(out, desc[0])
	return out
}
