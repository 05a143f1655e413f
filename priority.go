package match

import (
	"math"
	"slices"
)

// strategyRank is the key the implied-cycle ordering is decided on.
type strategyRank struct {
	index     int
	expiry    int64 // nearest expiry over the legs with a non-zero multiplier
	weight    int64 // sum of |multiplier|
	createdAt int64
}

func rankStrategy(m Market, idx int) strategyRank {
	rank := strategyRank{
		index:     idx,
		expiry:    math.MaxInt64,
		createdAt: m.Strategies[idx].CreatedAt,
	}

	for _, leg := range m.Strategies[idx].Legs {
		if leg.Multiplier == 0 {
			continue
		}
		rank.weight += abs64(leg.Multiplier)
		if leg.Outright >= 0 && leg.Outright < OutrightCount && m.Outrights[leg.Outright].Expiry < rank.expiry {
			rank.expiry = m.Outrights[leg.Outright].Expiry
		}
	}
	return rank
}

// comparePriority orders two strategies lexicographically on
// (nearest leg expiry asc, total leg weight desc, creation time asc, index asc).
// It returns a negative number when a runs its implied cycle first.
// The final index key makes this a strict total order.
func comparePriority(a, b strategyRank) int {
	switch {
	case a.expiry != b.expiry:
		return cmpInt64(a.expiry, b.expiry)
	case a.weight != b.weight:
		return cmpInt64(b.weight, a.weight)
	case a.createdAt != b.createdAt:
		return cmpInt64(a.createdAt, b.createdAt)
	default:
		return a.index - b.index
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ComparePriority compares strategies a and b of the market. A negative
// result means a runs its implied cycle before b.
func ComparePriority(m Market, a, b int) int {
	return comparePriority(rankStrategy(m, a), rankStrategy(m, b))
}

// StrategyPriority returns the strategy indexes in the order their implied cycles run.
func StrategyPriority(m Market) [StrategyCount]int {
	ranks := make([]strategyRank, StrategyCount)
	for i := range ranks {
		ranks[i] = rankStrategy(m, i)
	}
	slices.SortFunc(ranks, comparePriority)

	var order [StrategyCount]int
	for i, r := range ranks {
		order[i] = r.index
	}
	return order
}
