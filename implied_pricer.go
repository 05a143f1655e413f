package match

import "github.com/shopspring/decimal"

// PriceImpliedOrder derives the implied order a strategy can post on side from
// the outright tops it references.
//
// The size is the largest strategy quantity every leg can absorb at its top
// level, level.Size / |multiplier| with floor division. Legs with a zero
// multiplier are ignored and a leg whose level is absent does not constrain
// the size. The price is the multiplier-weighted sum of the level prices.
// The returned order has no ID yet and may have a zero size.
func PriceImpliedOrder(strategy Strategy, tops [OutrightCount]Top, side Side, timestamp int64) Order {
	var (
		size        int64
		constrained bool
		price       = decimal.Zero
	)

	for _, leg := range strategy.Legs {
		if leg.Multiplier == 0 || leg.Outright < 0 || leg.Outright >= OutrightCount {
			continue
		}

		level := tops[leg.Outright].level(effectiveMultiplier(side, leg.Multiplier))
		if level == nil {
			continue
		}

		capacity := level.Size / abs64(leg.Multiplier)
		if !constrained || capacity < size {
			size = capacity
			constrained = true
		}
		price = price.Add(level.Price.Mul(decimal.NewFromInt(leg.Multiplier)))
	}

	return Order{
		Side:      side,
		Size:      size,
		Price:     price,
		Timestamp: timestamp,
		ClientID:  ImpliedClientID,
		Implied:   true,
	}
}
