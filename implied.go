package match

import (
	"github.com/0x5487/implied-engine/protocol"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImpliedUncrossSide runs one implied cycle for strategy idx on side.
//
// The implied order is priced from the current outright tops, inserted into
// the strategy book and uncrossed there. The quantity it traded is then
// allocated to each leg's outright book at the captured level price. Finally
// every implied order is purged and the produced fills are appended to the
// outbound queue: strategy fills first, then outright fills by outright index.
//
// When the implied order trades nothing the input market is returned as is.
func ImpliedUncrossSide(m Market, idx int, side Side) Market {
	if idx < 0 || idx >= StrategyCount {
		logger.Warn("implied uncross for unknown strategy ignored", zap.Int("strategy", idx))
		return m
	}

	strategy := m.Strategies[idx]
	instrument := protocol.NewStrategy(uint8(idx + 1))

	var tops [OutrightCount]Top
	for i := range m.OutrightBooks {
		tops[i] = TopOfBook(m.OutrightBooks[i])
	}

	implied := PriceImpliedOrder(strategy, tops, side, m.Time)
	if implied.Size <= 0 {
		return m
	}

	nextID := m.LastOrderID + 1
	implied.ID = nextID
	implied.Instrument = instrument

	result := Uncross(m.StrategyBooks[idx].Insert(implied))

	matched := implied.Size
	if residual, ok := result.Book.Find(implied.ID); ok {
		matched -= residual.Size
	}
	if matched <= 0 {
		return m
	}

	msgs := fillMessages(instrument, result.Fills)

	out := m
	out.StrategyBooks[idx] = result.Book.withoutImplied()

	for o := 0; o < OutrightCount; o++ {
		for _, leg := range strategy.Legs {
			if leg.Outright != o || leg.Multiplier == 0 {
				continue
			}

			effective := effectiveMultiplier(side, leg.Multiplier)
			level := tops[o].level(effective)
			if level == nil {
				continue
			}

			nextID++
			outright := protocol.NewOutright(uint8(o + 1))
			book, fills := allocateImpliedFills(
				out.OutrightBooks[o],
				outright,
				matched*effective,
				level.Price,
				nextID,
				m.Time,
			)
			out.OutrightBooks[o] = book
			msgs = append(msgs, fillMessages(outright, fills)...)
		}
	}

	out.LastOrderID = nextID
	out.Outbound = appendMessages(out.Outbound, msgs...)

	logger.Debug("implied cycle traded",
		zap.String("strategy", strategy.Name),
		zap.Stringer("side", side),
		zap.Int64("matched", matched),
		zap.String("implied_price", implied.Price.String()),
		zap.Int("fills", len(msgs)),
	)
	return out
}

// ImpliedUncrossBoth runs the buy cycle and then the sell cycle of strategy idx,
// the sell cycle seeing the market left by the buy cycle.
func ImpliedUncrossBoth(m Market, idx int) Market {
	m = ImpliedUncrossSide(m, idx, Buy)
	return ImpliedUncrossSide(m, idx, Sell)
}

// allocateImpliedFills executes a leg of an implied trade in its outright book.
// A positive signed size sells into the bids, a negative one buys from the asks.
// The marker order is implied, so only the resting orders it hits are filled,
// and whatever is left of it is removed from the book.
func allocateImpliedFills(book Book, instrument Instrument, signedSize int64, price decimal.Decimal, orderID uint64, timestamp int64) (Book, []Fill) {
	if signedSize == 0 {
		return book, nil
	}

	side := Sell
	if signedSize < 0 {
		side = Buy
	}

	marker := Order{
		ID:         orderID,
		Side:       side,
		Size:       abs64(signedSize),
		Price:      price,
		Timestamp:  timestamp,
		ClientID:   ImpliedClientID,
		Instrument: instrument,
		Implied:    true,
	}

	result := Uncross(book.Insert(marker))
	return result.Book.withoutImplied(), result.Fills
}
