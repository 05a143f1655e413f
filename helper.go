package match

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// midPrice returns the midpoint of two limit prices.
// Integral prices produce an integral midpoint, truncated toward zero.
func midPrice(a, b decimal.Decimal) decimal.Decimal {
	mid := a.Add(b).Div(two)
	if a.IsInteger() && b.IsInteger() {
		return mid.Truncate(0)
	}
	return mid
}

// effectiveMultiplier is the leg multiplier seen from the side the strategy order is on.
func effectiveMultiplier(side Side, multiplier int64) int64 {
	if side == Sell {
		return -multiplier
	}
	return multiplier
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// appendMessages returns a new slice holding queue followed by msgs.
// It never writes into queue's backing array, which may be shared with an older Market.
func appendMessages(queue []Message, msgs ...Message) []Message {
	if len(msgs) == 0 {
		return queue
	}
	result := make([]Message, 0, len(queue)+len(msgs))
	result = append(result, queue...)
	return append(result, msgs...)
}

func appendEvents(queue []Event, events ...Event) []Event {
	if len(events) == 0 {
		return queue
	}
	result := make([]Event, 0, len(queue)+len(events))
	result = append(result, queue...)
	return append(result, events...)
}
