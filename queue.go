package match

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// A book side is a slice of orders kept best-price-first. Every helper in this
// file returns a fresh slice and leaves its input untouched, so callers holding
// an older Market value never observe the change.

type priceUnit struct {
	totalSize int64
	count     int64
}

// outranks reports whether a price arriving on side must be placed ahead of a resting price.
// Equal prices never outrank, which keeps time priority within a level.
func outranks(side Side, incoming, resting decimal.Decimal) bool {
	if side == Buy {
		return incoming.GreaterThan(resting)
	}
	return incoming.LessThan(resting)
}

// insertOrder places order before the first resting order it outranks, or at the back.
func insertOrder(orders []Order, order Order) []Order {
	pos := len(orders)
	for i := range orders {
		if outranks(order.Side, order.Price, orders[i].Price) {
			pos = i
			break
		}
	}

	result := make([]Order, 0, len(orders)+1)
	result = append(result, orders[:pos]...)
	result = append(result, order)
	result = append(result, orders[pos:]...)
	return result
}

// removeOrder drops the first order matching both identifiers.
// The input slice is returned as is when nothing matches.
func removeOrder(orders []Order, clientID int64, orderID uint64) []Order {
	for i := range orders {
		if orders[i].ClientID != clientID || orders[i].ID != orderID {
			continue
		}

		result := make([]Order, 0, len(orders)-1)
		result = append(result, orders[:i]...)
		result = append(result, orders[i+1:]...)
		return result
	}
	return orders
}

// withoutImplied returns the side with every implied order removed.
func withoutImplied(orders []Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		if !o.Implied {
			result = append(result, o)
		}
	}
	return result
}

func cloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	result := make([]Order, len(orders))
	copy(result, orders)
	return result
}

// isSorted reports whether the side respects its price ordering.
func isSorted(side Side, orders []Order) bool {
	for i := 1; i < len(orders); i++ {
		if outranks(side, orders[i].Price, orders[i-1].Price) {
			return false
		}
	}
	return true
}

// newLevelList creates the skiplist used to aggregate a side into price levels.
// Bids are kept in descending order (highest price first), asks ascending.
func newLevelList(side Side) *skiplist.SkipList {
	return skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
		d1, _ := lhs.(decimal.Decimal)
		d2, _ := rhs.(decimal.Decimal)

		cmp := d1.Cmp(d2)
		if side == Buy {
			return -cmp
		}
		return cmp
	}))
}

// depth returns the aggregated price levels of a side up to the specified limit.
func depth(side Side, orders []Order, limit uint32) []DepthItem {
	levels := newLevelList(side)
	for _, o := range orders {
		if el := levels.Get(o.Price); el != nil {
			unit, _ := el.Value.(*priceUnit)
			unit.totalSize += o.Size
			unit.count++
			continue
		}
		levels.Set(o.Price, &priceUnit{totalSize: o.Size, count: 1})
	}

	result := make([]DepthItem, 0, min(int(limit), levels.Len()))

	el := levels.Front()
	var i uint32
	for i < limit && el != nil {
		unit, _ := el.Value.(*priceUnit)
		price, _ := el.Key().(decimal.Decimal)
		result = append(result, DepthItem{
			ID:    i,
			Price: price,
			Size:  unit.totalSize,
			Count: unit.count,
		})

		el = el.Next()
		i++
	}

	return result
}
