package match

// TopOfBook returns the aggregated best level of each side of the book.
// An empty side yields a nil level, never a zero-size one.
func TopOfBook(book Book) Top {
	return Top{
		Bid: bestLevel(book.Bids),
		Ask: bestLevel(book.Asks),
	}
}

// bestLevel sums the size of the leading orders that share the first price.
func bestLevel(orders []Order) *LevelInfo {
	if len(orders) == 0 {
		return nil
	}

	level := &LevelInfo{Price: orders[0].Price}
	for _, o := range orders {
		if !o.Price.Equal(level.Price) {
			break
		}
		level.Size += o.Size
	}
	return level
}

// level returns the level a strategy leg trades against: the bid when the
// effective multiplier buys the outright, the ask otherwise.
func (t Top) level(effective int64) *LevelInfo {
	if effective > 0 {
		return t.Bid
	}
	return t.Ask
}
