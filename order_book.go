package match

// Book is one order book: bids sorted by non-increasing price, asks by
// non-decreasing price, arrival order kept within a price.
// A Book is a value; every operation returns a new Book.
type Book struct {
	Bids []Order `json:"bids"`
	Asks []Order `json:"asks"`
}

// Insert returns a copy of the book with order placed on its side by price/time priority.
func (book Book) Insert(order Order) Book {
	if order.Side == Buy {
		return Book{Bids: insertOrder(book.Bids, order), Asks: book.Asks}
	}
	return Book{Bids: book.Bids, Asks: insertOrder(book.Asks, order)}
}

// Cancel removes the first order on side owned by clientID with orderID.
// An unknown order leaves the book unchanged.
func (book Book) Cancel(clientID int64, orderID uint64, side Side) Book {
	if side == Buy {
		return Book{Bids: removeOrder(book.Bids, clientID, orderID), Asks: book.Asks}
	}
	return Book{Bids: book.Bids, Asks: removeOrder(book.Asks, clientID, orderID)}
}

// Depth returns the aggregated price levels of one side, best price first.
func (book Book) Depth(side Side, limit uint32) []DepthItem {
	if side == Buy {
		return depth(Buy, book.Bids, limit)
	}
	return depth(Sell, book.Asks, limit)
}

// Find returns the resting order with the given id.
func (book Book) Find(orderID uint64) (Order, bool) {
	for _, side := range [][]Order{book.Bids, book.Asks} {
		for _, o := range side {
			if o.ID == orderID {
				return o, true
			}
		}
	}
	return Order{}, false
}

// TotalSize sums the remaining size of both sides.
func (book Book) TotalSize(includeImplied bool) int64 {
	var total int64
	for _, side := range [][]Order{book.Bids, book.Asks} {
		for _, o := range side {
			if o.Implied && !includeImplied {
				continue
			}
			total += o.Size
		}
	}
	return total
}

// OrderCount returns the number of resting orders on both sides.
func (book Book) OrderCount() int {
	return len(book.Bids) + len(book.Asks)
}

// IsSorted reports whether both sides respect price ordering.
func (book Book) IsSorted() bool {
	return isSorted(Buy, book.Bids) && isSorted(Sell, book.Asks)
}

// HasImplied reports whether any implied order rests in the book.
func (book Book) HasImplied() bool {
	for _, side := range [][]Order{book.Bids, book.Asks} {
		for _, o := range side {
			if o.Implied {
				return true
			}
		}
	}
	return false
}

// withoutImplied strips every implied order from both sides.
func (book Book) withoutImplied() Book {
	return Book{Bids: withoutImplied(book.Bids), Asks: withoutImplied(book.Asks)}
}

func (book Book) clone() Book {
	return Book{Bids: cloneOrders(book.Bids), Asks: cloneOrders(book.Asks)}
}
