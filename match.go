package match

import "github.com/shopspring/decimal"

// Uncross runs continuous matching on a single book until either side is
// empty or the best bid no longer reaches the best ask.
//
// Each trade executes min(bid, ask) at the midpoint of the two limit prices.
// A Fill is produced for every non-implied side of a trade; implied orders
// settle through the outright allocation instead. When a side runs dry the
// accumulated fills are repriced to the last fill's price.
func Uncross(book Book) UncrossResult {
	book = book.clone()

	var (
		fills   []Fill
		matched int64
	)

	for {
		if len(book.Bids) == 0 || len(book.Asks) == 0 {
			normalizeFillPrices(fills)
			return UncrossResult{Book: book, Fills: fills, Matched: matched}
		}

		bid := &book.Bids[0]
		ask := &book.Asks[0]

		if bid.Price.LessThan(ask.Price) {
			return UncrossResult{Book: book, Fills: fills, Matched: matched}
		}

		size := min(bid.Size, ask.Size)
		price := midPrice(bid.Price, ask.Price)

		bid.Size -= size
		ask.Size -= size
		matched += size

		if !bid.Implied {
			fills = append(fills, newFill(bid, size, price))
		}
		if !ask.Implied {
			fills = append(fills, newFill(ask, size, price))
		}

		if bid.Size <= 0 {
			book.Bids = book.Bids[1:]
		}
		if ask.Size <= 0 {
			book.Asks = book.Asks[1:]
		}
	}
}

func newFill(order *Order, size int64, price decimal.Decimal) Fill {
	return Fill{
		ClientID: order.ClientID,
		Size:     size,
		Price:    price,
		OrderID:  order.ID,
		Done:     order.Size <= 0,
	}
}

// normalizeFillPrices reprices every fill to the most recent fill's price.
func normalizeFillPrices(fills []Fill) {
	if len(fills) == 0 {
		return
	}
	last := fills[len(fills)-1].Price
	for i := range fills {
		fills[i].Price = last
	}
}
