package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBook() Book {
	var book Book
	book = book.Insert(newTestOrder(1, Buy, 1, 90))
	book = book.Insert(newTestOrder(2, Buy, 1, 80))
	book = book.Insert(newTestOrder(3, Buy, 1, 70))
	book = book.Insert(newTestOrder(4, Sell, 1, 110))
	book = book.Insert(newTestOrder(5, Sell, 1, 120))
	book = book.Insert(newTestOrder(6, Sell, 1, 130))
	return book
}

func TestBookInsert(t *testing.T) {
	book := createTestBook()

	assert.Equal(t, []uint64{1, 2, 3}, ids(book.Bids))
	assert.Equal(t, []uint64{4, 5, 6}, ids(book.Asks))
	assert.Equal(t, 6, book.OrderCount())
	assert.True(t, book.IsSorted())

	// same price keeps arrival order
	book = book.Insert(newTestOrder(7, Buy, 1, 80))
	assert.Equal(t, []uint64{1, 2, 7, 3}, ids(book.Bids))
}

func TestBookIsValue(t *testing.T) {
	book := createTestBook()

	next := book.Insert(newTestOrder(7, Sell, 1, 100))
	next = next.Cancel(101, 1, Buy)

	assert.Equal(t, []uint64{1, 2, 3}, ids(book.Bids))
	assert.Equal(t, []uint64{4, 5, 6}, ids(book.Asks))
	assert.Equal(t, []uint64{2, 3}, ids(next.Bids))
	assert.Equal(t, []uint64{7, 4, 5, 6}, ids(next.Asks))
}

func TestBookCancel(t *testing.T) {
	book := createTestBook()

	t.Run("Known", func(t *testing.T) {
		result := book.Cancel(105, 5, Sell)
		assert.Equal(t, []uint64{4, 6}, ids(result.Asks))
		assert.Equal(t, book.Bids, result.Bids)
	})

	t.Run("WrongSide", func(t *testing.T) {
		result := book.Cancel(105, 5, Buy)
		assert.Equal(t, book, result)
	})

	t.Run("Unknown", func(t *testing.T) {
		result := book.Cancel(1, 999, Sell)
		assert.Equal(t, book, result)
	})

	t.Run("InsertCancelRoundTrip", func(t *testing.T) {
		order := newTestOrder(42, Buy, 3, 85)
		result := book.Insert(order).Cancel(order.ClientID, order.ID, order.Side)
		assert.Equal(t, book, result)
	})
}

func TestBookFind(t *testing.T) {
	book := createTestBook()

	order, ok := book.Find(5)
	require.True(t, ok)
	assert.Equal(t, Sell, order.Side)
	assert.Equal(t, "120", order.Price.String())

	_, ok = book.Find(100)
	assert.False(t, ok)
}

func TestBookTotalSize(t *testing.T) {
	book := createTestBook()

	implied := newTestOrder(7, Buy, 10, 75)
	implied.Implied = true
	book = book.Insert(implied)

	assert.Equal(t, int64(6), book.TotalSize(false))
	assert.Equal(t, int64(16), book.TotalSize(true))
	assert.True(t, book.HasImplied())

	book = book.withoutImplied()
	assert.False(t, book.HasImplied())
	assert.Equal(t, int64(6), book.TotalSize(true))
}

func TestBookDepth(t *testing.T) {
	book := createTestBook()
	book = book.Insert(newTestOrder(7, Buy, 4, 90))

	bids := book.Depth(Buy, 2)
	require.Len(t, bids, 2)
	assert.Equal(t, "90", bids[0].Price.String())
	assert.Equal(t, int64(5), bids[0].Size)
	assert.Equal(t, int64(2), bids[0].Count)
	assert.Equal(t, "80", bids[1].Price.String())

	asks := book.Depth(Sell, 5)
	require.Len(t, asks, 3)
	assert.Equal(t, "110", asks[0].Price.String())
	assert.Equal(t, "130", asks[2].Price.String())
}

func TestTopOfBook(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		top := TopOfBook(Book{})
		assert.Nil(t, top.Bid)
		assert.Nil(t, top.Ask)
	})

	t.Run("AggregatesBestPriceOnly", func(t *testing.T) {
		book := createTestBook()
		book = book.Insert(newTestOrder(7, Buy, 4, 90))
		book = book.Insert(newTestOrder(8, Buy, 50, 89))

		top := TopOfBook(book)
		require.NotNil(t, top.Bid)
		assert.Equal(t, int64(5), top.Bid.Size)
		assert.Equal(t, "90", top.Bid.Price.String())

		require.NotNil(t, top.Ask)
		assert.Equal(t, int64(1), top.Ask.Size)
		assert.Equal(t, "110", top.Ask.Price.String())
	})

	t.Run("OneSided", func(t *testing.T) {
		book := Book{}.Insert(newTestOrder(1, Sell, 7, 10))
		top := TopOfBook(book)
		assert.Nil(t, top.Bid)
		require.NotNil(t, top.Ask)
		assert.Equal(t, int64(7), top.Ask.Size)
	})

	t.Run("LevelBySign", func(t *testing.T) {
		top := TopOfBook(createTestBook())
		assert.Same(t, top.Bid, top.level(2))
		assert.Same(t, top.Ask, top.level(-1))
	})
}
